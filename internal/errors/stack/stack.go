// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package stack records where errors are created. It backs the errors
// package and is not meant to be imported elsewhere.
package stack

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Depth is the number of frames printed for a Stack.
const Depth = 8

// ellipsis ends a printed Stack that was cut at Depth frames.
const ellipsis = "\t..."

// Frame is a resolved call site.
type Frame struct {
	Func string
	File string // base name
	Line int
}

func (f Frame) String() string {
	return fmt.Sprintf("\tat %s (%s:%d)", f.Func, f.File, f.Line)
}

// Stack is a captured call stack.
type Stack struct {
	pcs []uintptr
}

// New captures the call stack. skip=0 makes the caller of New the innermost
// frame.
func New(skip int) Stack {
	var buf [Depth + 1]uintptr
	n := runtime.Callers(skip+2, buf[:])
	return Stack{pcs: append([]uintptr(nil), buf[:n]...)}
}

// Frames resolves at most Depth frames, innermost first. truncated is set
// if the stack was deeper.
func (s Stack) Frames() (frames []Frame, truncated bool) {
	cf := runtime.CallersFrames(s.pcs)
	for {
		f, more := cf.Next()
		frames = append(frames, Frame{Func: f.Function, File: filepath.Base(f.File), Line: f.Line})
		if !more {
			return frames, false
		}
		if len(frames) == Depth {
			return frames, true
		}
	}
}

// String prints one "\tat func (file:line)" line per frame.
func (s Stack) String() string {
	frames, truncated := s.Frames()
	var sb strings.Builder
	for i, f := range frames {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.String())
	}
	if truncated {
		sb.WriteString("\n" + ellipsis)
	}
	return sb.String()
}
