// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package errors provides basic utilities to construct errors.
//
// Use this package rather than the standard errors package or fmt.Errorf to
// construct errors in the driver. Errors created here record a stack trace
// and their cause, and print the whole chain with the "%+v" verb.
//
//	errors.New("device not found")
//	errors.Errorf("device %s not found", serial)
//	errors.Wrap(err, "failed to open device log")
//	errors.Wrapf(err, "failed to run module %s", name)
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"go.openharmony.org/ohdriver/internal/errors/stack"
)

// E is the error implementation used by this package. Embed *E in a custom
// error type to get stack traces and chaining for free.
type E struct {
	msg   string      // error message to be prepended to cause
	stk   stack.Stack // stack trace where this error was created
	cause error       // original error that caused this error if non-nil
}

// Error implements the error interface.
func (e *E) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.cause.Error())
}

// Unwrap returns the cause of e, or nil.
func (e *E) Unwrap() error {
	return e.cause
}

// Format implements fmt.Formatter. "%+v" prints the error chain with traces.
func (e *E) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		io.WriteString(s, formatChain(e))
	} else {
		io.WriteString(s, e.Error())
	}
}

// base returns e itself. It is promoted to types embedding *E so that
// formatChain can find the trace of a custom error type.
func (e *E) base() *E {
	return e
}

func formatChain(err error) string {
	var chain []string
	for err != nil {
		x, ok := err.(interface{ base() *E })
		if !ok {
			chain = append(chain, fmt.Sprintf("%s\n\tat ???", err.Error()))
			break
		}
		e := x.base()
		chain = append(chain, fmt.Sprintf("%s\n%v", e.msg, e.stk))
		err = e.cause
	}
	return strings.Join(chain, "\n")
}

// New creates a new error with the given message.
func New(msg string) *E {
	return &E{msg: msg, stk: stack.New(1)}
}

// Errorf creates a new error with a formatted message.
func Errorf(format string, args ...interface{}) *E {
	return &E{msg: fmt.Sprintf(format, args...), stk: stack.New(1)}
}

// Wrap creates a new error with the given message, wrapping cause.
// If cause is nil, this is the same as New.
func Wrap(cause error, msg string) *E {
	return &E{msg: msg, stk: stack.New(1), cause: cause}
}

// Wrapf creates a new error with a formatted message, wrapping cause.
// If cause is nil, this is the same as Errorf.
func Wrapf(cause error, format string, args ...interface{}) *E {
	return &E{msg: fmt.Sprintf(format, args...), stk: stack.New(1), cause: cause}
}

// Is is the same as the standard errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is the same as the standard errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Unwrap is the same as the standard errors.Unwrap.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}
