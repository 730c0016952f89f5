// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package transporttest provides a scripted fake device for unit tests.
package transporttest

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/transport"
)

// Reply is the scripted response to one invocation.
type Reply struct {
	// Output is written to the sink, one line per Write call.
	Output string
	// Unresponsive makes the invocation fail with transport.ErrUnresponsive
	// after Output is written.
	Unresponsive bool
}

// Transport is a fake transport.Transport answering invocations with
// scripted replies in order. Invocations beyond the script fail.
type Transport struct {
	// LogOutput is written to the writer passed to StartLogCapture.
	LogOutput string

	mu       sync.Mutex
	replies  []Reply
	commands []string
	timeouts []time.Duration
	captures int
	stopped  int
	closed   bool
}

var _ transport.Transport = &Transport{}

// New returns a new Transport answering with replies.
func New(replies ...Reply) *Transport {
	return &Transport{replies: replies}
}

// Invoke writes the next scripted reply to sink.
func (t *Transport) Invoke(ctx context.Context, command string, timeout time.Duration, sink io.Writer) error {
	t.mu.Lock()
	t.commands = append(t.commands, command)
	t.timeouts = append(t.timeouts, timeout)
	n := len(t.commands)
	if n > len(t.replies) {
		t.mu.Unlock()
		return errors.Errorf("unexpected invocation #%d: %s", n, command)
	}
	r := t.replies[n-1]
	t.mu.Unlock()

	for _, line := range strings.SplitAfter(r.Output, "\n") {
		if line == "" {
			continue
		}
		if _, err := io.WriteString(sink, line); err != nil {
			return err
		}
	}
	if r.Unresponsive {
		return errors.Wrapf(transport.ErrUnresponsive, "scripted timeout after %v", timeout)
	}
	return nil
}

// Commands returns the commands invoked so far.
func (t *Transport) Commands() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.commands...)
}

// Timeouts returns the timeouts passed to each invocation.
func (t *Transport) Timeouts() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.timeouts...)
}

// StartLogCapture writes LogOutput to w.
func (t *Transport) StartLogCapture(ctx context.Context, w io.Writer) (transport.LogCapture, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.captures++
	if _, err := io.WriteString(w, t.LogOutput); err != nil {
		return nil, err
	}
	return &logCapture{t: t}, nil
}

// Captures returns how many log captures were started and stopped.
func (t *Transport) Captures() (started, stopped int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.captures, t.stopped
}

// Close marks the transport closed.
func (t *Transport) Close(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Closed reports whether Close was called.
func (t *Transport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

type logCapture struct {
	t *Transport
}

func (c *logCapture) Stop(ctx context.Context) error {
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	c.t.stopped++
	return nil
}
