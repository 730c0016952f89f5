// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package transport runs shell commands on a device and streams their output.
//
// A device session is single-capacity: callers must not issue concurrent
// invocations on one Transport. Log capture runs on its own channel and may
// overlap invocations.
package transport

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"code.cloudfoundry.org/clock"

	"go.openharmony.org/ohdriver/internal/errors"
)

// ErrUnresponsive is matched (with errors.Is) by errors returned when an
// invocation times out or the connection to the device fails.
var ErrUnresponsive = stderrors.New("device session unresponsive")

// Transport runs commands on a single device.
type Transport interface {
	// Invoke runs command on the device and copies its output to sink as it
	// arrives, returning when the command exits. If timeout is positive and
	// passes first, the command is aborted. Timeouts and connection failures
	// return errors matching ErrUnresponsive.
	Invoke(ctx context.Context, command string, timeout time.Duration, sink io.Writer) error

	// StartLogCapture starts copying the device system log to w until the
	// returned LogCapture is stopped.
	StartLogCapture(ctx context.Context, w io.Writer) (LogCapture, error)

	// Close releases resources held by the transport.
	Close(ctx context.Context) error
}

// LogCapture is a running device log capture.
type LogCapture interface {
	// Stop ends the capture and waits until all output has been written.
	Stop(ctx context.Context) error
}

// unresponsiveError is returned for timeouts and connection failures.
type unresponsiveError struct {
	*errors.E
}

func (e *unresponsiveError) Is(target error) bool {
	return target == ErrUnresponsive
}

func newUnresponsiveError(cause error, format string, args ...interface{}) *unresponsiveError {
	if cause == nil {
		return &unresponsiveError{E: errors.Errorf(format, args...)}
	}
	return &unresponsiveError{E: errors.Wrapf(cause, format, args...)}
}

// withTimeout returns a context canceled with an unresponsive error once
// timeout passes on clk. A non-positive timeout means no deadline.
func withTimeout(ctx context.Context, clk clock.Clock, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(ctx)
	if timeout <= 0 {
		return ctx, func() { cancel(context.Canceled) }
	}

	tm := clk.NewTimer(timeout)
	go func() {
		defer tm.Stop()
		select {
		case <-tm.C():
			cancel(newUnresponsiveError(nil, "no response within %v", timeout))
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(context.Canceled) }
}

// abortError returns the error to report for an invocation whose context
// ctx was canceled.
func abortError(ctx context.Context) error {
	cause := context.Cause(ctx)
	if errors.Is(cause, ErrUnresponsive) {
		return cause
	}
	return ctx.Err()
}
