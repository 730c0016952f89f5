// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package protocol defines the test events decoded from a device harness
// stream, and the interfaces connecting harness parsers to consumers.
package protocol

import (
	"context"
	"time"

	"go.openharmony.org/ohdriver/internal/testcase"
)

// Status is the outcome a harness reports for a finished test.
type Status int

const (
	// StatusPass means the test passed.
	StatusPass Status = iota
	// StatusFail means the test failed or raised an error.
	StatusFail
	// StatusIgnored means the harness skipped the test on purpose.
	StatusIgnored
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// TestStartEvent is sent when the harness starts a test.
type TestStartEvent struct {
	Time time.Time
	ID   testcase.ID
}

// TestEndEvent is sent when the harness reports the outcome of a test.
type TestEndEvent struct {
	Time    time.Time
	ID      testcase.ID
	Status  Status
	Message string
}

// RunLogEvent carries harness output that is not tied to a test.
type RunLogEvent struct {
	Time time.Time
	Text string
}

// RunFinishedEvent is sent when the harness prints its run summary. Streams
// cut short by a crash or timeout never carry one.
type RunFinishedEvent struct {
	Time    time.Time
	Summary string
}

// Output receives events decoded from a harness stream, in arrival order.
type Output interface {
	TestStart(ctx context.Context, ev *TestStartEvent) error
	TestEnd(ctx context.Context, ev *TestEndEvent) error
	RunLog(ctx context.Context, ev *RunLogEvent) error
	RunFinished(ctx context.Context, ev *RunFinishedEvent) error
}

// Parser decodes a harness stream one line at a time.
type Parser interface {
	// ParseLine consumes one line, without its trailing newline.
	ParseLine(ctx context.Context, line string, out Output) error
	// Finish is called once when the stream ends, including truncated
	// streams.
	Finish(ctx context.Context, out Output) error
}
