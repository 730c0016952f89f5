// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package processor

import (
	"context"
	"time"

	"go.openharmony.org/ohdriver/internal/protocol"
	"go.openharmony.org/ohdriver/internal/testcase"
)

// TestInfo describes a test seen in the stream.
type TestInfo struct {
	ID    testcase.ID
	Start time.Time
}

// Result is the outcome of a finished test.
type Result struct {
	Start   time.Time
	End     time.Time
	Status  protocol.Status
	Message string
}

// LogEntry is a line of run output not attributed to any test.
type LogEntry struct {
	Time time.Time
	Text string
}

// RunSummary is passed to handlers when the stream of an invocation ends.
type RunSummary struct {
	// Finished is true if the harness reported the end of the run.
	Finished bool
	// Unfinished lists tests that started but never reported an outcome.
	Unfinished []testcase.ID
}

// Handler handles processor events.
type Handler interface {
	RunStart(ctx context.Context) error
	TestStart(ctx context.Context, ti *TestInfo) error
	TestEnd(ctx context.Context, ti *TestInfo, r *Result) error
	RunLog(ctx context.Context, l *LogEntry) error
	RunEnd(ctx context.Context, s *RunSummary)
}

// baseHandler is an implementation of Handler that does nothing in all
// methods. It can be embedded to handler implementations to provide default
// method implementations.
type baseHandler struct{}

var _ Handler = baseHandler{}

func (baseHandler) RunStart(ctx context.Context) error {
	return nil
}

func (baseHandler) TestStart(ctx context.Context, ti *TestInfo) error {
	return nil
}

func (baseHandler) TestEnd(ctx context.Context, ti *TestInfo, r *Result) error {
	return nil
}

func (baseHandler) RunLog(ctx context.Context, l *LogEntry) error {
	return nil
}

func (baseHandler) RunEnd(ctx context.Context, s *RunSummary) {}
