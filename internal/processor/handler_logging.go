// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package processor

import (
	"context"
	"time"

	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/protocol"
)

const testOutputTimeFmt = "15:04:05.000" // format for timestamps attached to test output

// loggingHandler emits logs for test execution events.
type loggingHandler struct {
	baseHandler
}

var _ Handler = &loggingHandler{}

// NewLoggingHandler creates a Handler logging test events to the logger
// attached to the context.
func NewLoggingHandler() *loggingHandler {
	return &loggingHandler{}
}

func (h *loggingHandler) TestStart(ctx context.Context, ti *TestInfo) error {
	logging.Infof(ctx, "Started test %s", ti.ID)
	return nil
}

func (h *loggingHandler) TestEnd(ctx context.Context, ti *TestInfo, r *Result) error {
	switch r.Status {
	case protocol.StatusIgnored:
		logging.Infof(ctx, "Ignored test %s", ti.ID)
	default:
		logging.Infof(ctx, "Completed test %s in %v: %s", ti.ID, r.End.Sub(r.Start).Round(time.Millisecond), r.Status)
	}
	if r.Message != "" {
		logging.Infof(ctx, "[%s] %s", r.End.Format(testOutputTimeFmt), r.Message)
	}
	return nil
}

func (h *loggingHandler) RunLog(ctx context.Context, l *LogEntry) error {
	logging.Debugf(ctx, "[%s] %s", l.Time.Format(testOutputTimeFmt), l.Text)
	return nil
}

func (h *loggingHandler) RunEnd(ctx context.Context, s *RunSummary) {
	if !s.Finished {
		logging.Info(ctx, "Harness did not report the end of the run")
	}
}
