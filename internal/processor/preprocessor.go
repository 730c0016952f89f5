// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package processor

import (
	"context"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/protocol"
	"go.openharmony.org/ohdriver/internal/testcase"
)

// preprocessor processes test events before passing them to handlers.
// See the comments in processor.go for details.
type preprocessor struct {
	handlers []Handler

	running  []*TestInfo
	finished bool
	ended    bool
}

var _ protocol.Output = &preprocessor{}

func newPreprocessor(handlers []Handler) *preprocessor {
	return &preprocessor{handlers: handlers}
}

func (p *preprocessor) RunStart(ctx context.Context) error {
	var firstErr error
	for _, h := range p.handlers {
		if err := h.RunStart(ctx); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "processing RunStart")
		}
	}
	return firstErr
}

func (p *preprocessor) TestStart(ctx context.Context, ev *protocol.TestStartEvent) error {
	if ti := p.infoOf(ev.ID); ti != nil {
		return errors.Errorf("processing TestStart: %s is already running", ev.ID)
	}
	ti := &TestInfo{ID: ev.ID, Start: ev.Time}
	p.running = append(p.running, ti)

	var firstErr error
	for _, h := range p.handlers {
		if err := h.TestStart(ctx, ti); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "processing TestStart")
		}
	}
	return firstErr
}

func (p *preprocessor) TestEnd(ctx context.Context, ev *protocol.TestEndEvent) error {
	ti := p.infoOf(ev.ID)
	if ti == nil {
		// Some harnesses report only outcomes. Treat the outcome as a test
		// that started and ended at the same moment.
		logging.Debugf(ctx, "Outcome for %s arrived without a start", ev.ID)
		if err := p.TestStart(ctx, &protocol.TestStartEvent{Time: ev.Time, ID: ev.ID}); err != nil {
			return errors.Wrap(err, "processing TestEnd")
		}
		ti = p.infoOf(ev.ID)
	}
	p.remove(ti)

	r := &Result{
		Start:   ti.Start,
		End:     ev.Time,
		Status:  ev.Status,
		Message: ev.Message,
	}

	var firstErr error
	for _, h := range p.handlers {
		if err := h.TestEnd(ctx, ti, r); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "processing TestEnd")
		}
	}
	return firstErr
}

func (p *preprocessor) RunLog(ctx context.Context, ev *protocol.RunLogEvent) error {
	l := &LogEntry{Time: ev.Time, Text: ev.Text}

	var firstErr error
	for _, h := range p.handlers {
		if err := h.RunLog(ctx, l); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "processing RunLog")
		}
	}
	return firstErr
}

func (p *preprocessor) RunFinished(ctx context.Context, ev *protocol.RunFinishedEvent) error {
	p.finished = true
	if ev.Summary != "" {
		logging.Debugf(ctx, "Harness run finished: %s", ev.Summary)
	}
	return nil
}

// RunEnd must be called exactly once after the stream of the invocation has
// ended. runErr is the error the invocation ended with, if any.
func (p *preprocessor) RunEnd(ctx context.Context, runErr error) {
	if p.ended {
		return
	}
	p.ended = true

	if runErr != nil {
		logging.Infof(ctx, "Got global error: %v", runErr)
	}

	s := &RunSummary{Finished: p.finished}
	for _, ti := range p.running {
		logging.Infof(ctx, "Test %s did not finish", ti.ID)
		s.Unfinished = append(s.Unfinished, ti.ID)
	}
	p.running = nil

	for _, h := range p.handlers {
		h.RunEnd(ctx, s)
	}
}

// infoOf returns TestInfo of a running test, or nil if it is not running.
func (p *preprocessor) infoOf(id testcase.ID) *TestInfo {
	for _, ti := range p.running {
		if ti.ID == id {
			return ti
		}
	}
	return nil
}

func (p *preprocessor) remove(ti *TestInfo) {
	for i, r := range p.running {
		if r == ti {
			p.running = append(p.running[:i], p.running[i+1:]...)
			return
		}
	}
}
