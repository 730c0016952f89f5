// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"context"
	"time"

	"code.cloudfoundry.org/clock"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/harness"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/metrics"
	"go.openharmony.org/ohdriver/internal/processor"
	"go.openharmony.org/ohdriver/internal/testcase"
	"go.openharmony.org/ohdriver/internal/transport"
)

// Session runs a module's tests on the device, one invocation per call.
type Session struct {
	Transport transport.Transport
	Harness   harness.Factory
	// Handlers receive events of every invocation. The slice is never
	// modified.
	Handlers []processor.Handler
	Timeout  time.Duration
	// Command builds the run command line from args.
	Command func(args *ArgList) string

	Module  string
	Clock   clock.Clock
	Metrics *metrics.Metrics
}

// Outcome is the result of one invocation.
type Outcome struct {
	// Completed holds the tests that reported an outcome.
	Completed *testcase.Set
	// Results holds the outcomes in arrival order.
	Results []*processor.Outcome
	// Unresponsive is true if the invocation timed out or lost its
	// connection. Completed then holds what arrived before that.
	Unresponsive bool
	// Err is the transport error of an unresponsive invocation.
	Err error
}

// Run invokes the run command built from args. An unresponsive device is
// reported in the returned Outcome; any other failure is returned as an
// error.
func (s *Session) Run(ctx context.Context, args *ArgList, tier Tier) (*Outcome, error) {
	clk := s.Clock
	if clk == nil {
		clk = clock.NewClock()
	}
	ctx = processor.WithTier(ctx, string(tier))

	tracker := processor.NewTracker()
	handlers := append(append([]processor.Handler(nil), s.Handlers...), tracker)
	proc := processor.New(handlers...)

	cmd := s.Command(args)
	logging.Infof(ctx, "Running %s tier: %s", tier, cmd)
	if err := proc.RunStart(ctx); err != nil {
		logging.Infof(ctx, "Failed to start run: %v", err)
	}

	stream := processor.NewStream(ctx, s.Harness.NewRunParser(clk), proc)
	runErr := s.Transport.Invoke(ctx, cmd, s.Timeout, stream)
	stream.End(runErr)

	unresponsive := runErr != nil && errors.Is(runErr, transport.ErrUnresponsive)
	s.Metrics.ObserveInvocation(s.Module, string(tier), unresponsive)
	if runErr != nil && !unresponsive {
		return nil, errors.Wrapf(runErr, "%s run failed", tier)
	}

	o := &Outcome{
		Completed:    tracker.Completed(),
		Results:      tracker.Outcomes(),
		Unresponsive: unresponsive,
		Err:          runErr,
	}
	logging.Infof(ctx, "%s run collected %d result(s)", tier, o.Completed.Len())
	return o, nil
}
