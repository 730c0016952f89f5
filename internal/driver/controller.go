// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"context"
	"strings"

	"code.cloudfoundry.org/clock"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/reporting"
	"go.openharmony.org/ohdriver/internal/testcase"
)

// State is a step of a Controller.
type State int

const (
	StateInit State = iota
	StateCataloged
	StateFirstRun
	StateReconciled
	StateBatchRerun
	StateSerialRerun
	// StateFallback is the single run made when tests cannot be listed.
	StateFallback
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateCataloged:
		return "CATALOGED"
	case StateFirstRun:
		return "FIRST_RUN"
	case StateReconciled:
		return "RECONCILED"
	case StateBatchRerun:
		return "BATCH_RERUN"
	case StateSerialRerun:
		return "SERIAL_RERUN"
	case StateFallback:
		return "FALLBACK"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// Resolver lists expected tests. If nil, the module is run once without
	// reconciliation.
	Resolver *Resolver
	Session  *Session
	// BatchRerun enables rerunning all missing tests in one invocation
	// before rerunning them one by one.
	BatchRerun bool
	// RerunBudget is the number of unproductive serial reruns allowed.
	// Zero means DefaultRerunBudget. A negative value such as NoSerialReruns
	// allows none.
	RerunBudget int
	Clock       clock.Clock
}

// Controller runs a module until every expected test has a verdict,
// rerunning missing tests in tiers.
type Controller struct {
	resolver   *Resolver
	session    *Session
	batchRerun bool
	clock      clock.Clock

	budget *Budget
	report *VerdictReport
	state  State
}

// NewController returns a Controller in StateInit.
func NewController(opts ControllerOptions) *Controller {
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewClock()
	}
	return &Controller{
		resolver:   opts.Resolver,
		session:    opts.Session,
		batchRerun: opts.BatchRerun,
		clock:      clk,
		budget:     NewBudget(budgetOrDefault(opts.RerunBudget)),
		report:     NewVerdictReport(),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// BudgetRemaining returns the number of unproductive serial reruns still
// allowed.
func (c *Controller) BudgetRemaining() int {
	return c.budget.Remaining()
}

// Report returns the verdicts recorded so far.
func (c *Controller) Report() *VerdictReport {
	return c.report
}

// MarkBlocked records id as blocked unless it already has a verdict.
func (c *Controller) MarkBlocked(ctx context.Context, id testcase.ID, reason string) {
	now := c.clock.Now()
	if c.report.Record(&Verdict{
		ID:      id,
		Status:  reporting.StatusBlocked,
		Tier:    TierSerial,
		Message: reason,
		Start:   now,
		End:     now,
	}) {
		logging.Infof(ctx, "Test %s blocked: %s", id, reason)
	}
}

// Run runs the module with base arguments. base is not modified. The
// returned report holds every verdict recorded, including when an error
// is returned.
func (c *Controller) Run(ctx context.Context, base *ArgList) (*VerdictReport, error) {
	if c.state != StateInit {
		return c.report, errors.Errorf("controller already ran (state %v)", c.state)
	}

	var expected *testcase.Set
	if c.resolver != nil {
		tests, ok, err := c.resolver.Discover(ctx, base.Clone())
		if err != nil {
			return c.report, err
		}
		if ok {
			expected = tests
		}
	}
	if expected == nil {
		return c.report, c.runFallback(ctx, base)
	}
	c.setState(ctx, StateCataloged)
	logging.Infof(ctx, "Expecting %d test(s)", expected.Len())

	c.setState(ctx, StateFirstRun)
	o, err := c.session.Run(ctx, base.Clone(), TierFirst)
	if err != nil {
		return c.report, err
	}
	c.record(o, TierFirst)

	c.setState(ctx, StateReconciled)
	missing := expected.Minus(o.Completed)
	if missing.Len() == 0 {
		c.setState(ctx, StateDone)
		return c.report, nil
	}
	logging.Infof(ctx, "%d test(s) missing after first run", missing.Len())

	if c.batchRerun {
		c.setState(ctx, StateBatchRerun)
		args := base.Clone()
		args.Add(ClassArg, strings.Join(missing.Keys(), ","))
		o, err := c.session.Run(ctx, args, TierBatch)
		if err != nil {
			return c.report, err
		}
		c.record(o, TierBatch)

		c.setState(ctx, StateReconciled)
		missing = missing.Minus(o.Completed)
		if missing.Len() == 0 {
			c.setState(ctx, StateDone)
			return c.report, nil
		}
		logging.Infof(ctx, "%d test(s) missing after batch rerun", missing.Len())
	}

	c.setState(ctx, StateSerialRerun)
	for _, id := range missing.IDs() {
		if err := c.rerunOne(ctx, base, id); err != nil {
			return c.report, err
		}
	}
	c.setState(ctx, StateDone)
	return c.report, nil
}

// rerunOne reruns the single test id, spending budget if the rerun yields
// nothing.
func (c *Controller) rerunOne(ctx context.Context, base *ArgList, id testcase.ID) error {
	if c.report.Has(id) {
		// Reported by an earlier serial rerun.
		return nil
	}
	if c.budget.Remaining() == 0 {
		c.MarkBlocked(ctx, id, "rerun budget exhausted")
		return nil
	}

	args := base.Clone()
	args.Add(ClassArg, id.Key())
	o, err := c.session.Run(ctx, args, TierSerial)
	if err != nil {
		return err
	}
	c.record(o, TierSerial)

	switch {
	case o.Unresponsive:
		c.budget.Consume()
		logging.Infof(ctx, "Rerun budget now %d", c.budget.Remaining())
		c.MarkBlocked(ctx, id, "device unresponsive during rerun")
	case o.Completed.Len() == 0:
		c.budget.Consume()
		logging.Infof(ctx, "Rerun budget now %d", c.budget.Remaining())
		c.MarkBlocked(ctx, id, "rerun reported no results")
	case !c.report.Has(id):
		c.MarkBlocked(ctx, id, "rerun did not report the test")
	}
	return nil
}

func (c *Controller) runFallback(ctx context.Context, base *ArgList) error {
	c.setState(ctx, StateFallback)
	logging.Info(ctx, "Tests cannot be listed; running the module once")
	o, err := c.session.Run(ctx, base.Clone(), TierSingle)
	if err != nil {
		return err
	}
	c.record(o, TierSingle)
	c.setState(ctx, StateDone)
	if o.Unresponsive {
		return &UnresponsiveSessionError{E: errors.Wrap(o.Err, "module run did not complete")}
	}
	return nil
}

// record adds the outcomes of o to the report. Tests that already have a
// verdict keep it.
func (c *Controller) record(o *Outcome, tier Tier) {
	for _, r := range o.Results {
		c.report.Record(&Verdict{
			ID:      r.ID,
			Status:  r.Status.String(),
			Tier:    tier,
			Message: r.Message,
			Start:   r.Start,
			End:     r.End,
		})
	}
}

func (c *Controller) setState(ctx context.Context, s State) {
	logging.Debugf(ctx, "Controller: %v -> %v", c.state, s)
	c.state = s
}
