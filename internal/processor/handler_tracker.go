// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package processor

import (
	"context"

	"go.openharmony.org/ohdriver/internal/testcase"
)

// Tracker is a Handler recording the tests that reached an outcome during a
// single invocation. A Tracker must not be reused across invocations.
type Tracker struct {
	baseHandler
	completed testcase.Set
	results   map[testcase.ID]*Outcome
}

// Outcome is a test outcome remembered by Tracker.
type Outcome struct {
	ID testcase.ID
	*Result
}

var _ Handler = &Tracker{}

// NewTracker creates a new Tracker.
func NewTracker() *Tracker {
	return &Tracker{results: make(map[testcase.ID]*Outcome)}
}

// TestEnd records the test of ti as completed. Passed, failed and ignored
// tests all count; only the first outcome of a test is kept.
func (t *Tracker) TestEnd(ctx context.Context, ti *TestInfo, r *Result) error {
	if t.completed.Add(ti.ID) {
		t.results[ti.ID] = &Outcome{ID: ti.ID, Result: r}
	}
	return nil
}

// Completed returns a copy of the set of completed tests in arrival order.
func (t *Tracker) Completed() *testcase.Set {
	return testcase.NewSet(t.completed.IDs()...)
}

// Outcomes returns outcomes in arrival order.
func (t *Tracker) Outcomes() []*Outcome {
	var outs []*Outcome
	for _, id := range t.completed.IDs() {
		outs = append(outs, t.results[id])
	}
	return outs
}
