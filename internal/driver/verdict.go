// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"time"

	"go.openharmony.org/ohdriver/internal/reporting"
	"go.openharmony.org/ohdriver/internal/testcase"
)

// Tier is a stage of the rerun escalation.
type Tier string

const (
	TierFirst  Tier = "first"
	TierBatch  Tier = "batch"
	TierSerial Tier = "serial"
	// TierSingle is the only run of a module without reconciliation.
	TierSingle Tier = "single"
)

// Verdict is the terminal status of one test.
type Verdict struct {
	ID testcase.ID
	// Status is one of the reporting.Status* values.
	Status  string
	Tier    Tier
	Message string
	Start   time.Time
	End     time.Time
}

// VerdictReport maps tests to verdicts. A test keeps the first verdict
// recorded for it.
type VerdictReport struct {
	order    []testcase.ID
	verdicts map[testcase.ID]*Verdict
}

// NewVerdictReport returns an empty report.
func NewVerdictReport() *VerdictReport {
	return &VerdictReport{verdicts: make(map[testcase.ID]*Verdict)}
}

// Record adds v unless its test already has a verdict. It reports whether
// v was added.
func (r *VerdictReport) Record(v *Verdict) bool {
	if _, ok := r.verdicts[v.ID]; ok {
		return false
	}
	r.verdicts[v.ID] = v
	r.order = append(r.order, v.ID)
	return true
}

// Get returns the verdict of id.
func (r *VerdictReport) Get(id testcase.ID) (*Verdict, bool) {
	v, ok := r.verdicts[id]
	return v, ok
}

// Has reports whether id has a verdict.
func (r *VerdictReport) Has(id testcase.ID) bool {
	_, ok := r.verdicts[id]
	return ok
}

// Len returns the number of verdicts.
func (r *VerdictReport) Len() int {
	return len(r.order)
}

// Verdicts returns all verdicts in recording order.
func (r *VerdictReport) Verdicts() []*Verdict {
	vs := make([]*Verdict, 0, len(r.order))
	for _, id := range r.order {
		vs = append(vs, r.verdicts[id])
	}
	return vs
}

// Results converts the report to result records.
func (r *VerdictReport) Results(runID, module string) []*reporting.Result {
	var res []*reporting.Result
	for _, v := range r.Verdicts() {
		res = append(res, &reporting.Result{
			RunID:   runID,
			Module:  module,
			Class:   v.ID.Class,
			Test:    v.ID.Test,
			Status:  v.Status,
			Tier:    string(v.Tier),
			Message: v.Message,
			Start:   v.Start,
			End:     v.End,
		})
	}
	return res
}
