// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.openharmony.org/ohdriver/internal/driver"
	"go.openharmony.org/ohdriver/internal/reporting"
	"go.openharmony.org/ohdriver/internal/testcase"
)

func TestVerdictReportKeepsFirst(t *testing.T) {
	a1 := testcase.ID{Class: "A", Test: "t1"}
	a2 := testcase.ID{Class: "A", Test: "t2"}

	r := driver.NewVerdictReport()
	if !r.Record(&driver.Verdict{ID: a2, Status: reporting.StatusFail, Tier: driver.TierFirst}) {
		t.Error("Record(A#t2) = false; want true")
	}
	r.Record(&driver.Verdict{ID: a1, Status: reporting.StatusPass, Tier: driver.TierBatch})
	if r.Record(&driver.Verdict{ID: a2, Status: reporting.StatusPass, Tier: driver.TierBatch}) {
		t.Error("Second Record(A#t2) = true; want false")
	}

	if v, ok := r.Get(a2); !ok || v.Status != reporting.StatusFail || v.Tier != driver.TierFirst {
		t.Errorf("Get(A#t2) = %+v; want first tier failure", v)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d; want 2", r.Len())
	}
}

func TestVerdictReportResults(t *testing.T) {
	start := time.Unix(100, 0).UTC()
	r := driver.NewVerdictReport()
	r.Record(&driver.Verdict{ID: testcase.ID{Class: "B", Test: "t"}, Status: reporting.StatusBlocked, Tier: driver.TierSerial, Message: "gone", Start: start, End: start})
	r.Record(&driver.Verdict{ID: testcase.ID{Class: "A", Test: "t"}, Status: reporting.StatusPass, Tier: driver.TierFirst, Start: start, End: start.Add(time.Second)})

	want := []*reporting.Result{
		{RunID: "run", Module: "mod", Class: "B", Test: "t", Status: reporting.StatusBlocked, Tier: "serial", Message: "gone", Start: start, End: start},
		{RunID: "run", Module: "mod", Class: "A", Test: "t", Status: reporting.StatusPass, Tier: "first", Start: start, End: start.Add(time.Second)},
	}
	if diff := cmp.Diff(r.Results("run", "mod"), want); diff != "" {
		t.Errorf("Results mismatch (-got +want):\n%s", diff)
	}
}
