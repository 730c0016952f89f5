// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package reporting writes test results to files in the formats consumed by
// report collectors.
package reporting

import (
	"time"
)

// Result statuses.
const (
	StatusPass    = "pass"
	StatusFail    = "fail"
	StatusIgnored = "ignored"
	StatusBlocked = "blocked"
)

// Result is the final record of a single test case.
type Result struct {
	RunID   string    `json:"runId,omitempty"`
	Module  string    `json:"module,omitempty"`
	Class   string    `json:"class"`
	Test    string    `json:"test"`
	Status  string    `json:"status"`
	Tier    string    `json:"tier,omitempty"`
	Message string    `json:"message,omitempty"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Name returns the identity key of the test case.
func (r *Result) Name() string {
	return r.Class + "#" + r.Test
}
