// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

// DefaultRerunBudget is the number of unproductive serial reruns allowed
// per module run.
const DefaultRerunBudget = 3

// NoSerialReruns is a rerun budget that marks every test still missing
// after the batch tier as blocked without invoking it again.
const NoSerialReruns = -1

// budgetOrDefault maps an unset budget to DefaultRerunBudget.
func budgetOrDefault(n int) int {
	if n == 0 {
		return DefaultRerunBudget
	}
	return n
}

// Budget bounds unproductive serial reruns. It never goes below zero.
type Budget struct {
	remaining int
}

// NewBudget returns a Budget allowing n unproductive reruns. Negative n is
// treated as zero.
func NewBudget(n int) *Budget {
	if n < 0 {
		n = 0
	}
	return &Budget{remaining: n}
}

// Remaining returns the number of unproductive reruns still allowed.
func (b *Budget) Remaining() int {
	return b.remaining
}

// Consume spends one rerun. It does nothing once the budget is exhausted.
func (b *Budget) Consume() {
	if b.remaining > 0 {
		b.remaining--
	}
}
