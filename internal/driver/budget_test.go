// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver_test

import (
	"testing"

	"go.openharmony.org/ohdriver/internal/driver"
)

func TestBudget(t *testing.T) {
	b := driver.NewBudget(driver.DefaultRerunBudget)
	for _, want := range []int{3, 2, 1, 0, 0} {
		if got := b.Remaining(); got != want {
			t.Fatalf("Remaining() = %d; want %d", got, want)
		}
		b.Consume()
	}
}

func TestBudgetNegative(t *testing.T) {
	if got := driver.NewBudget(-1).Remaining(); got != 0 {
		t.Errorf("NewBudget(-1).Remaining() = %d; want 0", got)
	}
}
