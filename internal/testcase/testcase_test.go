// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package testcase_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.openharmony.org/ohdriver/internal/testcase"
)

func TestParseKey(t *testing.T) {
	for _, tc := range []struct {
		key  string
		want testcase.ID
		ok   bool
	}{
		{"A#t1", testcase.ID{Class: "A", Test: "t1"}, true},
		{"a.b.C#t#2", testcase.ID{Class: "a.b.C", Test: "t#2"}, true},
		{"A", testcase.ID{}, false},
		{"#t1", testcase.ID{}, false},
		{"A#", testcase.ID{}, false},
	} {
		got, ok := testcase.ParseKey(tc.key)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseKey(%q) = (%v, %v); want (%v, %v)", tc.key, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSet(t *testing.T) {
	a1 := testcase.ID{Class: "A", Test: "t1"}
	a2 := testcase.ID{Class: "A", Test: "t2"}
	b1 := testcase.ID{Class: "B", Test: "t1"}

	s := testcase.NewSet(b1, a1, b1, a2)
	if s.Len() != 3 {
		t.Errorf("Len() = %d; want 3", s.Len())
	}
	if diff := cmp.Diff(s.Keys(), []string{"B#t1", "A#t1", "A#t2"}); diff != "" {
		t.Errorf("Keys mismatch (-got +want):\n%s", diff)
	}
	if s.Add(a1) {
		t.Error("Add of an existing ID returned true")
	}

	d := s.Minus(testcase.NewSet(a1))
	if diff := cmp.Diff(d.Keys(), []string{"B#t1", "A#t2"}); diff != "" {
		t.Errorf("Minus mismatch (-got +want):\n%s", diff)
	}
	if s.Len() != 3 {
		t.Error("Minus modified its receiver")
	}

	var nilSet *testcase.Set
	if nilSet.Has(a1) || nilSet.Len() != 0 {
		t.Error("nil set is not empty")
	}
	if got := s.Minus(nilSet).Len(); got != 3 {
		t.Errorf("Minus(nil).Len() = %d; want 3", got)
	}
}
