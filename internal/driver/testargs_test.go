// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver_test

import (
	"context"
	"testing"

	"go.openharmony.org/ohdriver/internal/driver"
)

func TestApplyTestArgs(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []driver.TestArg
		want string
	}{
		{"class", []driver.TestArg{{Name: "class", Values: []string{"A", "B#t1"}}}, "-s class A,B#t1"},
		{"not class", []driver.TestArg{{Name: "notClass", Values: []string{"C"}}}, "-s notClass C"},
		{"test type", []driver.TestArg{{Name: "testType", Values: []string{"performance"}}}, "-s testType performance"},
		{"bad test type", []driver.TestArg{{Name: "testType", Values: []string{"smoke"}}}, ""},
		{"size", []driver.TestArg{{Name: "size", Values: []string{"large", "small"}}}, "-s size large"},
		{"bad size", []driver.TestArg{{Name: "size", Values: []string{"huge"}}}, ""},
		{"level", []driver.TestArg{{Name: "level", Values: []string{"2"}}}, "-s level 2"},
		{"bad level", []driver.TestArg{{Name: "level", Values: []string{"5"}}}, ""},
		{"stress", []driver.TestArg{{Name: "stress", Values: []string{"1000"}}}, "-s stress 1000"},
		{"unknown", []driver.TestArg{{Name: "color", Values: []string{"red"}}}, ""},
		{"no value", []driver.TestArg{{Name: "level", Values: nil}}, ""},
		{
			"order kept",
			[]driver.TestArg{{Name: "level", Values: []string{"1"}}, {Name: " class ", Values: []string{"A"}}},
			"-s level 1 -s class A",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			args := driver.NewArgList(driver.JSUnitGrammar)
			driver.ApplyTestArgs(context.Background(), args, tc.args)
			if got := args.Serialize(); got != tc.want {
				t.Errorf("Serialize() = %q; want %q", got, tc.want)
			}
		})
	}
}
