// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"context"
	"strings"

	"golang.org/x/exp/slices"

	"go.openharmony.org/ohdriver/internal/logging"
)

// TestArg is a user-supplied test argument with one or more values.
type TestArg struct {
	Name   string
	Values []string
}

var (
	validTestTypes = []string{"function", "performance", "reliability", "security"}
	validSizes     = []string{"small", "medium", "large"}
	validLevels    = []string{"0", "1", "2", "3", "4"}
)

// ApplyTestArgs adds the test arguments understood by the JSUnit runner to
// args. Unknown names and out-of-range values are dropped.
func ApplyTestArgs(ctx context.Context, args *ArgList, testArgs []TestArg) {
	for _, ta := range testArgs {
		name := strings.TrimSpace(ta.Name)
		if len(ta.Values) == 0 {
			logging.Debugf(ctx, "Dropping test argument %q without value", name)
			continue
		}
		first := ta.Values[0]
		switch name {
		case ClassArg, "notClass":
			args.Add(name, strings.Join(ta.Values, ","))
		case "testType":
			addIfValid(ctx, args, name, first, validTestTypes)
		case "size":
			addIfValid(ctx, args, name, first, validSizes)
		case "level":
			addIfValid(ctx, args, name, first, validLevels)
		case "stress":
			args.Add(name, first)
		default:
			logging.Debugf(ctx, "Dropping unknown test argument %q", name)
		}
	}
}

func addIfValid(ctx context.Context, args *ArgList, name, value string, valid []string) {
	if !slices.Contains(valid, value) {
		logging.Debugf(ctx, "Dropping test argument %s=%q (want one of %v)", name, value, valid)
		return
	}
	args.Add(name, value)
}
