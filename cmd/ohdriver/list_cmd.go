// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"go.openharmony.org/ohdriver/internal/driver"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/testcase"
)

// listCmd implements subcommands.Command to support listing tests of a
// module with a dry run.
type listCmd struct {
	dev    deviceFlags
	json   bool      // marshal tests to JSON instead of just printing keys
	stdout io.Writer // where to write tests
}

var _ = subcommands.Command(&listCmd{})

// newListCmd returns a new listCmd that will write tests to stdout.
func newListCmd(stdout io.Writer) *listCmd {
	return &listCmd{stdout: stdout}
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list tests of JSUnit modules" }
func (*listCmd) Usage() string {
	return `Usage: list [flag]... <config>...

Description:
    Lists tests of JSUnit modules with a dry run on the device, one
    "<class>#<test>" key per line.

Flag:
`
}

func (lc *listCmd) SetFlags(f *flag.FlagSet) {
	lc.dev.SetFlags(f)
	f.BoolVar(&lc.json, "json", false, "print tests as JSON")
}

func (lc *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(f.Args()) == 0 {
		logging.Info(ctx, "Missing module config.\n\n"+lc.Usage())
		return subcommands.ExitUsageError
	}

	tr, err := lc.dev.dial(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return subcommands.ExitFailure
	}
	defer tr.Close(ctx)

	var all []testcase.ID
	for _, cfg := range f.Args() {
		tests, ok, err := driver.ListJSUnit(ctx, tr, cfg, lc.dev.runnerArgs())
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return subcommands.ExitFailure
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "ERROR: %s cannot be listed\n", cfg)
			return subcommands.ExitFailure
		}
		all = append(all, tests.IDs()...)
	}

	if err := lc.printTests(all); err != nil {
		logging.Info(ctx, "Failed to write tests: ", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type listedTest struct {
	Class string `json:"class"`
	Test  string `json:"test"`
}

// printTests writes the supplied tests to lc.stdout.
func (lc *listCmd) printTests(ids []testcase.ID) error {
	if lc.json {
		tests := make([]listedTest, 0, len(ids))
		for _, id := range ids {
			tests = append(tests, listedTest{Class: id.Class, Test: id.Test})
		}
		enc := json.NewEncoder(lc.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tests)
	}

	for _, id := range ids {
		if _, err := fmt.Fprintln(lc.stdout, id.Key()); err != nil {
			return err
		}
	}
	return nil
}
