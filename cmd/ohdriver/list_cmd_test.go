// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"

	"go.openharmony.org/ohdriver/internal/driver"
	"go.openharmony.org/ohdriver/internal/logging/loggingtest"
	"go.openharmony.org/ohdriver/internal/transport/transporttest"
)

// executeListCmd creates a listCmd and executes it using the supplied args
// against tr.
func executeListCmd(t *testing.T, stdout io.Writer, args []string, tr *transporttest.Transport) subcommands.ExitStatus {
	t.Helper()
	cmd := newListCmd(stdout)
	cmd.dev.connect = stubDevice(tr)
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	cmd.SetFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	ctx, _ := loggingtest.Context(t)
	return cmd.Execute(ctx, flags)
}

func TestListCmd(t *testing.T) {
	td := t.TempDir()
	writeModule(t, td, "ActsDemoTest")
	cfg := filepath.Join(td, "ActsDemoTest.json")

	// Verify that the default one-test-per-line mode works.
	var stdout bytes.Buffer
	args := []string{cfg}
	tr := transporttest.New(transporttest.Reply{Output: dryRunListing})
	if status := executeListCmd(t, &stdout, args, tr); status != subcommands.ExitSuccess {
		t.Fatalf("listCmd.Execute(%v) returned status %v; want %v", args, status, subcommands.ExitSuccess)
	}
	if exp := "DemoTest#t1\nDemoTest#t2\n"; stdout.String() != exp {
		t.Errorf("listCmd.Execute(%v) printed %q; want %q", args, stdout.String(), exp)
	}
	if diff := cmp.Diff(tr.Commands(), []string{"aa test -p com.example.ActsDemoTest -b com.example -s unittest OpenHarmonyTestRunner -s dryRun true"}); diff != "" {
		t.Errorf("Commands mismatch (-got +want):\n%s", diff)
	}

	// Verify that tests are written as JSON when -json is supplied.
	stdout.Reset()
	args = []string{"-json", cfg}
	tr = transporttest.New(transporttest.Reply{Output: dryRunListing})
	if status := executeListCmd(t, &stdout, args, tr); status != subcommands.ExitSuccess {
		t.Fatalf("listCmd.Execute(%v) returned status %v; want %v", args, status, subcommands.ExitSuccess)
	}
	var act []listedTest
	if err := json.Unmarshal(stdout.Bytes(), &act); err != nil {
		t.Errorf("Failed to unmarshal output from listCmd.Execute(%v): %v", args, err)
	}
	if diff := cmp.Diff(act, []listedTest{{"DemoTest", "t1"}, {"DemoTest", "t2"}}); diff != "" {
		t.Errorf("listCmd.Execute(%v) mismatch (-got +want):\n%s", args, diff)
	}
}

func TestListCmdUnlistable(t *testing.T) {
	td := t.TempDir()
	writeModule(t, td, "ActsDemoTest")
	args := []string{filepath.Join(td, "ActsDemoTest.json")}
	tr := transporttest.New(transporttest.Reply{Output: "unknown option dryRun\n"})

	var stdout bytes.Buffer
	if status := executeListCmd(t, &stdout, args, tr); status != subcommands.ExitFailure {
		t.Errorf("listCmd.Execute(%v) returned status %v; want %v", args, status, subcommands.ExitFailure)
	}
}

func TestRunnerArgs(t *testing.T) {
	var d deviceFlags
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	d.SetFlags(fs)
	if err := fs.Parse([]string{"-testarg=class=A,B", "-testarg=level=2", "-testarg=class=C"}); err != nil {
		t.Fatal(err)
	}

	want := []driver.TestArg{
		{Name: "class", Values: []string{"A", "B", "C"}},
		{Name: "level", Values: []string{"2"}},
	}
	if diff := cmp.Diff(d.runnerArgs(), want); diff != "" {
		t.Errorf("runnerArgs() mismatch (-got +want):\n%s", diff)
	}
}
