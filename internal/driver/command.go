// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"strings"

	"go.openharmony.org/ohdriver/shutil"
)

// JSUnitTarget selects the test application run by "aa test".
type JSUnitTarget struct {
	// Package selects a test package ("-p"). It takes precedence over Module.
	Package string
	// Module selects a test module ("-m").
	Module string
	Bundle string
}

// Valid reports whether t names a package or a module.
func (t JSUnitTarget) Valid() bool {
	return t.Package != "" || t.Module != ""
}

// Command returns the "aa test" command line running t with args. With
// dryRun set the runner only lists its tests.
func (t JSUnitTarget) Command(args *ArgList, dryRun bool) string {
	sel := []string{"-m", t.Module}
	if t.Package != "" {
		sel = []string{"-p", t.Package}
	}
	parts := []string{
		"aa test",
		shutil.Join(sel...),
		"-b " + shutil.Escape(t.Bundle),
		"-s unittest OpenHarmonyTestRunner",
	}
	if s := args.Serialize(); s != "" {
		parts = append(parts, s)
	}
	if dryRun {
		parts = append(parts, "-s dryRun true")
	}
	return strings.Join(parts, " ")
}

// KernelCommand returns the command line running the kernel test script in
// dir with args.
func KernelCommand(dir string, args *ArgList) string {
	cmd := "cd " + shutil.Escape(dir) + "; chmod +x *; sh runtest test"
	if s := args.Serialize(); s != "" {
		cmd += " " + s
	}
	return cmd
}
