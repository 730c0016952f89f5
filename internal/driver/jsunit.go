// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"context"
	"os"
	"time"

	"code.cloudfoundry.org/clock"

	"go.openharmony.org/ohdriver/internal/config"
	"go.openharmony.org/ohdriver/internal/harness"
	"go.openharmony.org/ohdriver/internal/testcase"
	"go.openharmony.org/ohdriver/internal/transport"
)

// RunJSUnit runs a JSUnit module, rerunning tests missing from its first
// run. It returns the result file path if the file exists afterwards, and
// an empty string otherwise. The path is returned along with any error.
func RunJSUnit(ctx context.Context, req *Request) (resultPath string, err error) {
	return req.execute(ctx, planJSUnit)
}

// ListJSUnit lists the tests of the JSUnit module configured at configPath
// with a dry run. ok is false if the module cannot be listed.
func ListJSUnit(ctx context.Context, tr transport.Transport, configPath string, testArgs []TestArg) (tests *testcase.Set, ok bool, err error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, false, newMissingTestSourceError(CodeMissingConfig, err, "module config %s does not exist", configPath)
	}
	m, err := config.Load(configPath)
	if err != nil {
		return nil, false, err
	}
	s, err := newJSUnitSetup(ctx, m, testArgs)
	if err != nil {
		return nil, false, err
	}
	return s.resolver(tr).Discover(ctx, s.args)
}

// jsunitSetup is the part of a JSUnit module run derived from its config.
type jsunitSetup struct {
	target  JSUnitTarget
	timeout time.Duration
	harness harness.Factory
	args    *ArgList
}

func newJSUnitSetup(ctx context.Context, m *config.Module, testArgs []TestArg) (*jsunitSetup, error) {
	d := &m.Driver
	target := JSUnitTarget{Package: d.PackageName, Module: d.ModuleName, Bundle: d.BundleName}
	if !target.Valid() {
		return nil, newConfigurationError("%s: neither package-name nor module-name is set", m.Path)
	}
	timeout, err := d.JSUnitTimeout()
	if err != nil {
		return nil, newConfigurationError("%s: %v", m.Path, err)
	}
	h, err := harness.Lookup(harness.TypeJSUnit)
	if err != nil {
		return nil, err
	}

	args := NewArgList(JSUnitGrammar)
	args.Add(WaitTimeArg, d.TestTimeout)
	ApplyTestArgs(ctx, args, testArgs)
	return &jsunitSetup{target: target, timeout: timeout, harness: h, args: args}, nil
}

func (s *jsunitSetup) resolver(tr transport.Transport) *Resolver {
	return &Resolver{
		Transport: tr,
		Harness:   s.harness,
		Timeout:   s.timeout,
		Command:   func(a *ArgList) string { return s.target.Command(a, true) },
	}
}

func planJSUnit(ctx context.Context, req *Request, m *config.Module, clk clock.Clock) (*plan, error) {
	s, err := newJSUnitSetup(ctx, m, req.TestArgs)
	if err != nil {
		return nil, err
	}
	session := &Session{
		Transport: req.Transport,
		Harness:   s.harness,
		Handlers:  req.Handlers,
		Timeout:   s.timeout,
		Command:   func(a *ArgList) string { return s.target.Command(a, false) },
		Module:    m.Name,
		Clock:     clk,
		Metrics:   req.Metrics,
	}
	var resolver *Resolver
	if m.Driver.RerunEnabled() {
		resolver = s.resolver(req.Transport)
	}
	return &plan{
		controller: NewController(ControllerOptions{
			Resolver:    resolver,
			Session:     session,
			BatchRerun:  m.Driver.BatchRerunEnabled(),
			RerunBudget: req.RerunBudget,
			Clock:       clk,
		}),
		args: s.args,
	}, nil
}
