// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"context"

	"code.cloudfoundry.org/clock"

	"go.openharmony.org/ohdriver/internal/config"
	"go.openharmony.org/ohdriver/internal/harness"
)

// RunKernel runs a kernel test module once. Kernel tests cannot be listed,
// so missing tests are not rerun.
func RunKernel(ctx context.Context, req *Request) (resultPath string, err error) {
	return req.execute(ctx, planKernel)
}

func planKernel(ctx context.Context, req *Request, m *config.Module, clk clock.Clock) (*plan, error) {
	d := &m.Driver
	if d.NativeTestDevicePath == "" {
		return nil, newConfigurationError("%s: native-test-device-path is not set", m.Path)
	}
	timeout, err := d.KernelTimeout()
	if err != nil {
		return nil, newConfigurationError("%s: %v", m.Path, err)
	}
	h, err := harness.Lookup(harness.TypeKernel)
	if err != nil {
		return nil, err
	}

	args := NewArgList(KernelGrammar)
	args.Add("test-suite-name", d.TestSuiteName)
	args.Add("test-suites-list", d.TestSuitesList)
	args.Add("conf-file", d.ConfFile)
	args.Add("timeout-limit", d.TimeoutLimit)

	dir := d.NativeTestDevicePath
	return &plan{
		controller: NewController(ControllerOptions{
			Session: &Session{
				Transport: req.Transport,
				Harness:   h,
				Handlers:  req.Handlers,
				Timeout:   timeout,
				Command:   func(a *ArgList) string { return KernelCommand(dir, a) },
				Module:    m.Name,
				Clock:     clk,
				Metrics:   req.Metrics,
			},
			Clock: clk,
		}),
		args: args,
	}, nil
}
