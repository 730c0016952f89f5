// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"context"
	"os"

	"code.cloudfoundry.org/clock"

	"go.openharmony.org/ohdriver/internal/config"
	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/harness"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/metrics"
	"go.openharmony.org/ohdriver/internal/processor"
	"go.openharmony.org/ohdriver/internal/reporting"
	"go.openharmony.org/ohdriver/internal/transport"
)

// Request describes one module run.
type Request struct {
	// ConfigPath is the module config file. Its base name is the module name.
	ConfigPath string
	// SourcePath is the test source artifact of the module.
	SourcePath string
	// ReportRoot is the directory receiving result files and device logs.
	ReportRoot string
	// TestArgs are user-supplied runner arguments.
	TestArgs  []TestArg
	Transport transport.Transport
	// Handlers receive test events of every invocation.
	Handlers []processor.Handler
	// RerunBudget bounds unproductive serial reruns. Zero means
	// DefaultRerunBudget. Use NoSerialReruns to allow none.
	RerunBudget int
	RunID       string
	Clock       clock.Clock
	Metrics     *metrics.Metrics
}

// plan is a module run prepared from its config.
type plan struct {
	controller *Controller
	args       *ArgList
}

type planFunc func(ctx context.Context, req *Request, m *config.Module, clk clock.Clock) (*plan, error)

// execute runs the module of req as prepared by prepare. It returns the
// result file path if the file exists afterwards, and an empty string
// otherwise. The path is returned along with any error.
func (req *Request) execute(ctx context.Context, prepare planFunc) (resultPath string, retErr error) {
	clk := req.Clock
	if clk == nil {
		clk = clock.NewClock()
	}
	start := clk.Now()
	name := config.ModuleName(req.ConfigPath)
	path := reporting.ResultPath(req.ReportRoot, name)

	defer func() {
		retErr = classify(retErr)
		if retErr != nil {
			logging.Infof(ctx, "Module %s failed [%s]: %v", name, Code(retErr), retErr)
		}
		if _, err := os.Stat(path); err != nil {
			resultPath = ""
		} else {
			resultPath = path
		}
	}()

	if _, err := os.Stat(req.SourcePath); err != nil {
		return "", newMissingTestSourceError(CodeMissingSource, err, "test source %s does not exist", req.SourcePath)
	}

	dl, err := startDeviceLog(ctx, req.Transport, req.ReportRoot, name)
	if err != nil {
		return "", err
	}
	defer dl.Close(ctx)

	if _, err := os.Stat(req.ConfigPath); err != nil {
		return "", newMissingTestSourceError(CodeMissingConfig, err, "module config %s does not exist", req.ConfigPath)
	}
	m, err := config.Load(req.ConfigPath)
	if err != nil {
		return "", err
	}

	p, err := prepare(ctx, req, m, clk)
	if err != nil {
		return "", err
	}

	logging.Infof(ctx, "Running module %s", name)
	report, runErr := p.controller.Run(ctx, p.args)

	for _, v := range report.Verdicts() {
		req.Metrics.ObserveVerdict(name, v.Status)
	}
	req.Metrics.ObserveModule(name, p.controller.BudgetRemaining(), clk.Since(start))

	if runErr == nil || report.Len() > 0 {
		if err := reporting.WriteJUnitXML(path, name, report.Results(req.RunID, name)); err != nil {
			if runErr == nil {
				runErr = errors.Wrap(err, "failed to write result file")
			} else {
				logging.Infof(ctx, "Failed to write result file: %v", err)
			}
		}
	}
	return path, runErr
}

// Run runs the module of req with the driver named by the type in its
// config. Modules without a type are JSUnit modules.
func Run(ctx context.Context, req *Request) (resultPath string, err error) {
	m, err := config.Load(req.ConfigPath)
	if err != nil {
		// Let the JSUnit driver report the missing or broken config.
		return RunJSUnit(ctx, req)
	}
	switch harness.Type(m.Driver.Type) {
	case harness.TypeJSUnit, "":
		return RunJSUnit(ctx, req)
	case harness.TypeKernel:
		return RunKernel(ctx, req)
	}
	return "", newConfigurationError("%s: unsupported driver type %q", req.ConfigPath, m.Driver.Type)
}
