// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"go.openharmony.org/ohdriver/internal/config"
	"go.openharmony.org/ohdriver/internal/driver"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/metrics"
	"go.openharmony.org/ohdriver/internal/processor"
	"go.openharmony.org/ohdriver/internal/reporting"
)

const fullLogName = "full.txt" // file in the report dir containing full output

// runCmd implements subcommands.Command to support running test modules.
type runCmd struct {
	dev          deviceFlags
	reportDir    string
	testcasesDir string
	sourceDir    string
	budget       int
	metricsFile  string
}

var _ = subcommands.Command(&runCmd{})

func newRunCmd() *runCmd {
	return &runCmd{}
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run test modules" }
func (*runCmd) Usage() string {
	return `Usage: run [flag]... [module]...

Description:
    Runs test modules on the device one after another. Modules are named by
    their config files in -testcases; all of them run if none is named.
    Exits with 0 if every module produced a result file, even if some of its
    tests failed or were blocked. Results are written to
    <reportdir>/result/<module>.xml.

Flag:
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	r.dev.SetFlags(f)
	f.StringVar(&r.reportDir, "reportdir", "", "directory for results (default: a new dir under /tmp/ohdriver_results)")
	f.StringVar(&r.testcasesDir, "testcases", "testcases", "directory containing module configs")
	f.StringVar(&r.sourceDir, "sourcedir", "", "directory containing test sources (default: -testcases)")
	f.IntVar(&r.budget, "rerunbudget", driver.DefaultRerunBudget, "unproductive serial reruns allowed per module")
	f.StringVar(&r.metricsFile, "metricsfile", "", "write Prometheus metrics to this file")
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	configs, err := r.moduleConfigs(f.Args())
	if err != nil {
		logging.Info(ctx, "Failed to find modules: ", err)
		return subcommands.ExitUsageError
	}
	if len(configs) == 0 {
		logging.Info(ctx, "No modules found.\n\n"+r.Usage())
		return subcommands.ExitUsageError
	}

	if r.reportDir == "" {
		r.reportDir = filepath.Join(os.TempDir(), "ohdriver_results", time.Now().Format("20060102-150405"))
	}
	if err := os.MkdirAll(r.reportDir, 0755); err != nil {
		logging.Info(ctx, err)
		return subcommands.ExitFailure
	}

	// Log the full output of the command to disk.
	fullLog, err := os.Create(filepath.Join(r.reportDir, fullLogName))
	if err != nil {
		logging.Info(ctx, err)
		return subcommands.ExitFailure
	}
	defer fullLog.Close()

	logger := logging.NewSinkLogger(logging.LevelDebug, true, logging.NewWriterSink(fullLog))
	ctx = logging.AttachLogger(ctx, logger)

	runID := uuid.NewString()
	logging.Info(ctx, "Command line: ", strings.Join(os.Args, " "))
	logging.Infof(ctx, "Run %s writing results to %s", runID, r.reportDir)

	sw, err := reporting.NewStreamedWriter(filepath.Join(r.reportDir, reporting.StreamedResultsFilename))
	if err != nil {
		logging.Info(ctx, "Failed to open streamed results: ", err)
		return subcommands.ExitFailure
	}
	defer sw.Close()

	tr, err := r.dev.dial(ctx)
	if err != nil {
		logging.Info(ctx, "Failed to connect to device: ", err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := tr.Close(ctx); err != nil {
			logging.Info(ctx, "Failed to close device connection: ", err)
		}
	}()

	var m *metrics.Metrics
	if r.metricsFile != "" {
		m = metrics.New()
	}

	status := subcommands.ExitSuccess
	for _, cfg := range configs {
		name := config.ModuleName(cfg)
		req := &driver.Request{
			ConfigPath: cfg,
			SourcePath: findSource(r.sourceDirOrDefault(), name),
			ReportRoot: r.reportDir,
			TestArgs:   r.dev.runnerArgs(),
			Transport:  tr,
			Handlers: []processor.Handler{
				processor.NewLoggingHandler(),
				processor.NewStreamedResultsHandler(runID, name, sw),
			},
			RerunBudget: r.rerunBudget(),
			RunID:       runID,
			Metrics:     m,
		}
		path, err := driver.Run(ctx, req)
		if err != nil {
			logging.Infof(ctx, "Module %s failed with code %s", name, driver.Code(err))
			status = subcommands.ExitFailure
		}
		if path == "" {
			logging.Infof(ctx, "Module %s produced no result file", name)
			status = subcommands.ExitFailure
		} else {
			logging.Infof(ctx, "Module %s results: %s", name, path)
		}
	}

	if m != nil {
		if err := m.WriteTextfile(r.metricsFile); err != nil {
			logging.Info(ctx, "Failed to write metrics: ", err)
		}
	}
	return status
}

func (r *runCmd) sourceDirOrDefault() string {
	if r.sourceDir != "" {
		return r.sourceDir
	}
	return r.testcasesDir
}

// rerunBudget converts -rerunbudget to a driver budget. On the command line
// zero disables serial reruns.
func (r *runCmd) rerunBudget() int {
	if r.budget <= 0 {
		return driver.NoSerialReruns
	}
	return r.budget
}

// moduleConfigs returns config paths of the named modules, or of all modules
// in the testcases dir if names is empty.
func (r *runCmd) moduleConfigs(names []string) ([]string, error) {
	all, err := config.FindModules(r.testcasesDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]string)
	for _, p := range all {
		byName[config.ModuleName(p)] = p
	}
	var paths []string
	for _, n := range names {
		p, ok := byName[n]
		if !ok {
			// The driver reports the missing config.
			p = filepath.Join(r.testcasesDir, n+".json")
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// findSource returns the test source of module in dir. Sources are files or
// directories named after the module with any extension but a config one.
// If none exists, the conventional .hap path is returned.
func findSource(dir, module string) string {
	matches, _ := filepath.Glob(filepath.Join(dir, module+".*"))
	for _, m := range matches {
		switch filepath.Ext(m) {
		case ".json", ".yaml", ".yml":
			continue
		}
		return m
	}
	if p := filepath.Join(dir, module); exists(p) {
		return p
	}
	return filepath.Join(dir, module+".hap")
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
