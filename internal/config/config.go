// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config reads module config files.
//
// A module config is a JSON or YAML document whose "driver" section tells
// how to run the module's tests on a device, e.g.
//
//	{
//	  "driver": {
//	    "type": "OHJSUnitTest",
//	    "package-name": "com.example.test",
//	    "bundle-name": "com.example",
//	    "test-timeout": "180000"
//	  }
//	}
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"go.openharmony.org/ohdriver/internal/errors"
)

// DefaultTimeout is the session timeout used when a config sets none.
const DefaultTimeout = 300 * time.Second

// Driver is the driver section of a module config. Numeric values are kept
// as written; configs in the wild quote them inconsistently.
type Driver struct {
	Type string `yaml:"type"`

	PackageName string `yaml:"package-name"`
	ModuleName  string `yaml:"module-name"`
	BundleName  string `yaml:"bundle-name"`
	// TestTimeout is the JSUnit session timeout in milliseconds. It is also
	// passed to the runner as its wait time.
	TestTimeout string `yaml:"test-timeout"`

	// ShellTimeout is the kernel test session timeout in milliseconds.
	ShellTimeout         string `yaml:"shell-timeout"`
	NativeTestDevicePath string `yaml:"native-test-device-path"`
	TestSuiteName        string `yaml:"test-suite-name"`
	TestSuitesList       string `yaml:"test-suites-list"`
	TimeoutLimit         string `yaml:"timeout-limit"`
	ConfFile             string `yaml:"conf-file"`

	// Rerun enables the dry-run listing and rerun tiers. Defaults to true.
	Rerun *bool `yaml:"rerun"`
	// RerunAll enables the batch rerun tier. Defaults to true.
	RerunAll *bool `yaml:"rerun-all"`
}

// Module is a parsed module config file.
type Module struct {
	// Name is the module name, taken from the file name.
	Name string
	// Path is the config file path.
	Path   string
	Driver Driver
}

// Parse parses a module config. The driver section may be nested under a
// "driver" key or make up the whole document.
func Parse(data []byte) (*Driver, error) {
	var nested struct {
		Driver *Driver `yaml:"driver"`
	}
	if err := yaml.Unmarshal(data, &nested); err != nil {
		return nil, err
	}
	if nested.Driver != nil {
		return nested.Driver, nil
	}
	var d Driver
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads the module config file at path.
func Load(path string) (*Module, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &Module{
		Name:   ModuleName(path),
		Path:   path,
		Driver: *d,
	}, nil
}

// ModuleName returns the name of the module configured by the file at path.
func ModuleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// FindModules returns paths of module config files directly under dir in
// lexical order.
func FindModules(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read testcases dir")
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

// JSUnitTimeout returns the session timeout for JSUnit modules.
func (d *Driver) JSUnitTimeout() (time.Duration, error) {
	return millis("test-timeout", d.TestTimeout)
}

// KernelTimeout returns the session timeout for kernel test modules.
func (d *Driver) KernelTimeout() (time.Duration, error) {
	return millis("shell-timeout", d.ShellTimeout)
}

// RerunEnabled reports whether the rerun tiers are enabled.
func (d *Driver) RerunEnabled() bool {
	return d.Rerun == nil || *d.Rerun
}

// BatchRerunEnabled reports whether the batch rerun tier is enabled.
func (d *Driver) BatchRerunEnabled() bool {
	return d.RerunAll == nil || *d.RerunAll
}

func millis(key, v string) (time.Duration, error) {
	if v == "" {
		return DefaultTimeout, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.Errorf("bad %s %q: want positive milliseconds", key, v)
	}
	return time.Duration(n) * time.Millisecond, nil
}
