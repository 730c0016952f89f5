// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.openharmony.org/ohdriver/internal/config"
)

func TestParseNestedJSON(t *testing.T) {
	const data = `{
  "driver": {
    "type": "OHJSUnitTest",
    "package-name": "com.example.test",
    "bundle-name": "com.example",
    "test-timeout": 180000,
    "rerun-all": false
  },
  "kits": [{"type": "AppInstallKit", "test-file-name": ["Entry.hap"]}]
}`
	d, err := config.Parse([]byte(data))
	require.NoError(t, err)
	require.Equal(t, "OHJSUnitTest", d.Type)
	require.Equal(t, "com.example.test", d.PackageName)
	require.Equal(t, "com.example", d.BundleName)
	require.Equal(t, "180000", d.TestTimeout)
	require.True(t, d.RerunEnabled())
	require.False(t, d.BatchRerunEnabled())

	timeout, err := d.JSUnitTimeout()
	require.NoError(t, err)
	require.Equal(t, 180*time.Second, timeout)
}

func TestParseBareYAML(t *testing.T) {
	const data = `
type: OHKernelTest
native-test-device-path: /data/local/tmp/OH_kernel_test
test-suite-name: OpenHarmony_RK3568_config
conf-file: OpenHarmony_RK3568_skiptest
timeout-limit: "60"
rerun: false
`
	d, err := config.Parse([]byte(data))
	require.NoError(t, err)
	require.Equal(t, "OHKernelTest", d.Type)
	require.Equal(t, "/data/local/tmp/OH_kernel_test", d.NativeTestDevicePath)
	require.Equal(t, "OpenHarmony_RK3568_config", d.TestSuiteName)
	require.Equal(t, "OpenHarmony_RK3568_skiptest", d.ConfFile)
	require.Equal(t, "60", d.TimeoutLimit)
	require.False(t, d.RerunEnabled())
	require.True(t, d.BatchRerunEnabled())

	timeout, err := d.KernelTimeout()
	require.NoError(t, err)
	require.Equal(t, config.DefaultTimeout, timeout)
}

func TestBadTimeout(t *testing.T) {
	for _, v := range []string{"abc", "-5", "0"} {
		d := &config.Driver{TestTimeout: v}
		_, err := d.JSUnitTimeout()
		require.Error(t, err, v)
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := config.Parse([]byte("driver: [unterminated"))
	require.Error(t, err)
}

func TestLoadAndFindModules(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"entry.json":      `{"driver": {"type": "OHJSUnitTest", "module-name": "entry"}}`,
		"kernel.yaml":     "driver:\n  type: OHKernelTest\n",
		"Entry.hap":       "binary",
		"notes.txt":       "ignored",
		"sub/nested.json": `{}`,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	paths, err := config.FindModules(dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "entry.json"), filepath.Join(dir, "kernel.yaml")}, paths)

	m, err := config.Load(paths[0])
	require.NoError(t, err)
	require.Equal(t, "entry", m.Name)
	require.Equal(t, "entry", m.Driver.ModuleName)
	require.Equal(t, paths[0], m.Path)

	_, err = config.Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
