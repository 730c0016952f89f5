// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package testutil provides support code for unit tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// WriteFiles creates and writes files (keys are slash-separated relative
// filenames, values are contents) within dir. Errors are fatal to t.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for fn, c := range files {
		p := filepath.Join(dir, filepath.FromSlash(fn))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(c), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// ReadFiles reads all regular files under dir and returns their
// slash-separated relative paths and contents.
func ReadFiles(dir string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	return files, err
}

// ListFiles returns the sorted relative paths of regular files under dir.
// Errors are fatal to t.
func ListFiles(t *testing.T, dir string) []string {
	t.Helper()
	files, err := ReadFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := maps.Keys(files)
	slices.Sort(names)
	return names
}
