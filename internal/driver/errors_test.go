// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"testing"

	"go.openharmony.org/ohdriver/internal/errors"
)

func TestCode(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"configuration", newConfigurationError("no package"), CodeConfiguration},
		{"missing source", newMissingTestSourceError(CodeMissingSource, errors.New("enoent"), "no source"), CodeMissingSource},
		{"missing config", newMissingTestSourceError(CodeMissingConfig, nil, "no config"), CodeMissingConfig},
		{"wrapped", errors.Wrap(newConfigurationError("no package"), "module"), CodeConfiguration},
		{"unresponsive", &UnresponsiveSessionError{E: errors.New("timeout")}, CodeUnclassified},
		{"plain", errors.New("boom"), CodeUnclassified},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Errorf("Code(%v) = %q; want %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	plain := errors.New("boom")
	var ue *UnclassifiedError
	if err := classify(plain); !errors.As(err, &ue) || !errors.Is(err, plain) {
		t.Errorf("classify(%v) = %v; want UnclassifiedError wrapping it", plain, err)
	}

	cfg := newConfigurationError("no package")
	if err := classify(cfg); err != cfg {
		t.Errorf("classify(%v) = %v; want unchanged", cfg, err)
	}

	unresp := &UnresponsiveSessionError{E: errors.New("timeout")}
	if err := classify(unresp); err != error(unresp) {
		t.Errorf("classify(%v) = %v; want unchanged", unresp, err)
	}

	if err := classify(nil); err != nil {
		t.Errorf("classify(nil) = %v; want nil", err)
	}
}
