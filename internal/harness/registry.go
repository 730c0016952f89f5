// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package harness decodes the output of on-device test harnesses.
//
// The set of harness types is closed: each Type maps to a fixed Factory
// holding constructors for its parsers.
package harness

import (
	"code.cloudfoundry.org/clock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/protocol"
	"go.openharmony.org/ohdriver/internal/testcase"
)

// Type is a harness type tag as written in module configs.
type Type string

const (
	// TypeJSUnit is the OpenHarmony JS/ETS unit test runner driven by "aa test".
	TypeJSUnit Type = "OHJSUnitTest"
	// TypeKernel is the kernel test runner script driven by "sh runtest".
	TypeKernel Type = "OHKernelTest"
)

// ListParser is a Parser for listing-only (dry run) output.
type ListParser interface {
	protocol.Parser
	// Tests returns the listed identities in listing order.
	Tests() *testcase.Set
	// Supported reports whether the output was recognized as a listing.
	Supported() bool
}

// Factory holds parser constructors for one harness type.
type Factory struct {
	// NewRunParser creates a parser for the output of a real run.
	NewRunParser func(clk clock.Clock) protocol.Parser
	// NewListParser creates a parser for dry run output. It is nil if the
	// harness has no listing mode.
	NewListParser func() ListParser
}

var registry = map[Type]Factory{
	TypeJSUnit: {
		NewRunParser:  func(clk clock.Clock) protocol.Parser { return newJSUnitParser(clk) },
		NewListParser: func() ListParser { return newJSUnitListParser() },
	},
	TypeKernel: {
		NewRunParser: func(clk clock.Clock) protocol.Parser { return newKernelParser(clk) },
	},
}

// Lookup returns the Factory registered for t.
func Lookup(t Type) (Factory, error) {
	f, ok := registry[t]
	if !ok {
		return Factory{}, errors.Errorf("unknown harness type %q (known: %v)", t, Types())
	}
	return f, nil
}

// Types returns all registered harness types in sorted order.
func Types() []Type {
	ts := maps.Keys(registry)
	slices.Sort(ts)
	return ts
}

func sortedKeys[V any](m map[string]V) []string {
	ks := maps.Keys(m)
	slices.Sort(ks)
	return ks
}
