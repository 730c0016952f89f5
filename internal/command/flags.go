// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package command contains helpers shared by command-line entry points.
package command

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"go.openharmony.org/ohdriver/internal/errors"
)

// EnumFlag implements flag.Value accepting one of a fixed set of strings.
type EnumFlag struct {
	valid  []string
	assign func(v string)
	def    string
}

// NewEnumFlag returns an EnumFlag accepting the values in valid. assign is
// called with every accepted value, first with def.
func NewEnumFlag(valid []string, assign func(v string), def string) *EnumFlag {
	f := &EnumFlag{valid: valid, assign: assign, def: def}
	if err := f.Set(def); err != nil {
		panic(err)
	}
	return f
}

// Default returns the default value used if the flag is unset.
func (f *EnumFlag) Default() string { return f.def }

// QuotedValues returns a comma-separated list of quoted values the user can supply.
func (f *EnumFlag) QuotedValues() string {
	qs := make([]string, len(f.valid))
	for i, v := range f.valid {
		qs[i] = `"` + v + `"`
	}
	slices.Sort(qs)
	return strings.Join(qs, ", ")
}

func (f *EnumFlag) String() string { return "" }

// Set assigns v if it is a valid value.
func (f *EnumFlag) Set(v string) error {
	if !slices.Contains(f.valid, v) {
		return errors.Errorf("must be in %s", f.QuotedValues())
	}
	f.assign(v)
	return nil
}

// KeyValueFlag implements flag.Value collecting repeated "key=value" pairs.
// Values given for the same key are joined with commas, so
// "-f class=A -f class=B" is the same as "-f class=A,B".
type KeyValueFlag struct {
	keys []string
	vals map[string]string
}

// Keys returns the keys in the order they were first given.
func (f *KeyValueFlag) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Get returns the value for key.
func (f *KeyValueFlag) Get(key string) (string, bool) {
	v, ok := f.vals[key]
	return v, ok
}

// Map returns a copy of all pairs.
func (f *KeyValueFlag) Map() map[string]string {
	return maps.Clone(f.vals)
}

func (f *KeyValueFlag) String() string {
	var ps []string
	for _, k := range f.keys {
		ps = append(ps, k+"="+f.vals[k])
	}
	return strings.Join(ps, " ")
}

// Set parses and records a "key=value" pair.
func (f *KeyValueFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return errors.Errorf("%q is not key=value", s)
	}
	if f.vals == nil {
		f.vals = make(map[string]string)
	}
	if old, ok := f.vals[k]; ok {
		if old != "" && v != "" {
			v = old + "," + v
		} else {
			v = old + v
		}
	} else {
		f.keys = append(f.keys, k)
	}
	f.vals[k] = v
	return nil
}
