// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"strings"

	"go.openharmony.org/ohdriver/shutil"
)

// Well-known argument names.
const (
	// WaitTimeArg is how long the JSUnit runner waits for a test, in
	// milliseconds.
	WaitTimeArg = "wait_time"
	// ClassArg restricts a JSUnit run to comma-separated classes or
	// "class#test" identity keys.
	ClassArg = "class"
)

// Grammar renders one argument as command line tokens. It returns nil for
// arguments the harness does not understand.
type Grammar func(name, value string) []string

// JSUnitGrammar renders wait_time as "-w <value>" and every other argument
// as "-s <name> <value>".
func JSUnitGrammar(name, value string) []string {
	if name == WaitTimeArg {
		return []string{"-w", value}
	}
	return []string{"-s", name, value}
}

// KernelGrammar renders the arguments of the kernel test runner script.
// Unknown arguments are skipped.
func KernelGrammar(name, value string) []string {
	switch name {
	case "test-suite-name", "test-suites-list":
		return []string{"-t", value}
	case "conf-file":
		return []string{"-n", value}
	case "timeout-limit":
		return []string{"-l", value}
	}
	return nil
}

// ArgList is an ordered mapping of invocation argument names to values.
// Replacing the value of an existing name keeps its position.
type ArgList struct {
	grammar Grammar
	names   []string
	values  map[string]string
}

// NewArgList returns an empty ArgList rendered with g.
func NewArgList(g Grammar) *ArgList {
	return &ArgList{grammar: g, values: make(map[string]string)}
}

// Add sets name to value. It does nothing if either is empty.
func (a *ArgList) Add(name, value string) {
	if name == "" || value == "" {
		return
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = value
}

// Remove deletes name if present.
func (a *ArgList) Remove(name string) {
	if _, ok := a.values[name]; !ok {
		return
	}
	delete(a.values, name)
	for i, n := range a.names {
		if n == name {
			a.names = append(a.names[:i:i], a.names[i+1:]...)
			break
		}
	}
}

// Get returns the value of name.
func (a *ArgList) Get(name string) (string, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Names returns argument names in insertion order.
func (a *ArgList) Names() []string {
	return append([]string(nil), a.names...)
}

// Clone returns an independent copy of a.
func (a *ArgList) Clone() *ArgList {
	c := NewArgList(a.grammar)
	for _, n := range a.names {
		c.Add(n, a.values[n])
	}
	return c
}

// Serialize renders all arguments in insertion order, shell-escaped.
func (a *ArgList) Serialize() string {
	var tokens []string
	for _, n := range a.names {
		tokens = append(tokens, a.grammar(n, a.values[n])...)
	}
	for i, t := range tokens {
		tokens[i] = shutil.Escape(t)
	}
	return strings.Join(tokens, " ")
}
