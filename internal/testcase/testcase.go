// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package testcase defines test identities and ordered sets of them.
package testcase

import (
	"strings"
)

// ID identifies a single test case within a module.
type ID struct {
	Class string
	Test  string
}

// Key returns the identity key "<class>#<test>". The same form is used as
// the device-side class filter.
func (id ID) Key() string {
	return id.Class + "#" + id.Test
}

func (id ID) String() string {
	return id.Key()
}

// ParseKey parses an identity key of the form "<class>#<test>".
func ParseKey(key string) (ID, bool) {
	class, test, ok := strings.Cut(key, "#")
	if !ok || class == "" || test == "" {
		return ID{}, false
	}
	return ID{Class: class, Test: test}, true
}

// Set is a set of IDs that remembers insertion order. The zero value is an
// empty set ready to use.
type Set struct {
	ids   []ID
	index map[ID]struct{}
}

// NewSet returns a set holding ids in the given order, dropping duplicates.
func NewSet(ids ...ID) *Set {
	s := &Set{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was not already present.
func (s *Set) Add(id ID) bool {
	if s.index == nil {
		s.index = make(map[ID]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Has reports whether id is in the set.
func (s *Set) Has(id ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns a copy of the IDs in insertion order.
func (s *Set) IDs() []ID {
	if s == nil {
		return nil
	}
	return append([]ID(nil), s.ids...)
}

// Minus returns a new set of the IDs of s that are not in other, keeping
// the order of s.
func (s *Set) Minus(other *Set) *Set {
	d := &Set{}
	for _, id := range s.IDs() {
		if !other.Has(id) {
			d.Add(id)
		}
	}
	return d
}

// Keys returns the identity keys of the set in insertion order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, s.Len())
	for _, id := range s.IDs() {
		keys = append(keys, id.Key())
	}
	return keys
}
