// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harness

import (
	"context"
	"encoding/json"
	"strings"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/protocol"
	"go.openharmony.org/ohdriver/internal/testcase"
)

// listing is the JSON document a dry run prints, e.g.
//
//	{"suites":[{"ActsAbilityTest":[{"test":"testA"},{"test":"testB"}]}]}
type listing struct {
	Suites []map[string][]struct {
		Test string `json:"test"`
	} `json:"suites"`
}

// jsunitListParser collects test identities printed by a JSUnit dry run.
type jsunitListParser struct {
	tests     testcase.Set
	seen      bool
	malformed bool
}

var _ ListParser = &jsunitListParser{}

func newJSUnitListParser() *jsunitListParser {
	return &jsunitListParser{}
}

func (p *jsunitListParser) ParseLine(ctx context.Context, line string, out protocol.Output) error {
	i := strings.Index(line, "{")
	if i < 0 || !strings.Contains(line, `"suites"`) {
		logging.Debugf(ctx, "Dry run: %s", line)
		return nil
	}
	p.seen = true

	var l listing
	if err := json.Unmarshal([]byte(line[i:]), &l); err != nil {
		p.malformed = true
		return errors.Wrap(err, "malformed dry run listing")
	}
	for _, suite := range l.Suites {
		// Map iteration order is random; classes within one suite object
		// are emitted sorted, tests keep their listing order.
		for _, class := range sortedKeys(suite) {
			for _, t := range suite[class] {
				id := testcase.ID{Class: class, Test: t.Test}
				if id.Test == "" {
					continue
				}
				p.tests.Add(id)
			}
		}
	}
	return nil
}

func (p *jsunitListParser) Finish(ctx context.Context, out protocol.Output) error {
	return nil
}

func (p *jsunitListParser) Tests() *testcase.Set {
	return testcase.NewSet(p.tests.IDs()...)
}

func (p *jsunitListParser) Supported() bool {
	return p.seen && !p.malformed
}
