// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harness

import (
	"context"
	"regexp"
	"strings"

	"code.cloudfoundry.org/clock"

	"go.openharmony.org/ohdriver/internal/protocol"
	"go.openharmony.org/ohdriver/internal/testcase"
)

// kernelLineRe matches gtest-style progress lines printed by "runtest",
// e.g. "[ RUN      ] Suite.Test" or "[  FAILED  ] Suite.Test (12 ms)".
var kernelLineRe = regexp.MustCompile(`^\[\s*(RUN|OK|FAILED|SKIPPED)\s*\]\s+([^\s.]+)\.(\S+)`)

// kernelParser decodes the output of the kernel test runner script.
type kernelParser struct {
	clock clock.Clock
	// lastLog holds free-form output since the last start, used as the
	// failure message.
	lastLog []string
	// ended holds tests that already reported an outcome. The runner repeats
	// failed tests in its final summary.
	ended testcase.Set
}

var _ protocol.Parser = &kernelParser{}

func newKernelParser(clk clock.Clock) *kernelParser {
	return &kernelParser{clock: clk}
}

func (p *kernelParser) ParseLine(ctx context.Context, line string, out protocol.Output) error {
	now := p.clock.Now()
	m := kernelLineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		p.lastLog = append(p.lastLog, line)
		return out.RunLog(ctx, &protocol.RunLogEvent{Time: now, Text: line})
	}

	id := testcase.ID{Class: m[2], Test: m[3]}
	if m[1] != "RUN" && !p.ended.Add(id) {
		return nil
	}
	switch m[1] {
	case "RUN":
		p.lastLog = nil
		return out.TestStart(ctx, &protocol.TestStartEvent{Time: now, ID: id})
	case "OK":
		return out.TestEnd(ctx, &protocol.TestEndEvent{Time: now, ID: id, Status: protocol.StatusPass})
	case "FAILED":
		msg := strings.Join(p.lastLog, "\n")
		p.lastLog = nil
		return out.TestEnd(ctx, &protocol.TestEndEvent{Time: now, ID: id, Status: protocol.StatusFail, Message: msg})
	default:
		return out.TestEnd(ctx, &protocol.TestEndEvent{Time: now, ID: id, Status: protocol.StatusIgnored})
	}
}

func (p *kernelParser) Finish(ctx context.Context, out protocol.Output) error {
	return nil
}
