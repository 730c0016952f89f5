// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harness

import (
	"context"
	"strconv"
	"strings"

	"code.cloudfoundry.org/clock"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/protocol"
	"go.openharmony.org/ohdriver/internal/testcase"
)

// Line prefixes printed by OpenHarmonyTestRunner.
const (
	statusPrefix     = "OHOS_REPORT_STATUS:"
	statusCodePrefix = "OHOS_REPORT_STATUS_CODE:"
	resultPrefix     = "OHOS_REPORT_RESULT:"
	codePrefix       = "OHOS_REPORT_CODE:"
	reportPrefix     = "OHOS_REPORT_"
)

// Status codes committing a block of OHOS_REPORT_STATUS lines.
const (
	codeStart   = 1
	codePass    = 0
	codeError   = -1
	codeFailure = -2
	codeIgnore  = -3
)

// jsunitParser decodes the output of "aa test ... OpenHarmonyTestRunner".
//
// The runner prints blocks of "OHOS_REPORT_STATUS: key=value" lines, each
// closed by an "OHOS_REPORT_STATUS_CODE: n" line. A stream value may span
// several lines.
type jsunitParser struct {
	clock clock.Clock

	values  map[string]string
	lastKey string
	summary []string
}

var _ protocol.Parser = &jsunitParser{}

func newJSUnitParser(clk clock.Clock) *jsunitParser {
	return &jsunitParser{clock: clk, values: make(map[string]string)}
}

func (p *jsunitParser) ParseLine(ctx context.Context, line string, out protocol.Output) error {
	switch {
	case strings.HasPrefix(line, statusCodePrefix):
		code, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, statusCodePrefix)))
		p.lastKey = ""
		if err != nil {
			p.reset()
			return errors.Wrapf(err, "bad status code line %q", line)
		}
		return p.commit(ctx, code, out)

	case strings.HasPrefix(line, statusPrefix):
		kv := strings.TrimSpace(strings.TrimPrefix(line, statusPrefix))
		key, value, _ := strings.Cut(kv, "=")
		p.values[key] = value
		p.lastKey = key
		return nil

	case strings.HasPrefix(line, resultPrefix):
		p.lastKey = ""
		p.summary = append(p.summary, strings.TrimSpace(strings.TrimPrefix(line, resultPrefix)))
		return nil

	case strings.HasPrefix(line, codePrefix):
		p.lastKey = ""
		return out.RunFinished(ctx, &protocol.RunFinishedEvent{
			Time:    p.clock.Now(),
			Summary: strings.Join(p.summary, "; "),
		})

	case strings.HasPrefix(line, reportPrefix):
		// OHOS_REPORT_SUM and similar counters.
		p.lastKey = ""
		return nil

	case p.lastKey == "stream":
		p.values["stream"] += "\n" + line
		return nil

	case strings.TrimSpace(line) == "":
		return nil
	}
	return out.RunLog(ctx, &protocol.RunLogEvent{Time: p.clock.Now(), Text: line})
}

func (p *jsunitParser) commit(ctx context.Context, code int, out protocol.Output) error {
	defer p.reset()

	id := testcase.ID{Class: p.values["class"], Test: p.values["test"]}
	if id.Class == "" || id.Test == "" {
		return errors.Errorf("status code %d without class and test", code)
	}
	now := p.clock.Now()

	var status protocol.Status
	switch code {
	case codeStart:
		return out.TestStart(ctx, &protocol.TestStartEvent{Time: now, ID: id})
	case codePass:
		status = protocol.StatusPass
	case codeError, codeFailure:
		status = protocol.StatusFail
	case codeIgnore:
		status = protocol.StatusIgnored
	default:
		return errors.Errorf("unknown status code %d for %s", code, id)
	}
	return out.TestEnd(ctx, &protocol.TestEndEvent{
		Time:    now,
		ID:      id,
		Status:  status,
		Message: strings.TrimSpace(p.values["stream"]),
	})
}

func (p *jsunitParser) reset() {
	p.values = make(map[string]string)
}

func (p *jsunitParser) Finish(ctx context.Context, out protocol.Output) error {
	if len(p.values) > 0 {
		p.reset()
		return errors.New("stream ended in the middle of a status block")
	}
	return nil
}
