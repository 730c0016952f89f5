// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package processor_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/logging/loggingtest"
	"go.openharmony.org/ohdriver/internal/processor"
	"go.openharmony.org/ohdriver/internal/protocol"
	"go.openharmony.org/ohdriver/internal/testcase"
)

var epoch = time.Unix(0, 0).UTC()

// fakeParser understands lines like "start A#t1", "pass A#t1",
// "fail A#t1 reason", "ignore A#t1" and "finish".
type fakeParser struct {
	finished int
}

func (p *fakeParser) ParseLine(ctx context.Context, line string, out protocol.Output) error {
	verb, rest, _ := strings.Cut(line, " ")
	key, msg, _ := strings.Cut(rest, " ")
	if verb == "finish" {
		return out.RunFinished(ctx, &protocol.RunFinishedEvent{Time: epoch})
	}
	id, ok := testcase.ParseKey(key)
	if !ok {
		return out.RunLog(ctx, &protocol.RunLogEvent{Time: epoch, Text: line})
	}
	switch verb {
	case "start":
		return out.TestStart(ctx, &protocol.TestStartEvent{Time: epoch, ID: id})
	case "pass":
		return out.TestEnd(ctx, &protocol.TestEndEvent{Time: epoch, ID: id, Status: protocol.StatusPass})
	case "fail":
		return out.TestEnd(ctx, &protocol.TestEndEvent{Time: epoch, ID: id, Status: protocol.StatusFail, Message: msg})
	case "ignore":
		return out.TestEnd(ctx, &protocol.TestEndEvent{Time: epoch, ID: id, Status: protocol.StatusIgnored})
	}
	return errors.Errorf("unknown verb %q", verb)
}

func (p *fakeParser) Finish(ctx context.Context, out protocol.Output) error {
	p.finished++
	return nil
}

// recordingHandler records every event it receives as a string.
type recordingHandler struct {
	events []string
}

func (h *recordingHandler) RunStart(ctx context.Context) error {
	h.events = append(h.events, "RunStart")
	return nil
}

func (h *recordingHandler) TestStart(ctx context.Context, ti *processor.TestInfo) error {
	h.events = append(h.events, "TestStart "+ti.ID.Key())
	return nil
}

func (h *recordingHandler) TestEnd(ctx context.Context, ti *processor.TestInfo, r *processor.Result) error {
	h.events = append(h.events, fmt.Sprintf("TestEnd %s %s", ti.ID.Key(), r.Status))
	return nil
}

func (h *recordingHandler) RunLog(ctx context.Context, l *processor.LogEntry) error {
	h.events = append(h.events, "RunLog "+l.Text)
	return nil
}

func (h *recordingHandler) RunEnd(ctx context.Context, s *processor.RunSummary) {
	h.events = append(h.events, fmt.Sprintf("RunEnd finished=%v unfinished=%v", s.Finished, s.Unfinished))
}

func TestStreamFanout(t *testing.T) {
	ctx, _ := loggingtest.Context(t)

	first := &recordingHandler{}
	second := &recordingHandler{}
	tracker := processor.NewTracker()
	proc := processor.New(first, second, tracker)
	parser := &fakeParser{}
	stream := processor.NewStream(ctx, parser, proc)

	if err := proc.RunStart(ctx); err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(stream, "start A#t1\npass A#t1\nstart A#t2\r\n")
	// Events are delivered as soon as their lines are complete.
	if diff := cmp.Diff(tracker.Completed().Keys(), []string{"A#t1"}); diff != "" {
		t.Errorf("Completed before end mismatch (-got +want):\n%s", diff)
	}
	fmt.Fprint(stream, "fail A#t2 boom\nhello\nignore B#t3\nfinish\n")
	stream.End(nil)

	want := []string{
		"RunStart",
		"TestStart A#t1",
		"TestEnd A#t1 pass",
		"TestStart A#t2",
		"TestEnd A#t2 fail",
		"RunLog hello",
		"TestStart B#t3",
		"TestEnd B#t3 ignored",
		"RunEnd finished=true unfinished=[]",
	}
	if diff := cmp.Diff(first.events, want); diff != "" {
		t.Errorf("First handler events mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(second.events, first.events); diff != "" {
		t.Errorf("Handlers saw different events (-second +first):\n%s", diff)
	}
	if diff := cmp.Diff(tracker.Completed().Keys(), []string{"A#t1", "A#t2", "B#t3"}); diff != "" {
		t.Errorf("Completed mismatch (-got +want):\n%s", diff)
	}
	if parser.finished != 1 {
		t.Errorf("Parser finished %d times; want 1", parser.finished)
	}
}

func TestStreamTruncated(t *testing.T) {
	ctx, logger := loggingtest.Context(t)

	rec := &recordingHandler{}
	tracker := processor.NewTracker()
	stream := processor.NewStream(ctx, &fakeParser{}, processor.New(rec, tracker))

	// The device dies in the middle of A#t2, and even in the middle of a line.
	fmt.Fprint(stream, "start A#t1\npass A#t1\nstart A#t2\npa")
	stream.End(errors.New("connection lost"))
	stream.End(nil) // no-op

	want := []string{
		"TestStart A#t1",
		"TestEnd A#t1 pass",
		"TestStart A#t2",
		"RunLog pa",
		"RunEnd finished=false unfinished=[A#t2]",
	}
	if diff := cmp.Diff(rec.events, want); diff != "" {
		t.Errorf("Events mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(tracker.Completed().Keys(), []string{"A#t1"}); diff != "" {
		t.Errorf("Completed mismatch (-got +want):\n%s", diff)
	}
	if logs := logger.String(); !strings.Contains(logs, "Test A#t2 did not finish") {
		t.Errorf("Logs do not mention the unfinished test:\n%s", logs)
	}
}

func TestStreamFlushesPartialLine(t *testing.T) {
	ctx, _ := loggingtest.Context(t)

	tracker := processor.NewTracker()
	stream := processor.NewStream(ctx, &fakeParser{}, processor.New(tracker))
	fmt.Fprint(stream, "pass A#")
	fmt.Fprint(stream, "t1")
	stream.End(nil)

	if diff := cmp.Diff(tracker.Completed().Keys(), []string{"A#t1"}); diff != "" {
		t.Errorf("Completed mismatch (-got +want):\n%s", diff)
	}
}

func TestProcessorCopiesHandlers(t *testing.T) {
	ctx, _ := loggingtest.Context(t)

	permanent := &recordingHandler{}
	hs := []processor.Handler{permanent}
	proc := processor.New(hs...)
	hs[0] = &recordingHandler{}

	stream := processor.NewStream(ctx, &fakeParser{}, proc)
	fmt.Fprint(stream, "pass A#t1\n")
	stream.End(nil)

	if len(permanent.events) == 0 {
		t.Error("Original handler received no events after the caller changed its slice")
	}
}

func TestTrackerOutcomes(t *testing.T) {
	ctx, _ := loggingtest.Context(t)

	tracker := processor.NewTracker()
	stream := processor.NewStream(ctx, &fakeParser{}, processor.New(tracker))
	fmt.Fprint(stream, "fail A#t1 first\nfail A#t1 second\npass A#t2\n")
	stream.End(nil)

	type outcome struct {
		Key     string
		Status  protocol.Status
		Message string
	}
	var got []outcome
	for _, o := range tracker.Outcomes() {
		got = append(got, outcome{o.ID.Key(), o.Status, o.Message})
	}
	want := []outcome{
		{"A#t1", protocol.StatusFail, "first"},
		{"A#t2", protocol.StatusPass, ""},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Outcomes mismatch (-got +want):\n%s", diff)
	}

	// The returned set is a copy.
	tracker.Completed().Add(testcase.ID{Class: "Z", Test: "z"})
	if tracker.Completed().Len() != 2 {
		t.Error("Completed returned a set shared with the tracker")
	}
}
