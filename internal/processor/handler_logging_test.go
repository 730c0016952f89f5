// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package processor_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/logging/loggingtest"
	"go.openharmony.org/ohdriver/internal/processor"
)

func TestLoggingHandler(t *testing.T) {
	logger := loggingtest.NewLogger(t, logging.LevelInfo)
	ctx := logging.AttachLogger(context.Background(), logger)

	stream := processor.NewStream(ctx, &fakeParser{}, processor.New(processor.NewLoggingHandler()))
	fmt.Fprint(stream, "start A#t1\npass A#t1\nstart A#t2\nfail A#t2 boom\nnoise\nignore B#t3\nstart B#t4\n")
	stream.End(nil)

	const want = `Started test A#t1
Completed test A#t1 in 0s: pass
Started test A#t2
Completed test A#t2 in 0s: fail
[00:00:00.000] boom
Started test B#t3
Ignored test B#t3
Started test B#t4
Test B#t4 did not finish
Harness did not report the end of the run`
	if diff := cmp.Diff(logger.String(), want); diff != "" {
		t.Errorf("Logs mismatch (-got +want):\n%s", diff)
	}
}
