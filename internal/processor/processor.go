// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package processor turns harness events of a single invocation into calls
// on a fixed list of Handlers.
//
// Processor consists of a single preprocessor and multiple Handlers. Events
// decoded by a harness parser go to the preprocessor first, which passes them
// down to every Handler in order.
//
// The preprocessor keeps the event sequence consistent. For example, when a
// device stream is cut short we may never see the end of a started test. Such
// a test is reported to handlers as unfinished in RunEnd and is never passed
// to TestEnd, so it does not count as completed.
//
// Handlers are isolated from each other; the behavior of one Handler does not
// affect another. The handler list is fixed when the Processor is created.
package processor

import (
	"go.openharmony.org/ohdriver/internal/protocol"
)

// Processor processes test events of one invocation.
type Processor struct {
	*preprocessor // embed to pass through test events to preprocessor
}

var _ protocol.Output = &Processor{}

// New creates a new Processor delivering events to handlers. The slice is
// copied, so later changes by the caller are not observed.
func New(handlers ...Handler) *Processor {
	hs := append([]Handler(nil), handlers...)
	return &Processor{preprocessor: newPreprocessor(hs)}
}
