// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package processor

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/protocol"
)

// Stream is an io.Writer receiving the raw output of one invocation. It
// splits the output into lines and feeds them to a harness parser as they
// arrive, so events reach handlers while the invocation is still running.
//
// Stream is safe for concurrent use.
type Stream struct {
	ctx    context.Context
	parser protocol.Parser
	proc   *Processor

	mu    sync.Mutex
	buf   []byte
	ended bool
}

// NewStream creates a Stream decoding output with parser and sending events
// to proc. ctx is used for logging and is passed to the parser.
func NewStream(ctx context.Context, parser protocol.Parser, proc *Processor) *Stream {
	return &Stream{ctx: ctx, parser: parser, proc: proc}
}

// Write consumes a chunk of output. It never fails; lines that cannot be
// processed are logged and skipped.
func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		logging.Debugf(s.ctx, "Dropping %d bytes written after the stream ended", len(p))
		return len(p), nil
	}

	s.buf = append(s.buf, p...)
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			break
		}
		line := string(s.buf[:i])
		s.buf = s.buf[i+1:]
		s.processLine(line)
	}
	return len(p), nil
}

// End flushes a trailing partial line, tells the parser that the stream is
// over, and finishes the run on the processor. runErr is the error the
// invocation ended with, if any. Calls after the first are no-ops.
func (s *Stream) End(runErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return
	}
	s.ended = true

	if len(s.buf) > 0 {
		line := string(s.buf)
		s.buf = nil
		s.processLine(line)
	}
	if err := s.parser.Finish(s.ctx, s.proc); err != nil {
		logging.Infof(s.ctx, "Failed to finish parsing output: %v", err)
	}
	s.proc.RunEnd(s.ctx, runErr)
}

func (s *Stream) processLine(line string) {
	line = strings.TrimSuffix(line, "\r")
	if err := s.parser.ParseLine(s.ctx, line, s.proc); err != nil {
		logging.Infof(s.ctx, "Failed to process line %q: %v", line, err)
	}
}
