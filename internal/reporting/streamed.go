// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reporting

import (
	"encoding/json"
	"os"
	"sync"
)

// StreamedResultsFilename is a file name to be used with StreamedWriter.
const StreamedResultsFilename = "streamed_results.jsonl"

// StreamedWriter writes a stream of JSON-marshaled Result objects to a file,
// one per line. Every observation is written, so a test rerun in a later
// tier appears once per tier that ran it.
type StreamedWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewStreamedWriter creates and returns a new StreamedWriter for writing to
// a file at path.
// If the file already exists, new results are appended to it.
func NewStreamedWriter(path string) (*StreamedWriter, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	return &StreamedWriter{f: f, enc: json.NewEncoder(f)}, nil
}

// Close closes the underlying file.
func (w *StreamedWriter) Close() error {
	return w.f.Close()
}

// Write writes the JSON-marshaled representation of res to the file.
func (w *StreamedWriter) Write(res *Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(res)
}
