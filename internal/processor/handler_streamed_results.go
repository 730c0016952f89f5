// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package processor

import (
	"context"

	"go.openharmony.org/ohdriver/internal/reporting"
)

type tierKey struct{}

// WithTier returns a context labeling events processed with it as belonging
// to tier. The label is copied into streamed results.
func WithTier(ctx context.Context, tier string) context.Context {
	return context.WithValue(ctx, tierKey{}, tier)
}

// TierOf returns the tier label attached to ctx by WithTier.
func TierOf(ctx context.Context) string {
	tier, _ := ctx.Value(tierKey{}).(string)
	return tier
}

// streamedResultsHandler writes every test outcome to a streamed results
// file as soon as it arrives.
type streamedResultsHandler struct {
	baseHandler
	runID  string
	module string
	writer *reporting.StreamedWriter
}

var _ Handler = &streamedResultsHandler{}

// NewStreamedResultsHandler creates a Handler writing outcomes of module to
// w, stamped with runID.
func NewStreamedResultsHandler(runID, module string, w *reporting.StreamedWriter) *streamedResultsHandler {
	return &streamedResultsHandler{runID: runID, module: module, writer: w}
}

func (h *streamedResultsHandler) TestEnd(ctx context.Context, ti *TestInfo, r *Result) error {
	return h.writer.Write(&reporting.Result{
		RunID:   h.runID,
		Module:  h.module,
		Class:   ti.ID.Class,
		Test:    ti.ID.Test,
		Status:  r.Status.String(),
		Tier:    TierOf(ctx),
		Message: r.Message,
		Start:   r.Start,
		End:     r.End,
	})
}
