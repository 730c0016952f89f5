// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"context"
	"time"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/harness"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/processor"
	"go.openharmony.org/ohdriver/internal/testcase"
	"go.openharmony.org/ohdriver/internal/transport"
)

// Resolver lists the tests a module is expected to run with a dry run.
type Resolver struct {
	Transport transport.Transport
	Harness   harness.Factory
	Timeout   time.Duration
	// Command builds the dry run command line from args.
	Command func(args *ArgList) string
}

// Discover runs a dry run with args and returns the listed tests. ok is
// false if the harness cannot list tests, listed none, or did not respond.
func (r *Resolver) Discover(ctx context.Context, args *ArgList) (tests *testcase.Set, ok bool, err error) {
	if r.Harness.NewListParser == nil {
		logging.Debug(ctx, "Harness has no dry run mode")
		return nil, false, nil
	}

	cmd := r.Command(args)
	logging.Debugf(ctx, "Listing tests: %s", cmd)

	lp := r.Harness.NewListParser()
	stream := processor.NewStream(ctx, lp, processor.New())
	runErr := r.Transport.Invoke(ctx, cmd, r.Timeout, stream)
	stream.End(runErr)

	if runErr != nil {
		if errors.Is(runErr, transport.ErrUnresponsive) {
			logging.Infof(ctx, "Dry run did not complete: %v", runErr)
			return nil, false, nil
		}
		return nil, false, errors.Wrap(runErr, "dry run failed")
	}
	if !lp.Supported() || lp.Tests().Len() == 0 {
		logging.Info(ctx, "Dry run listed no tests")
		return nil, false, nil
	}
	return lp.Tests(), true, nil
}
