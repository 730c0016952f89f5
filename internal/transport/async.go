// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package transport

import "context"

// doAsync runs body in a goroutine and waits for it or for ctx, whichever
// finishes first.
//
// body is called even if ctx is already canceled. If body fails or ctx is
// canceled before body returns, clean is called after body returns, in the
// same goroutine. clean may be nil.
//
// doAsync returns the result of body if it finishes first, or ctx's error
// otherwise. In the latter case body may still be running.
func doAsync(ctx context.Context, body func() error, clean func()) (retErr error) {
	bodyCh := make(chan error, 1)
	retCh := make(chan error, 1)

	go func() {
		bodyCh <- body()
		if err := <-retCh; err != nil && clean != nil {
			clean()
		}
	}()
	defer func() { retCh <- retErr }()

	select {
	case <-ctx.Done():
		return abortError(ctx)
	default:
	}

	select {
	case err := <-bodyCh:
		return err
	case <-ctx.Done():
		return abortError(ctx)
	}
}
