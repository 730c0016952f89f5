// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package transport

import (
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"
)

// killSession sends sig to every process in session sid and returns the
// number of signals sent. hdc forks helpers that keep the output pipes open,
// so killing only the direct child is not enough.
//
// The process table is scanned a few times to catch children forked between
// passes. Processes forking faster than that may survive.
func killSession(sid int, sig unix.Signal) int {
	const maxPasses = 3
	sent := 0
	for pass := 0; pass < maxPasses; pass++ {
		pids, err := process.Pids()
		if err != nil {
			break
		}
		found := false
		for _, p := range pids {
			if s, err := unix.Getsid(int(p)); err != nil || s != sid {
				continue
			}
			if unix.Kill(int(p), sig) == nil {
				sent++
			}
			found = true
		}
		if !found {
			break
		}
	}
	return sent
}
