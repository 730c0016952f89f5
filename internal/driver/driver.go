// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package driver runs test modules on a device and decides a verdict for
// every test they are expected to run.
//
// A JSUnit module is first listed with a dry run. Tests missing after the
// first run are rerun together once, then one at a time until a shared
// budget of unproductive reruns runs out. Tests left without an outcome are
// reported as blocked.
package driver
