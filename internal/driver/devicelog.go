// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"context"
	"os"
	"path/filepath"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/transport"
)

const (
	// LogDirName is the report subdirectory holding device logs.
	LogDirName = "log"

	deviceLogPerm = 0755
)

// DeviceLogPath returns the device log file of module under reportRoot.
func DeviceLogPath(reportRoot, module string) string {
	return filepath.Join(reportRoot, LogDirName, "device_hilog_"+module+".log")
}

// deviceLog is a running capture of the device log into a file.
type deviceLog struct {
	f       *os.File
	capture transport.LogCapture
}

// startDeviceLog opens the device log file of module for append and starts
// capturing the device log into it.
func startDeviceLog(ctx context.Context, tr transport.Transport, reportRoot, module string) (*deviceLog, error) {
	path := DeviceLogPath(reportRoot, module)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create log dir")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, deviceLogPerm)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open device log")
	}
	capture, err := tr.StartLogCapture(ctx, f)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to start device log capture")
	}
	logging.Debugf(ctx, "Capturing device log to %s", path)
	return &deviceLog{f: f, capture: capture}, nil
}

// Close stops the capture and closes the file.
func (l *deviceLog) Close(ctx context.Context) {
	if err := l.capture.Stop(ctx); err != nil {
		logging.Infof(ctx, "Failed to stop device log capture: %v", err)
	}
	if err := l.f.Close(); err != nil {
		logging.Infof(ctx, "Failed to close device log: %v", err)
	}
}
