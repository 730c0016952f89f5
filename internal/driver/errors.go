// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package driver

import (
	"go.openharmony.org/ohdriver/internal/errors"
)

// Diagnostic codes attached to module failures.
const (
	CodeConfiguration = "03201"
	CodeMissingSource = "00110"
	CodeMissingConfig = "00102"
	CodeUnclassified  = "03409"
)

// ConfigurationError is returned when a module config lacks a required
// setting. No invocation is made.
type ConfigurationError struct {
	*errors.E
}

// Code returns the diagnostic code.
func (e *ConfigurationError) Code() string { return CodeConfiguration }

// MissingTestSourceError is returned when the test source or the module
// config file does not exist.
type MissingTestSourceError struct {
	*errors.E
	code string
}

// Code returns the diagnostic code.
func (e *MissingTestSourceError) Code() string { return e.code }

// UnresponsiveSessionError is returned when the only run of a module
// without reconciliation timed out or lost its connection.
type UnresponsiveSessionError struct {
	*errors.E
}

// UnclassifiedError tags a failure that has no specific diagnostic code.
type UnclassifiedError struct {
	*errors.E
}

// Code returns the diagnostic code.
func (e *UnclassifiedError) Code() string { return CodeUnclassified }

func newConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{E: errors.Errorf(format, args...)}
}

func newMissingTestSourceError(code string, cause error, format string, args ...interface{}) error {
	return &MissingTestSourceError{E: errors.Wrapf(cause, format, args...), code: code}
}

// classify wraps err in an UnclassifiedError unless it already carries a
// diagnostic code or is an UnresponsiveSessionError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return err
	}
	var ue *UnresponsiveSessionError
	if errors.As(err, &ue) {
		return err
	}
	return &UnclassifiedError{E: errors.Wrap(err, "module failed")}
}

// Code returns the diagnostic code carried by err, or CodeUnclassified if
// it carries none. It returns an empty string for a nil error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeUnclassified
}
