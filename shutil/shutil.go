// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shutil quotes values placed on device shell command lines.
package shutil

import (
	"regexp"
	"strings"
)

const (
	// \w is [0-9A-Za-z_]. A leading "=" or "#" changes meaning in some shells,
	// so both are only accepted after the first character. Test identity keys
	// like "Class#test" stay readable this way.
	leadingSafeChars  = `-\w@%+:,./`
	trailingSafeChars = leadingSafeChars + "=#"
)

// safeRE matches an argument that can be literally included in a shell
// command line without requiring escaping.
var safeRE = regexp.MustCompile("^[" + leadingSafeChars + "][" + trailingSafeChars + "]*$")

// Escape quotes s for a POSIX shell command line. s is returned unchanged if
// it needs no quoting.
func Escape(s string) string {
	if safeRE.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// Join escapes each of args and joins them with spaces. Empty args are
// dropped rather than quoted.
func Join(args ...string) string {
	var escaped []string
	for _, arg := range args {
		if arg == "" {
			continue
		}
		escaped = append(escaped, Escape(arg))
	}
	return strings.Join(escaped, " ")
}
