// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package main implements the ohdriver executable, used to run test modules
// on OpenHarmony devices.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"go.openharmony.org/ohdriver/internal/command"
	"go.openharmony.org/ohdriver/internal/logging"
)

// Version is the version info of this command. It is filled in at build time.
var Version = "<unknown>"

// doMain implements the main body of the program. It's a separate function so
// that its deferred functions will run before os.Exit makes the program exit
// immediately.
func doMain() int {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(newListCmd(os.Stdout), "")
	subcommands.Register(newRunCmd(), "")

	version := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("verbose", false, "use verbose logging")
	logTime := flag.Bool("logtime", true, "include date/time headers in logs")
	flag.Parse()

	if *version {
		fmt.Printf("ohdriver version %s\n", Version)
		return 0
	}

	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewSinkLogger(level, *logTime, logging.NewWriterSink(os.Stdout))
	ctx := logging.AttachLogger(context.Background(), logger)

	command.InstallSignalHandler(os.Stderr, func(os.Signal) {})

	return int(subcommands.Execute(ctx))
}

func main() {
	os.Exit(doMain())
}
