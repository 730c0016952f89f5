// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"go.openharmony.org/ohdriver/internal/command"
	"go.openharmony.org/ohdriver/internal/driver"
	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/logging"
	"go.openharmony.org/ohdriver/internal/transport"
)

const (
	transportHDC = "hdc"
	transportSSH = "ssh"
)

// deviceFlags holds flags selecting and reaching the device under test.
type deviceFlags struct {
	transport string
	hdcPath   string
	serial    string
	target    string
	keyFile   string
	keyDir    string
	retries   int

	testArgs command.KeyValueFlag

	// connect can be set by tests to stub out the device.
	connect func(ctx context.Context) (transport.Transport, error)
}

func (d *deviceFlags) SetFlags(f *flag.FlagSet) {
	tf := command.NewEnumFlag([]string{transportHDC, transportSSH}, func(v string) { d.transport = v }, transportHDC)
	f.Var(tf, "transport", fmt.Sprintf("device transport (%s; default %q)", tf.QuotedValues(), tf.Default()))
	f.StringVar(&d.hdcPath, "hdc", "hdc", "hdc executable")
	f.StringVar(&d.serial, "device", "", "hdc serial of the device; empty if only one is connected")
	f.StringVar(&d.target, "target", "", `SSH target of the form "[user@]host[:port]"`)
	f.StringVar(&d.keyFile, "keyfile", "", "path to SSH private key to use for connecting")
	f.StringVar(&d.keyDir, "keydir", "", "directory containing SSH keys to use if -keyfile is not accepted")
	f.IntVar(&d.retries, "retries", 1, "number of SSH connection retries")
	f.Var(&d.testArgs, "testarg", `test runner argument "key=value[,value...]"; may be repeated`)
}

// dial connects to the device selected by the flags.
func (d *deviceFlags) dial(ctx context.Context) (transport.Transport, error) {
	if d.connect != nil {
		return d.connect(ctx)
	}
	switch d.transport {
	case transportSSH:
		if d.target == "" {
			return nil, errors.New("-target is required with -transport=ssh")
		}
		o := &transport.SSHOptions{
			KeyFile:              d.keyFile,
			KeyDir:               d.keyDir,
			ConnectTimeout:       10 * time.Second,
			ConnectRetries:       d.retries,
			ConnectRetryInterval: 2 * time.Second,
		}
		if err := transport.ParseTarget(d.target, o); err != nil {
			return nil, err
		}
		logging.Infof(ctx, "Connecting to %s", o.Hostname)
		return transport.DialSSH(ctx, o)
	default:
		logging.Debugf(ctx, "Using %s for device %q", d.hdcPath, d.serial)
		return transport.NewHDC(&transport.HDCOptions{Path: d.hdcPath, Serial: d.serial}), nil
	}
}

// runnerArgs returns the -testarg flags as test runner arguments.
func (d *deviceFlags) runnerArgs() []driver.TestArg {
	var args []driver.TestArg
	for _, k := range d.testArgs.Keys() {
		v, _ := d.testArgs.Get(k)
		var vals []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				vals = append(vals, s)
			}
		}
		args = append(args, driver.TestArg{Name: k, Values: vals})
	}
	return args
}
