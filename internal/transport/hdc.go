// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package transport

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"syscall"
	"time"

	"code.cloudfoundry.org/clock"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/logging"
)

// HDCOptions contains options for NewHDC.
type HDCOptions struct {
	// Path is the hdc executable. Defaults to "hdc" looked up in $PATH.
	Path string
	// Serial selects the device ("hdc -t <serial>"). It may be empty if only
	// one device is connected.
	Serial string
	// Clock is used for invocation timeouts. Defaults to the real clock.
	Clock clock.Clock
}

// HDC is a Transport running commands with the OpenHarmony Device Connector.
type HDC struct {
	path   string
	serial string
	clock  clock.Clock
}

var _ Transport = &HDC{}

// NewHDC returns a new HDC transport.
func NewHDC(o *HDCOptions) *HDC {
	h := &HDC{path: o.Path, serial: o.Serial, clock: o.Clock}
	if h.path == "" {
		h.path = "hdc"
	}
	if h.clock == nil {
		h.clock = clock.NewClock()
	}
	return h
}

func (h *HDC) command(shellCmd string) *exec.Cmd {
	var args []string
	if h.serial != "" {
		args = append(args, "-t", h.serial)
	}
	args = append(args, "shell", shellCmd)
	cmd := exec.Command(h.path, args...)
	// Run in a new session so that the whole process tree can be killed.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd
}

// Invoke runs command with "hdc shell". See Transport.Invoke.
func (h *HDC) Invoke(ctx context.Context, command string, timeout time.Duration, sink io.Writer) error {
	ctx, cancel := withTimeout(ctx, h.clock, timeout)
	defer cancel()

	logging.Debugf(ctx, "Running: %s shell %q", h.path, command)
	cmd := h.command(command)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return newUnresponsiveError(err, "failed to start %s", h.path)
	}

	exited := make(chan struct{})
	defer close(exited)
	go func() {
		select {
		case <-ctx.Done():
			killSession(cmd.Process.Pid, unix.SIGKILL)
		case <-exited:
		}
	}()

	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(sink, stdout)
		return err
	})
	g.Go(func() error {
		return logLines(ctx, "hdc stderr: ", stderr)
	})
	copyErr := g.Wait()
	waitErr := cmd.Wait()

	// A clean exit means the command completed, even if the deadline passed
	// while the result was being collected.
	if waitErr == nil && copyErr == nil {
		return nil
	}
	if ctx.Err() != nil {
		return abortError(ctx)
	}
	if waitErr != nil {
		// hdc exits non-zero only for host-side and connection failures.
		return newUnresponsiveError(waitErr, "%s failed", h.path)
	}
	return errors.Wrap(copyErr, "failed to copy output")
}

// StartLogCapture runs "hilog" on the device. See Transport.StartLogCapture.
func (h *HDC) StartLogCapture(ctx context.Context, w io.Writer) (LogCapture, error) {
	cmd := h.command("hilog")
	cmd.Stdout = w
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "failed to start log capture")
	}
	logging.Debugf(ctx, "Started log capture (pid %d)", cmd.Process.Pid)
	return &hdcLogCapture{cmd: cmd}, nil
}

// Close does nothing; hdc keeps no state between invocations.
func (h *HDC) Close(ctx context.Context) error {
	return nil
}

type hdcLogCapture struct {
	cmd *exec.Cmd
}

func (c *hdcLogCapture) Stop(ctx context.Context) error {
	killSession(c.cmd.Process.Pid, unix.SIGKILL)
	// Wait reports the kill; the capture has no other way to end.
	c.cmd.Wait()
	return nil
}

// logLines emits each line read from r as a debug log until r is exhausted.
func logLines(ctx context.Context, prefix string, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		logging.Debug(ctx, prefix+sc.Text())
	}
	return sc.Err()
}
