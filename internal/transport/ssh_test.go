// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package transport_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/logging/loggingtest"
	"go.openharmony.org/ohdriver/internal/transport"
)

func TestParseTarget(t *testing.T) {
	for _, tc := range []struct {
		target       string
		wantUser     string
		wantHostname string
		wantErr      bool
	}{
		{target: "dut", wantUser: "root", wantHostname: "dut:22"},
		{target: "me@dut", wantUser: "me", wantHostname: "dut:22"},
		{target: "dut:2222", wantUser: "root", wantHostname: "dut:2222"},
		{target: "me@[::1]:2222", wantUser: "me", wantHostname: "[::1]:2222"},
		{target: "a@b@c", wantErr: true},
	} {
		var o transport.SSHOptions
		err := transport.ParseTarget(tc.target, &o)
		if tc.wantErr {
			require.Error(t, err, tc.target)
			continue
		}
		require.NoError(t, err, tc.target)
		require.Equal(t, tc.wantUser, o.User, tc.target)
		require.Equal(t, tc.wantHostname, o.Hostname, tc.target)
	}
}

// sshHandler runs a command on the fake server. If hang is true the session
// is left open without an exit status.
type sshHandler func(cmd string, stdout io.Writer) (status uint32, hang bool)

// startSSHServer starts an SSH server accepting any client and returns its
// address.
func startSSHServer(t *testing.T, handle sshHandler) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)
	cfg := &ssh.ServerConfig{NoClientAuth: true}
	cfg.AddHostKey(signer)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { lis.Close() })

	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			go serveSSH(conn, cfg, handle)
		}
	}()
	return lis.Addr().String()
}

func serveSSH(conn net.Conn, cfg *ssh.ServerConfig, handle sshHandler) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqs)
	for nc := range chans {
		if nc.ChannelType() != "session" {
			nc.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		ch, creqs, err := nc.Accept()
		if err != nil {
			continue
		}
		go func() {
			for req := range creqs {
				if req.Type != "exec" {
					if req.WantReply {
						req.Reply(false, nil)
					}
					continue
				}
				var payload struct{ Command string }
				if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
					req.Reply(false, nil)
					continue
				}
				req.Reply(true, nil)
				go func() {
					status, hang := handle(payload.Command, ch)
					if hang {
						return
					}
					ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
					ch.Close()
				}()
			}
		}()
	}
}

func dialTestServer(t *testing.T, addr string, clk *fakeclock.FakeClock) *transport.SSH {
	t.Helper()
	t.Setenv("SSH_AUTH_SOCK", "")
	t.Setenv("ALL_PROXY", "")
	ctx, _ := loggingtest.Context(t)

	o := &transport.SSHOptions{ConnectTimeout: 10 * time.Second}
	require.NoError(t, transport.ParseTarget(addr, o))
	if clk != nil {
		o.Clock = clk
	}
	s, err := transport.DialSSH(ctx, o)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(ctx) })
	return s
}

func TestSSHInvoke(t *testing.T) {
	addr := startSSHServer(t, func(cmd string, stdout io.Writer) (uint32, bool) {
		io.WriteString(stdout, "ran: "+cmd+"\n")
		if strings.HasPrefix(cmd, "fail") {
			return 1, false
		}
		return 0, false
	})
	s := dialTestServer(t, addr, nil)
	ctx, _ := loggingtest.Context(t)

	var out bytes.Buffer
	require.NoError(t, s.Invoke(ctx, "aa test -m entry", time.Minute, &out))
	require.Equal(t, "ran: aa test -m entry\n", out.String())

	// A non-zero exit status is not a transport failure.
	out.Reset()
	require.NoError(t, s.Invoke(ctx, "fail now", time.Minute, &out))
	require.Equal(t, "ran: fail now\n", out.String())
}

func TestSSHInvokeTimeout(t *testing.T) {
	addr := startSSHServer(t, func(cmd string, stdout io.Writer) (uint32, bool) {
		io.WriteString(stdout, "partial\n")
		return 0, true
	})
	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	s := dialTestServer(t, addr, clk)
	ctx, _ := loggingtest.Context(t)

	const timeout = 10 * time.Second
	go clk.WaitForWatcherAndIncrement(timeout)

	err := s.Invoke(ctx, "hang", timeout, io.Discard)
	require.True(t, errors.Is(err, transport.ErrUnresponsive), "got %v", err)
}

func TestDialSSHFailure(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	t.Setenv("ALL_PROXY", "")
	ctx, _ := loggingtest.Context(t)

	// Grab a free port and close it so that connections are refused.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	lis.Close()

	o := &transport.SSHOptions{ConnectTimeout: time.Second, ConnectRetries: 1}
	require.NoError(t, transport.ParseTarget(addr, o))
	_, err = transport.DialSSH(ctx, o)
	require.True(t, errors.Is(err, transport.ErrUnresponsive), "got %v", err)
}

func TestSSHLogCaptureStop(t *testing.T) {
	const lines = "line 1\nline 2\nline 3\n"
	addr := startSSHServer(t, func(cmd string, stdout io.Writer) (uint32, bool) {
		io.WriteString(stdout, lines)
		return 0, false
	})
	s := dialTestServer(t, addr, nil)
	ctx, _ := loggingtest.Context(t)

	var out bytes.Buffer
	capture, err := s.StartLogCapture(ctx, &out)
	require.NoError(t, err)
	require.NoError(t, capture.Stop(ctx))
	// Stop returns only after the whole log has been written.
	require.Equal(t, lines, out.String())
}

func TestSSHLogCaptureStopIgnoredSignal(t *testing.T) {
	addr := startSSHServer(t, func(cmd string, stdout io.Writer) (uint32, bool) {
		io.WriteString(stdout, "tail\n")
		return 0, true
	})
	s := dialTestServer(t, addr, nil)
	ctx, _ := loggingtest.Context(t)

	capture, err := s.StartLogCapture(ctx, io.Discard)
	require.NoError(t, err)

	stopCtx, cancel := context.WithCancel(ctx)
	cancel()
	require.NoError(t, capture.Stop(stopCtx))
}
