// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package transport

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"code.cloudfoundry.org/clock"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/net/proxy"

	"go.openharmony.org/ohdriver/internal/errors"
	"go.openharmony.org/ohdriver/internal/logging"
)

const (
	defaultSSHUser = "root"
	defaultSSHPort = 22
)

// targetRegexp is used to parse targets passed to ParseTarget.
var targetRegexp = regexp.MustCompile("^([^@]+@)?([^@]+)$")

// SSHOptions contains options used when connecting to a device over SSH.
type SSHOptions struct {
	// User is the username to use when connecting.
	User string
	// Hostname is the SSH server's "host:port".
	Hostname string

	// KeyFile is an optional path to an unencrypted SSH private key.
	KeyFile string
	// KeyDir is an optional path to a directory (typically $HOME/.ssh)
	// containing standard SSH keys to use if KeyFile is not accepted.
	KeyDir string

	// ConnectTimeout contains a timeout for establishing the TCP connection.
	ConnectTimeout time.Duration
	// ConnectRetries contains the number of times to retry after a connection failure.
	ConnectRetries int
	// ConnectRetryInterval contains the minimum amount of time between connection attempts.
	ConnectRetryInterval time.Duration

	// Clock is used for retries and invocation timeouts. Defaults to the real clock.
	Clock clock.Clock
}

// ParseTarget parses target (of the form "[<user>@]host[:<port>]") and fills
// the User and Hostname fields in o, using defaults for unspecified values.
func ParseTarget(target string, o *SSHOptions) error {
	m := targetRegexp.FindStringSubmatch(target)
	if m == nil {
		return errors.Errorf("couldn't parse %q as \"[user@]hostname[:port]\"", target)
	}

	o.User = defaultSSHUser
	if m[1] != "" {
		o.User = m[1][0 : len(m[1])-1]
	}

	if _, _, err := net.SplitHostPort(m[2]); err != nil {
		o.Hostname = net.JoinHostPort(m[2], strconv.Itoa(defaultSSHPort))
	} else {
		o.Hostname = m[2]
	}
	return nil
}

// authMethods returns authentication methods to use when connecting.
func authMethods(ctx context.Context, o *SSHOptions) ([]ssh.AuthMethod, error) {
	var signers []ssh.Signer
	if o.KeyFile != "" {
		s, err := readPrivateKey(o.KeyFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read private key %s", o.KeyFile)
		}
		signers = append(signers, s)
	}
	if o.KeyDir != "" {
		for _, fn := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
			p := filepath.Join(o.KeyDir, fn)
			if p == o.KeyFile {
				continue
			} else if _, err := os.Stat(p); os.IsNotExist(err) {
				continue
			}
			s, err := readPrivateKey(p)
			if err != nil {
				logging.Infof(ctx, "Failed to read %v: %v", p, err)
				continue
			}
			signers = append(signers, s)
		}
	}

	var methods []ssh.AuthMethod
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}
	if s := os.Getenv("SSH_AUTH_SOCK"); s != "" {
		if a, err := net.Dial("unix", s); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(a).Signers))
		} else {
			logging.Infof(ctx, "Failed to connect to ssh-agent at %v: %v", s, err)
		}
	}
	return methods, nil
}

// readPrivateKey reads and decodes a passphraseless private SSH key from path.
func readPrivateKey(path string) (ssh.Signer, error) {
	k, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(k)
}

// SSH is a Transport running commands on a device reachable over SSH.
type SSH struct {
	cl    *ssh.Client
	clock clock.Clock
}

var _ Transport = &SSH{}

// DialSSH establishes an SSH connection to the device described in o.
// Callers are responsible to call SSH.Close after using it.
func DialSSH(ctx context.Context, o *SSHOptions) (*SSH, error) {
	if o.User == "" {
		o.User = defaultSSHUser
	}
	clk := o.Clock
	if clk == nil {
		clk = clock.NewClock()
	}

	am, err := authMethods(ctx, o)
	if err != nil {
		return nil, err
	}
	cfg := &ssh.ClientConfig{
		User:            o.User,
		Auth:            am,
		Timeout:         o.ConnectTimeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	for i := 0; i < o.ConnectRetries+1; i++ {
		start := clk.Now()
		var cl *ssh.Client
		if cl, err = connectSSH(ctx, o.Hostname, cfg); err == nil {
			return &SSH{cl: cl, clock: clk}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if i < o.ConnectRetries {
			elapsed := clk.Since(start)
			if remaining := o.ConnectRetryInterval - elapsed; remaining > 0 {
				logging.Infof(ctx, "Retrying SSH connection in %v: %v", remaining.Round(time.Millisecond), err)
				select {
				case <-clk.After(remaining):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			} else {
				logging.Infof(ctx, "Retrying SSH connection: %v", err)
			}
		}
	}
	return nil, newUnresponsiveError(err, "failed to connect to %s", o.Hostname)
}

// connectSSH attempts to synchronously connect to hostPort as directed by cfg.
func connectSSH(ctx context.Context, hostPort string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	var cl *ssh.Client
	if err := doAsync(ctx, func() error {
		conn, err := proxy.FromEnvironment().Dial("tcp", hostPort)
		if err != nil {
			return err
		}
		c, chans, reqs, err := ssh.NewClientConn(conn, hostPort, cfg)
		if err != nil {
			conn.Close()
			return err
		}
		cl = ssh.NewClient(c, chans, reqs)
		return nil
	}, func() {
		if cl != nil {
			cl.Conn.Close()
		}
	}); err != nil {
		return nil, err
	}
	return cl, nil
}

// Invoke runs command in a new SSH session. See Transport.Invoke.
func (s *SSH) Invoke(ctx context.Context, command string, timeout time.Duration, sink io.Writer) error {
	ctx, cancel := withTimeout(ctx, s.clock, timeout)
	defer cancel()

	sess, err := s.cl.NewSession()
	if err != nil {
		return newUnresponsiveError(err, "failed to open session")
	}
	defer sess.Close()

	sess.Stdout = sink
	stderr, err := sess.StderrPipe()
	if err != nil {
		return err
	}
	go logLines(ctx, "ssh stderr: ", stderr)

	logging.Debugf(ctx, "Running over SSH: %s", command)
	if err := sess.Start(command); err != nil {
		return newUnresponsiveError(err, "failed to start command")
	}

	err = doAsync(ctx, sess.Wait, func() {
		sess.Signal(ssh.SIGKILL)
		sess.Close()
	})
	var exitErr *ssh.ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		// Test harnesses exit non-zero on test failures; the output tells
		// the rest.
		logging.Debugf(ctx, "Command exited with status %d", exitErr.ExitStatus())
		return nil
	case errors.Is(err, ErrUnresponsive), ctx.Err() != nil:
		return err
	default:
		return newUnresponsiveError(err, "session failed")
	}
}

// StartLogCapture runs "hilog" in a separate session. See
// Transport.StartLogCapture.
func (s *SSH) StartLogCapture(ctx context.Context, w io.Writer) (LogCapture, error) {
	sess, err := s.cl.NewSession()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session for log capture")
	}
	sess.Stdout = w
	if err := sess.Start("hilog"); err != nil {
		sess.Close()
		return nil, errors.Wrap(err, "failed to start log capture")
	}
	return &sshLogCapture{sess: sess, clock: s.clock}, nil
}

// Close closes the underlying connection to the device.
func (s *SSH) Close(ctx context.Context) error {
	return doAsync(ctx, func() error { return s.cl.Conn.Close() }, nil)
}

// logStopGrace bounds how long a log capture may keep running after SIGTERM.
const logStopGrace = 5 * time.Second

type sshLogCapture struct {
	sess  *ssh.Session
	clock clock.Clock
}

func (c *sshLogCapture) Stop(ctx context.Context) error {
	c.sess.Signal(ssh.SIGTERM)

	done := make(chan struct{})
	go func() {
		// Wait returns after stdout is fully copied. The exit status of
		// hilog does not matter.
		c.sess.Wait()
		close(done)
	}()

	timer := c.clock.NewTimer(logStopGrace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C():
		logging.Debug(ctx, "hilog ignored SIGTERM; closing its session")
	case <-ctx.Done():
	}

	// Closing ends the output of a hilog that is still running.
	err := c.sess.Close()
	<-done
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "failed to stop log capture")
	}
	return nil
}
