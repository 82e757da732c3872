package transport

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/term"

	ircerr "github.com/Tanishkshk1/Irconic/internal/errors"
	"github.com/Tanishkshk1/Irconic/util"
)

// SSHConfig holds everything needed to dial an SSH gateway.
type SSHConfig struct {
	User        string
	Host        string
	Port        int
	KeyPath     string
	PromptPass  bool
	ConnTimeout time.Duration
}

// SSHDialer implements [Dialer] by opening an SSH connection to a
// gateway host and forwarding the chat connection with
// ssh.Client.Dial.  Connect must be called before Dial.
type SSHDialer struct {
	config *SSHConfig
	logger *util.Logger
	mu     sync.RWMutex
	client *ssh.Client
}

// NewSSHDialer creates a dialer that is ready to [Connect].
func NewSSHDialer(cfg *SSHConfig, logger *util.Logger) *SSHDialer {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 30 * time.Second
	}
	return &SSHDialer{config: cfg, logger: logger}
}

// Connect dials the SSH gateway and completes the handshake.
func (d *SSHDialer) Connect(ctx context.Context) error {
	authMethods, err := buildAuthMethods(d.config)
	if err != nil {
		return ircerr.WrapSSH("auth", d.config.Host, d.config.Port, err)
	}

	sshCfg := &ssh.ClientConfig{
		User: d.config.User,
		Auth: authMethods,
		// Host key pinning is out of scope for a chat hop; the
		// tunnel only carries plaintext IRC anyway.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         d.config.ConnTimeout,
	}

	addr := util.FormatAddr(d.config.Host, d.config.Port)
	d.logger.Debug("SSH: dialing %s as %s", addr, d.config.User)

	// Use a context-aware TCP dial so callers can cancel.
	var dialer net.Dialer
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return ircerr.Wrap("dial", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, sshCfg)
	if err != nil {
		tcpConn.Close()
		return ircerr.WrapSSH("handshake", d.config.Host, d.config.Port, err)
	}

	d.mu.Lock()
	d.client = ssh.NewClient(sshConn, chans, reqs)
	d.mu.Unlock()

	return nil
}

// Dial forwards a connection to address through the gateway.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	d.mu.RLock()
	client := d.client
	d.mu.RUnlock()

	if client == nil {
		return nil, ircerr.ErrNotConnected
	}

	d.logger.Debug("tunnel: dialing %s %s", network, address)
	conn, err := client.Dial(network, address)
	if err != nil {
		return nil, fmt.Errorf("tunnel dial %s: %w", address, err)
	}
	return tunnelConn{conn}, nil
}

// tunnelConn wraps a forwarded SSH channel so deadline arming is a
// no-op.  The channel conns returned by ssh.Client.Dial reject
// SetDeadline outright, and the session arms a deadline before every
// read and write; without the wrapper the first operation over the
// tunnel fails before touching the wire.  A blocked read over the
// tunnel unblocks when the conn is closed instead of on a deadline.
type tunnelConn struct {
	net.Conn
}

func (tunnelConn) SetDeadline(time.Time) error      { return nil }
func (tunnelConn) SetReadDeadline(time.Time) error  { return nil }
func (tunnelConn) SetWriteDeadline(time.Time) error { return nil }

// Close shuts down the SSH connection.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil {
		err := d.client.Close()
		d.client = nil
		return err
	}
	return nil
}

// ── auth builders ────────────────────────────────────────────────────

// buildAuthMethods assembles an ordered list of SSH authentication
// methods from the dialer configuration.
func buildAuthMethods(cfg *SSHConfig) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	// 1. Explicit key file
	if cfg.KeyPath != "" {
		m, err := publicKeyAuth(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", cfg.KeyPath, err)
		}
		methods = append(methods, m)
	}

	// 2. Interactive password
	if cfg.PromptPass {
		m, err := passwordAuth()
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	// 3. Fallback: common key files.
	if len(methods) == 0 {
		methods = defaultKeyAuth()
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf(
			"no SSH authentication methods available – " +
				"use --ssh-key or --ssh-password")
	}
	return methods, nil
}

func publicKeyAuth(keyPath string) (ssh.AuthMethod, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		// If the key is encrypted, prompt for the passphrase.
		if _, ok := err.(*ssh.PassphraseMissingError); ok {
			fmt.Fprintf(os.Stderr, "Enter passphrase for %s: ", keyPath)
			pass, err2 := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err2 != nil {
				return nil, fmt.Errorf("reading passphrase: %w", err2)
			}
			signer, err = ssh.ParsePrivateKeyWithPassphrase(data, pass)
			if err != nil {
				return nil, fmt.Errorf("decrypting key: %w", err)
			}
		} else {
			return nil, fmt.Errorf("parsing key: %w", err)
		}
	}
	return ssh.PublicKeys(signer), nil
}

func passwordAuth() (ssh.AuthMethod, error) {
	fmt.Fprint(os.Stderr, "SSH password: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return ssh.Password(string(pass)), nil
}

// defaultKeyAuth tries the three most common key file names without
// any explicit user configuration.
func defaultKeyAuth() []ssh.AuthMethod {
	var out []ssh.AuthMethod

	home, err := os.UserHomeDir()
	if err != nil {
		return out
	}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		p := filepath.Join(home, ".ssh", name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if m, err := publicKeyAuth(p); err == nil {
			out = append(out, m)
		}
	}
	return out
}
