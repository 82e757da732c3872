// Package config defines the runtime configuration for irconic and
// provides helpers for parsing server and tunnel specifications.
package config

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config holds every tuneable for a single irconic session.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Server  string
	Port    int
	Nick    string
	Channel string // optional channel to join right after registering
	Retries int    // initial connection attempts (1 = no retry)
	Timeout time.Duration

	// ── SSH tunnel ───────────────────────────────────────────────────
	TunnelSpec    string // raw [user@]host[:port] from -T
	TunnelEnabled bool
	TunnelUser    string
	TunnelHost    string
	TunnelPort    int
	SSHKeyPath    string
	SSHPassword   bool // true → prompt interactively

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
	LogFile string
}

// ── Server-spec parser ───────────────────────────────────────────────

// ParseServerSpec extracts host and port from a string such as
// "irc.libera.chat:6667".  A "/" separator is accepted as an alias for
// ":" and the port defaults to 6667 when absent.
func ParseServerSpec(spec string) (host string, port int, err error) {
	spec = strings.TrimSpace(strings.ReplaceAll(spec, "/", ":"))
	if spec == "" {
		return "", 0, fmt.Errorf("server address is required")
	}

	host = spec
	port = DefaultPort
	if i := strings.LastIndex(spec, ":"); i >= 0 {
		host = spec[:i]
		port, err = parsePort(spec[i+1:])
		if err != nil {
			return "", 0, err
		}
	}
	if host == "" {
		return "", 0, fmt.Errorf("server host is required")
	}
	return host, port, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = parsePort(m[3])
		if err != nil {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("tunnel host is required")
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// nickRe is deliberately loose: one printable word, no spaces, no
// leading ':' (which would break the wire format).
var nickRe = regexp.MustCompile(`^[^ :][^ ]*$`)

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("server is required (use --help for usage)")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.Nick == "" {
		return fmt.Errorf("nickname is required")
	}
	if !nickRe.MatchString(c.Nick) {
		return fmt.Errorf("invalid nickname %q", c.Nick)
	}
	if c.Channel != "" && strings.ContainsAny(c.Channel, " \r\n") {
		return fmt.Errorf("invalid channel %q", c.Channel)
	}
	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1")
	}
	if c.TunnelEnabled && c.TunnelHost == "" {
		return fmt.Errorf("tunnel host is required")
	}
	return nil
}

// Addr returns the "host:port" dial target.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server, strconv.Itoa(c.Port))
}
