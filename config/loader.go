package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the IRCONIC_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("IRCONIC_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := envInt("IRCONIC_PORT"); v > 0 {
		cfg.Port = v
	}
	if v := os.Getenv("IRCONIC_NICK"); v != "" {
		cfg.Nick = v
	}
	if v := os.Getenv("IRCONIC_CHANNEL"); v != "" {
		cfg.Channel = v
	}
	if v := envInt("IRCONIC_RETRIES"); v > 0 {
		cfg.Retries = v
	}

	// SSH tunnel
	if v := os.Getenv("IRCONIC_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("IRCONIC_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("IRCONIC_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}

	// Output
	if v := envInt("IRCONIC_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if v := os.Getenv("IRCONIC_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
