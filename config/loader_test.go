package config

import "testing"

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IRCONIC_SERVER", "irc.example.net")
	t.Setenv("IRCONIC_PORT", "6697")
	t.Setenv("IRCONIC_NICK", "envbob")
	t.Setenv("IRCONIC_CHANNEL", "#go")
	t.Setenv("IRCONIC_SSH_PASSWORD", "yes")
	t.Setenv("IRCONIC_VERBOSE", "2")

	cfg := &Config{}
	LoadFromEnv(cfg)

	if cfg.Server != "irc.example.net" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.Port != 6697 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.Nick != "envbob" {
		t.Errorf("Nick = %q", cfg.Nick)
	}
	if cfg.Channel != "#go" {
		t.Errorf("Channel = %q", cfg.Channel)
	}
	if !cfg.SSHPassword {
		t.Error("SSHPassword should be true")
	}
	if cfg.Verbose != 2 {
		t.Errorf("Verbose = %d", cfg.Verbose)
	}
}

// TestLoadFromEnvKeepsExisting verifies unset env vars leave the
// existing values alone.
func TestLoadFromEnvKeepsExisting(t *testing.T) {
	t.Setenv("IRCONIC_SERVER", "")
	t.Setenv("IRCONIC_PORT", "")

	cfg := &Config{Server: "preset", Port: 1234}
	LoadFromEnv(cfg)

	if cfg.Server != "preset" || cfg.Port != 1234 {
		t.Errorf("config overwritten: %+v", cfg)
	}
}

func TestEnvIntGarbage(t *testing.T) {
	t.Setenv("IRCONIC_PORT", "not-a-number")

	cfg := &Config{Port: 6667}
	LoadFromEnv(cfg)

	if cfg.Port != 6667 {
		t.Errorf("garbage env int should be ignored, got %d", cfg.Port)
	}
}
