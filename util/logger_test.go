package util

import (
	"bytes"
	"strings"
	"testing"
)

// TestLoggerLevels verifies that each level only prints at or above
// its verbosity threshold.
func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		wantInfo  bool
		wantVerb  bool
		wantDebug bool
	}{
		{0, false, false, false},
		{1, true, false, false},
		{2, true, true, false},
		{3, true, true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		l := NewLogger(tt.verbosity)
		l.SetOutput(&buf)
		l.SetTimestamps(false)

		l.Info("info line")
		l.Verbose("verbose line")
		l.Debug("debug line")

		out := buf.String()
		if got := strings.Contains(out, "info line"); got != tt.wantInfo {
			t.Errorf("verbosity %d: info printed = %v, want %v", tt.verbosity, got, tt.wantInfo)
		}
		if got := strings.Contains(out, "verbose line"); got != tt.wantVerb {
			t.Errorf("verbosity %d: verbose printed = %v, want %v", tt.verbosity, got, tt.wantVerb)
		}
		if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
			t.Errorf("verbosity %d: debug printed = %v, want %v", tt.verbosity, got, tt.wantDebug)
		}
	}
}

// TestLoggerErrorAlwaysPrints verifies Error ignores the verbosity level.
func TestLoggerErrorAlwaysPrints(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(0)
	l.SetOutput(&buf)

	l.Error("boom: %d", 42)

	if !strings.Contains(buf.String(), "[ERR] boom: 42") {
		t.Errorf("error output missing, got %q", buf.String())
	}
}

// TestLoggerPrefixes checks the level tags.
func TestLoggerPrefixes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(3)
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Info("a")
	l.Warn("b")
	l.Verbose("c")
	l.Debug("d")

	out := buf.String()
	for _, tag := range []string{"[INF] a", "[WRN] b", "[VRB] c", "[DBG] d"} {
		if !strings.Contains(out, tag) {
			t.Errorf("output missing %q:\n%s", tag, out)
		}
	}
}

func TestFormatAddr(t *testing.T) {
	if got := FormatAddr("irc.libera.chat", 6667); got != "irc.libera.chat:6667" {
		t.Errorf("FormatAddr = %q", got)
	}
	// IPv6 literals must be bracketed.
	if got := FormatAddr("::1", 6667); got != "[::1]:6667" {
		t.Errorf("FormatAddr v6 = %q", got)
	}
}
