package errors

import (
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
)

// timeoutErr implements net.Error with Timeout() == true.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", New("boom"), false},
		{"net timeout", timeoutErr{}, true},
		{"wrapped timeout", fmt.Errorf("read: %w", timeoutErr{}), true},
		{"op error timeout", &net.OpError{Op: "read", Err: timeoutErr{}}, true},
		{"eof", io.EOF, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTimeout(tt.err); got != tt.want {
				t.Errorf("IsTimeout(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", io.EOF, true},
		{"net closed", net.ErrClosed, true},
		{"reset", syscall.ECONNRESET, true},
		{"aborted", syscall.ECONNABORTED, true},
		{"wrapped reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, true},
		{"timeout", timeoutErr{}, false},
		{"plain", New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClosed(tt.err); got != tt.want {
				t.Errorf("IsClosed(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNetworkErrorFormat(t *testing.T) {
	ne := Wrap("write", "irc.example.net:6667", New("broken pipe"))
	want := "write irc.example.net:6667: broken pipe"
	if ne.Error() != want {
		t.Errorf("Error() = %q, want %q", ne.Error(), want)
	}

	retryable := Wrap("read", "x:1", timeoutErr{})
	if !retryable.Retryable {
		t.Error("timeout should be marked retryable")
	}
	if got := retryable.Error(); got != "read x:1: i/o timeout (retryable)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	inner := timeoutErr{}
	ne := Wrap("read", "x:1", inner)
	if !IsTimeout(ne) {
		t.Error("IsTimeout should see through NetworkError")
	}
	if Unwrap(ne) != error(inner) {
		t.Errorf("Unwrap = %v, want %v", Unwrap(ne), inner)
	}
}

func TestSSHErrorFormat(t *testing.T) {
	e := WrapSSH("handshake", "bastion", 22, New("auth failed"))
	if e.Error() != "ssh handshake bastion:22: auth failed" {
		t.Errorf("Error() = %q", e.Error())
	}
}
