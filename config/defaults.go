package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultPort is the standard plaintext IRC port.
	DefaultPort = 6667

	// DefaultSSHPort is the standard SSH port for tunnel gateways.
	DefaultSSHPort = 22

	// DefaultQuitReason is sent with QUIT on teardown.
	DefaultQuitReason = "Leaving"

	// ReadTimeout bounds each socket read.  Expiry is not an error;
	// it just means no data arrived yet.
	ReadTimeout = 30 * time.Second

	// WriteTimeout bounds each socket write.  Expiry here is a
	// send failure.
	WriteTimeout = 10 * time.Second

	// DefaultConnTimeout is the TCP/SSH connection timeout.
	DefaultConnTimeout = 30 * time.Second

	// FrameChunkSize is how many bytes the framer requests per read.
	// 512 matches the protocol's classic maximum line length.
	FrameChunkSize = 512

	// ReadRetryDelay is how long the receiver sleeps after a read
	// deadline expires before trying again.
	ReadRetryDelay = 100 * time.Millisecond

	// EventQueueSize is the capacity of the inbound event channel.
	EventQueueSize = 128

	// DefaultRetries is the number of initial connection attempts.
	DefaultRetries = 1

	// HistoryLimit caps the TUI chat scrollback.
	HistoryLimit = 1000
)
