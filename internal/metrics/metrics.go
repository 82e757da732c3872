// Package metrics provides lightweight counters for tracking runtime
// statistics of a chat session.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for one session.
// A nil Collector is safe to use — all methods become no-ops.
type Collector struct {
	linesReceived  atomic.Int64
	probesAnswered atomic.Int64
	commandsSent   atomic.Int64
	bytesIn        atomic.Int64
	bytesOut       atomic.Int64
	errorsTotal    atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	connectedAt  time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Connection ───────────────────────────────────────────────────────

// Connected records the moment the session dial succeeded.
func (c *Collector) Connected() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.connectedAt = time.Now()
	c.mu.Unlock()
}

// ── Inbound ──────────────────────────────────────────────────────────

// LineReceived records one framed line and its size in bytes.
func (c *Collector) LineReceived(n int64) {
	if c == nil {
		return
	}
	c.linesReceived.Add(1)
	c.bytesIn.Add(n)
}

// ProbeAnswered records one keep-alive probe answered with a reply.
func (c *Collector) ProbeAnswered() {
	if c == nil {
		return
	}
	c.probesAnswered.Add(1)
}

// LinesReceived returns the total framed-line count.
func (c *Collector) LinesReceived() int64 {
	if c == nil {
		return 0
	}
	return c.linesReceived.Load()
}

// ProbesAnswered returns the keep-alive reply count.
func (c *Collector) ProbesAnswered() int64 {
	if c == nil {
		return 0
	}
	return c.probesAnswered.Load()
}

// ── Outbound ─────────────────────────────────────────────────────────

// CommandSent records one outbound protocol command of n bytes.
func (c *Collector) CommandSent(n int64) {
	if c == nil {
		return
	}
	c.commandsSent.Add(1)
	c.bytesOut.Add(n)
}

// CommandsSent returns the lifetime outbound command count.
func (c *Collector) CommandsSent() int64 {
	if c == nil {
		return 0
	}
	return c.commandsSent.Load()
}

// TotalBytesIn returns total bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// TotalBytesOut returns total bytes sent.
func (c *Collector) TotalBytesOut() int64 {
	if c == nil {
		return 0
	}
	return c.bytesOut.Load()
}

// ── Errors ───────────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	ConnectedFor     string `json:"connected_for,omitempty"`
	LinesReceived    int64  `json:"lines_received"`
	ProbesAnswered   int64  `json:"probes_answered"`
	CommandsSent     int64  `json:"commands_sent"`
	BytesIn          int64  `json:"bytes_in"`
	BytesOut         int64  `json:"bytes_out"`
	ErrorsTotal      int64  `json:"errors_total"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:         time.Since(c.startTime).Truncate(time.Second).String(),
		LinesReceived:  c.linesReceived.Load(),
		ProbesAnswered: c.probesAnswered.Load(),
		CommandsSent:   c.commandsSent.Load(),
		BytesIn:        c.bytesIn.Load(),
		BytesOut:       c.bytesOut.Load(),
		ErrorsTotal:    c.errorsTotal.Load(),
	}
	if !c.connectedAt.IsZero() {
		s.ConnectedFor = time.Since(c.connectedAt).Truncate(time.Second).String()
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
