// Package irc implements the session engine for a line-oriented chat
// protocol: connection lifecycle, outbound command encoding, inbound
// framing, and the background receiver that decouples network reads
// from the caller.
package irc

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/Tanishkshk1/Irconic/config"
	ircerr "github.com/Tanishkshk1/Irconic/internal/errors"
	"github.com/Tanishkshk1/Irconic/internal/metrics"
	"github.com/Tanishkshk1/Irconic/internal/transport"
	"github.com/Tanishkshk1/Irconic/util"
)

// Session owns one logical connection to a chat server: the identity
// it registered, the server it is talking to, and the channel it is
// in.  It is the single source of truth for "am I connected, and to
// what".
//
// The caller issues outbound commands through Session methods; inbound
// traffic arrives on the event channel returned by StartReceiver.  The
// two sides share the socket without a lock on the data path: the
// receiver goroutine is the only reader, and net.Conn is duplex, so
// reads and writes never contend.
type Session struct {
	nick    string
	dialer  transport.Dialer
	logger  *util.Logger
	stats   *metrics.Collector
	timeout time.Duration // dial timeout

	mu             sync.Mutex // guards conn, server, currentChannel, done
	conn           net.Conn
	server         string
	currentChannel string
	done           chan struct{} // closed on disconnect; unblocks the receiver's enqueue

	closeOnce sync.Once
}

// New creates a Session for the given identity.  A nil dialer means
// plain TCP; a nil collector disables metrics.
func New(nick string, dialer transport.Dialer, logger *util.Logger, stats *metrics.Collector) *Session {
	if dialer == nil {
		dialer = &transport.TCPDialer{Timeout: config.DefaultConnTimeout}
	}
	if logger == nil {
		logger = util.NewLogger(0)
	}
	return &Session{
		nick:    nick,
		dialer:  dialer,
		logger:  logger,
		stats:   stats,
		timeout: config.DefaultConnTimeout,
	}
}

// ── accessors ────────────────────────────────────────────────────────

// Nick returns the identity this session registers with.
func (s *Session) Nick() string { return s.nick }

// Server returns the connected server, or "" when disconnected.
func (s *Session) Server() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server
}

// CurrentChannel returns the joined channel, or "" when not joined.
func (s *Session) CurrentChannel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentChannel
}

// Connected reports whether an open connection exists.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Stats exposes the session's metrics collector (may be nil).
func (s *Session) Stats() *metrics.Collector { return s.stats }

// ── lifecycle ────────────────────────────────────────────────────────

// Connect dials host:port and takes ownership of the new connection.
// An existing connection is first shut down with an orderly,
// best-effort disconnect.  On any failure the session stays fully
// disconnected — no partial handle is retained.
func (s *Session) Connect(ctx context.Context, host string, port int) error {
	if s.Connected() {
		s.Disconnect()
	}

	addr := util.FormatAddr(host, port)
	s.logger.Verbose("connecting to %s", addr)

	conn, err := s.dialer.Dial(ctx, "tcp", addr)
	if err != nil {
		return ircerr.Wrap("dial", addr, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.server = host
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.stats.Connected()
	s.logger.Verbose("connected to %s", conn.RemoteAddr())
	return nil
}

// Register sends the identity commands (NICK, then USER).  The USER
// command is only attempted after NICK was written successfully.
// Registration success is not verified here; the consumer infers it
// from subsequent server text.
func (s *Session) Register() error {
	if err := s.SendRaw(nickCmd(s.nick)); err != nil {
		return err
	}
	return s.SendRaw(userCmd(s.nick))
}

// Join enters a channel.  The channel is recorded as current as soon
// as the command is on the wire — the server may still refuse the
// join, and the consumer learns that only from inbound text.
func (s *Session) Join(channel string) error {
	if err := s.SendRaw(joinCmd(channel)); err != nil {
		return err
	}
	s.mu.Lock()
	s.currentChannel = channel
	s.mu.Unlock()
	return nil
}

// SendMessage sends text to a channel or nick.  No sanitization of
// embedded line terminators is performed; see the codec notes.
func (s *Session) SendMessage(target, text string) error {
	return s.SendRaw(privmsgCmd(target, text))
}

// SendRaw is the single write path used by every outbound operation.
// It appends the line terminator and performs one bounded write.
func (s *Session) SendRaw(line string) error {
	s.mu.Lock()
	conn := s.conn
	server := s.server
	s.mu.Unlock()

	if conn == nil {
		return ircerr.ErrNotConnected
	}
	return s.writeLine(conn, server, line)
}

// Quit announces departure.  The write itself is best-effort: a QUIT
// that fails to send is not actionable, so only the not-connected
// case is reported.  Quit does not alter any other session state.
func (s *Session) Quit() error {
	s.mu.Lock()
	conn := s.conn
	server := s.server
	s.mu.Unlock()

	if conn == nil {
		return ircerr.ErrNotConnected
	}
	_ = s.writeLine(conn, server, quitCmd(config.DefaultQuitReason))
	return nil
}

// Disconnect sends a best-effort QUIT, drops the connection, and
// clears the channel membership.  Safe to call when already
// disconnected.
func (s *Session) Disconnect() {
	_ = s.Quit()

	s.mu.Lock()
	conn := s.conn
	done := s.done
	s.conn = nil
	s.server = ""
	s.currentChannel = ""
	s.done = nil
	s.mu.Unlock()

	if done != nil {
		close(done)
	}
	if conn != nil {
		conn.Close()
		s.logger.Verbose("disconnected")
	}
}

// Close performs the orderly teardown exactly once and releases the
// dialer.  It is the scoped-cleanup path: defer it right after New so
// every exit attempts a best-effort QUIT.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.Disconnect()
		s.dialer.Close()
	})
	return nil
}

// ── write path ───────────────────────────────────────────────────────

// writeLine writes one terminated line to conn under the write
// deadline.  net.Conn has no userspace buffering, so a successful
// write is already flushed.
func (s *Session) writeLine(conn net.Conn, addr, line string) error {
	payload := []byte(line + lineTerminator)

	if err := conn.SetWriteDeadline(time.Now().Add(config.WriteTimeout)); err != nil {
		return ircerr.Wrap("write", addr, err)
	}
	if _, err := conn.Write(payload); err != nil {
		s.stats.RecordError(err.Error())
		return ircerr.Wrap("write", addr, err)
	}

	s.stats.CommandSent(int64(len(payload)))
	s.logger.Debug("TX: %s", line)
	return nil
}
