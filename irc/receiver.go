package irc

import (
	"net"
	"time"

	"github.com/Tanishkshk1/Irconic/config"
	ircerr "github.com/Tanishkshk1/Irconic/internal/errors"
)

// receiver.go - the background loop that pumps inbound lines.
//
// Exactly one receiver goroutine runs per connection.  It is the only
// reader of the socket; keep-alive replies go out on its own write
// path, so the caller's command writes never synchronize with it.

// StartReceiver spawns the background receiver and returns the event
// channel it feeds.  The channel is closed when the loop ends, which
// happens on stream closure, a fatal read error, or Disconnect.
//
// Events are plain strings: ordinary lines verbatim, keep-alive probes
// prefixed with ProbeEventPrefix, directed service notices prefixed
// with ServiceEventPrefix, and a final ClosedEvent.
func (s *Session) StartReceiver() (<-chan string, error) {
	s.mu.Lock()
	conn := s.conn
	server := s.server
	done := s.done
	s.mu.Unlock()

	if conn == nil {
		return nil, ircerr.ErrNotConnected
	}

	events := make(chan string, config.EventQueueSize)
	go s.receiverLoop(conn, server, events, done)
	return events, nil
}

// receiverLoop drains the framer until the connection dies.  All
// parameters are captured here so a later reconnect cannot swap the
// loop onto a different socket.
func (s *Session) receiverLoop(conn net.Conn, server string, events chan<- string, done <-chan struct{}) {
	defer close(events)

	framer := NewFramer(&deadlineReader{conn: conn, timeout: config.ReadTimeout})

	for {
		line, err := framer.Next()
		if err != nil {
			switch {
			case ircerr.IsTimeout(err):
				// No data yet.  Back off briefly instead of
				// spinning on the expired deadline.
				time.Sleep(config.ReadRetryDelay)
				continue
			case ircerr.IsClosed(err):
				s.logger.Verbose("receiver: connection closed")
			default:
				s.logger.Error("receiver: %v", err)
				s.stats.RecordError(err.Error())
				s.forward(events, done, "Error reading from server: "+err.Error())
			}
			s.forward(events, done, ClosedEvent)
			return
		}

		s.stats.LineReceived(int64(len(line)) + 2)
		s.logger.Debug("RX: %s", line)

		if !s.processLine(conn, server, events, done, line) {
			return
		}
	}
}

// processLine classifies one inbound line and forwards the resulting
// event.  Returns false when the consumer is gone.
func (s *Session) processLine(conn net.Conn, server string, events chan<- string, done <-chan struct{}, line string) bool {
	switch classifyLine(line, s.nick) {
	case classProbe:
		// Answer immediately on our own write path; the consumer
		// still sees the probe, annotated.
		if err := s.writeLine(conn, server, probeReply(line)); err != nil {
			return s.forward(events, done, "Failed to send PONG: "+err.Error())
		}
		s.stats.ProbeAnswered()
		return s.forward(events, done, ProbeEventPrefix+line)

	case classService:
		return s.forward(events, done, ServiceEventPrefix+line)

	default:
		return s.forward(events, done, line)
	}
}

// forward enqueues one processed event.  When the consumer has
// disconnected the session, the enqueue aborts and the loop ends —
// there is no point producing further events.
func (s *Session) forward(events chan<- string, done <-chan struct{}, ev string) bool {
	select {
	case events <- ev:
		return true
	case <-done:
		return false
	}
}

// deadlineReader arms the read deadline before every read so a silent
// server surfaces as a timeout instead of hanging the receiver
// forever.  Deadline expiry is not fatal; the loop retries.
type deadlineReader struct {
	conn    net.Conn
	timeout time.Duration
}

func (r *deadlineReader) Read(p []byte) (int, error) {
	if err := r.conn.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
		return 0, err
	}
	return r.conn.Read(p)
}
