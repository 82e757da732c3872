package irc

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	ircerr "github.com/Tanishkshk1/Irconic/internal/errors"
	"github.com/Tanishkshk1/Irconic/internal/metrics"
	"github.com/Tanishkshk1/Irconic/util"
)

const testWait = 2 * time.Second

// testServer is a scripted loopback peer: it accepts one connection,
// pumps inbound lines onto a channel, and writes whatever the test
// tells it to.
type testServer struct {
	t     *testing.T
	ln    net.Listener
	conns chan net.Conn
	conn  net.Conn
	lines chan string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ts := &testServer{
		t:     t,
		ln:    ln,
		conns: make(chan net.Conn, 4),
		lines: make(chan string, 64),
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			ts.conns <- conn
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		if ts.conn != nil {
			ts.conn.Close()
		}
	})
	return ts
}

func (ts *testServer) port() int {
	return ts.ln.Addr().(*net.TCPAddr).Port
}

// acceptConn waits for the next inbound connection and starts pumping
// its lines.
func (ts *testServer) acceptConn() {
	ts.t.Helper()
	select {
	case conn := <-ts.conns:
		ts.conn = conn
		go func() {
			sc := bufio.NewScanner(conn)
			for sc.Scan() {
				ts.lines <- strings.TrimSuffix(sc.Text(), "\r")
			}
		}()
	case <-time.After(testWait):
		ts.t.Fatal("no connection arrived")
	}
}

// expectLine waits for the next line from the client and compares.
func (ts *testServer) expectLine(want string) {
	ts.t.Helper()
	select {
	case got := <-ts.lines:
		if got != want {
			ts.t.Fatalf("client sent %q, want %q", got, want)
		}
	case <-time.After(testWait):
		ts.t.Fatalf("timed out waiting for %q", want)
	}
}

// send writes one terminated line to the client.
func (ts *testServer) send(line string) {
	ts.t.Helper()
	if _, err := ts.conn.Write([]byte(line + "\r\n")); err != nil {
		ts.t.Fatalf("server write: %v", err)
	}
}

// expectEvent waits for the next event from the receiver.
func expectEvent(t *testing.T, events <-chan string, want string) {
	t.Helper()
	select {
	case got, ok := <-events:
		if !ok {
			t.Fatalf("event channel closed, want %q", want)
		}
		if got != want {
			t.Fatalf("event = %q, want %q", got, want)
		}
	case <-time.After(testWait):
		t.Fatalf("timed out waiting for event %q", want)
	}
}

// expectClosed waits for the closed notification and channel closure,
// tolerating events still in flight ahead of them.
func expectClosed(t *testing.T, events <-chan string) {
	t.Helper()
	deadline := time.After(testWait)
	sawNotice := false
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				if !sawNotice {
					t.Fatal("channel closed without closed notification")
				}
				return
			}
			if ev == ClosedEvent {
				sawNotice = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for channel closure")
		}
	}
}

func newTestSession(nick string) *Session {
	return New(nick, nil, util.NewLogger(0), metrics.New())
}

// ── tests ────────────────────────────────────────────────────────────

func TestSessionNotConnected(t *testing.T) {
	s := newTestSession("bob")
	defer s.Close()

	ops := []struct {
		name string
		call func() error
	}{
		{"register", s.Register},
		{"join", func() error { return s.Join("#test") }},
		{"message", func() error { return s.SendMessage("#test", "hi") }},
		{"raw", func() error { return s.SendRaw("WHOIS bob") }},
		{"quit", s.Quit},
	}
	for _, op := range ops {
		if err := op.call(); !ircerr.Is(err, ircerr.ErrNotConnected) {
			t.Errorf("%s: err = %v, want ErrNotConnected", op.name, err)
		}
	}
	if _, err := s.StartReceiver(); !ircerr.Is(err, ircerr.ErrNotConnected) {
		t.Errorf("receiver: err = %v, want ErrNotConnected", err)
	}
	if s.Connected() {
		t.Error("session reports connected without a connection")
	}
}

func TestSessionRegister(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSession("bob")
	defer s.Close()

	if err := s.Connect(context.Background(), "127.0.0.1", ts.port()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ts.acceptConn()

	if err := s.Register(); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ts.expectLine("NICK bob")
	ts.expectLine("USER bob 0 * :bob")

	if s.Server() != "127.0.0.1" {
		t.Errorf("Server() = %q", s.Server())
	}
	if !s.Connected() {
		t.Error("session should report connected")
	}
}

// TestSessionReconnect verifies that connecting twice tears down the
// first connection and routes all subsequent traffic to the second.
func TestSessionReconnect(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSession("bob")
	defer s.Close()

	ctx := context.Background()
	if err := s.Connect(ctx, "127.0.0.1", ts.port()); err != nil {
		t.Fatalf("first Connect: %v", err)
	}
	ts.acceptConn()
	first := ts.conn

	if err := s.Connect(ctx, "127.0.0.1", ts.port()); err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	// The old connection gets a parting QUIT before teardown.
	ts.expectLine("QUIT :Leaving")
	ts.acceptConn()

	if err := s.Register(); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ts.expectLine("NICK bob")
	ts.expectLine("USER bob 0 * :bob")

	// The first socket must be closed: its next read reports EOF.
	first.SetReadDeadline(time.Now().Add(testWait))
	if _, err := bufio.NewReader(first).ReadByte(); err == nil {
		t.Error("first connection still open after reconnect")
	}
}

// TestSessionScenario walks the full happy path: register, join, get
// probed, receive chat and a directed service notice, server closes.
func TestSessionScenario(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSession("bob")
	defer s.Close()

	if err := s.Connect(context.Background(), "127.0.0.1", ts.port()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ts.acceptConn()

	if err := s.Register(); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ts.expectLine("NICK bob")
	ts.expectLine("USER bob 0 * :bob")

	events, err := s.StartReceiver()
	if err != nil {
		t.Fatalf("StartReceiver: %v", err)
	}

	if err := s.Join("#test"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	ts.expectLine("JOIN #test")
	if got := s.CurrentChannel(); got != "#test" {
		t.Errorf("CurrentChannel = %q, want %q", got, "#test")
	}

	// A keep-alive probe is answered on the wire and forwarded
	// annotated.
	ts.send("PING :abc")
	ts.expectLine("PONG :abc")
	expectEvent(t, events, ProbeEventPrefix+"PING :abc")

	// Ordinary chat passes through verbatim.
	ts.send(":alice!a@host PRIVMSG #test :hello bob")
	expectEvent(t, events, ":alice!a@host PRIVMSG #test :hello bob")

	// A directed service notice is annotated.
	notice := ":NickServ!NickServ@services. NOTICE bob :This nickname is registered."
	ts.send(notice)
	expectEvent(t, events, ServiceEventPrefix+notice)

	if err := s.SendMessage("#test", "hi all"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	ts.expectLine("PRIVMSG #test :hi all")

	// Server-side closure ends the receiver with the closed
	// notification and channel closure.
	ts.conn.Close()
	expectClosed(t, events)

	if got := s.Stats().ProbesAnswered(); got != 1 {
		t.Errorf("probes answered = %d, want 1", got)
	}
}

// TestSessionPartialLines feeds a line split across writes and checks
// it arrives as one event.
func TestSessionPartialLines(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSession("bob")
	defer s.Close()

	if err := s.Connect(context.Background(), "127.0.0.1", ts.port()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ts.acceptConn()

	events, err := s.StartReceiver()
	if err != nil {
		t.Fatalf("StartReceiver: %v", err)
	}

	if _, err := ts.conn.Write([]byte(":srv NOTICE * :wel")); err != nil {
		t.Fatalf("server write: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := ts.conn.Write([]byte("come\r\n:srv 001 bob :hi\r\n")); err != nil {
		t.Fatalf("server write: %v", err)
	}

	expectEvent(t, events, ":srv NOTICE * :welcome")
	expectEvent(t, events, ":srv 001 bob :hi")
}

func TestSessionDisconnect(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSession("bob")
	defer s.Close()

	if err := s.Connect(context.Background(), "127.0.0.1", ts.port()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ts.acceptConn()

	events, err := s.StartReceiver()
	if err != nil {
		t.Fatalf("StartReceiver: %v", err)
	}

	s.Disconnect()
	ts.expectLine("QUIT :Leaving")

	if s.Connected() {
		t.Error("still connected after Disconnect")
	}
	if s.Server() != "" || s.CurrentChannel() != "" {
		t.Error("server/channel state survived Disconnect")
	}

	// The receiver must wind down once its socket is gone.
	deadline := time.After(testWait)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel never closed after Disconnect")
		}
	}
}

// Disconnect twice must be a no-op the second time.
func TestSessionDisconnectIdempotent(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSession("bob")
	defer s.Close()

	if err := s.Connect(context.Background(), "127.0.0.1", ts.port()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ts.acceptConn()

	s.Disconnect()
	s.Disconnect()
	if s.Connected() {
		t.Error("still connected")
	}
}
