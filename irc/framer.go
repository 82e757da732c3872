package irc

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/Tanishkshk1/Irconic/config"
)

// Framer converts an unbounded stream of arbitrary-sized byte chunks
// into a sequence of complete, terminator-stripped protocol lines.
//
// Stream sockets deliver whatever the kernel has: a chunk may split a
// line, split the terminator itself, or carry several lines at once.
// The framer accumulates bytes until at least one full line is
// available and keeps any leftover for the next read.
type Framer struct {
	r       io.Reader
	buf     []byte // accumulated bytes without a complete line yet
	chunk   []byte // scratch buffer for reads
	pending error  // deferred error, delivered once buffered lines drain
}

// NewFramer wraps r.  Reads request up to config.FrameChunkSize bytes.
func NewFramer(r io.Reader) *Framer {
	return &Framer{
		r:     r,
		chunk: make([]byte, config.FrameChunkSize),
	}
}

// Next returns the next complete line with its terminator stripped.
//
// An orderly stream closure yields io.EOF — after any buffered bytes
// have been flushed as a final, unterminated line, matching what the
// remote actually sent.  Read errors (including deadline expiry) pass
// through untouched; the framer's buffer survives them, so the caller
// may keep calling Next after a transient timeout.
func (f *Framer) Next() (string, error) {
	for {
		if line, ok := f.takeLine(); ok {
			return line, nil
		}

		if f.pending != nil {
			err := f.pending
			if errors.Is(err, io.EOF) && len(f.buf) > 0 {
				// Trailing partial line before close.
				line := decode(f.buf)
				f.buf = nil
				return line, nil
			}
			f.pending = nil
			return "", err
		}

		n, err := f.r.Read(f.chunk)
		if n > 0 {
			f.buf = append(f.buf, f.chunk[:n]...)
		}
		if err != nil {
			// Deliver buffered complete lines before the error.
			f.pending = err
		}
	}
}

// takeLine extracts the first complete line from the buffer.
func (f *Framer) takeLine() (string, bool) {
	i := bytes.IndexByte(f.buf, '\n')
	if i < 0 {
		return "", false
	}
	raw := f.buf[:i]
	// A lone '\r' left behind means the terminator was split across
	// chunks; it belongs to this line.
	raw = bytes.TrimSuffix(raw, []byte{'\r'})
	line := decode(raw)
	f.buf = f.buf[i+1:]
	return line, true
}

// decode converts raw bytes to a string, replacing invalid UTF-8
// sequences instead of failing.  Chat servers relay whatever clients
// send; a bad byte from a stranger must never kill the receiver.
func decode(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "�")
}
