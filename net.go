package main

import (
	"bytes"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// maxLineBuffer is the receive buffer cap per spec: a line without a CRLF
// terminator past this many bytes causes the connection to close.
const maxLineBuffer = 1 << 16 // 64 KiB

// separator terminates every line on the wire.
const separator = "\r\n"

var separatorBytes = []byte(separator)

// Conn is a framed, full-duplex line transport over one TCP connection.
// It accumulates bytes until it sees a CRLF, and serializes writes with a
// per-connection lock so that broadcasters writing from different
// goroutines never interleave partial lines (spec: per-connection send
// ordering).
type Conn struct {
	conn net.Conn

	readMu  sync.Mutex
	readBuf []byte

	writeMu sync.Mutex

	closeMu sync.Mutex
	closed  bool
}

// NewConn wraps a TCP connection in the line transport.
func NewConn(c net.Conn) *Conn {
	return &Conn{conn: c}
}

// RemoteAddr returns the remote network address of the connection.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// IsClosed reports whether Close has already been called.
func (c *Conn) IsClosed() bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	return c.closed
}

// Recv returns the next line, including its trailing CRLF. It closes the
// connection and returns an error if the line exceeds maxLineBuffer bytes
// without a terminator, or if the underlying socket errors.
func (c *Conn) Recv() (string, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if c.IsClosed() {
		return "", errors.New("connection is closed")
	}

	buf := make([]byte, 4096)
	for {
		if idx := bytes.Index(c.readBuf, separatorBytes); idx >= 0 {
			end := idx + len(separatorBytes)
			line := string(c.readBuf[:end])
			c.readBuf = append([]byte{}, c.readBuf[end:]...)
			return line, nil
		}

		if len(c.readBuf) > maxLineBuffer {
			_ = c.Close()
			return "", errors.New("line exceeded maximum buffer size")
		}

		n, err := c.conn.Read(buf)
		if n > 0 {
			c.readBuf = append(c.readBuf, buf[:n]...)
		}
		if err != nil {
			_ = c.Close()
			return "", errors.Wrap(err, "read error")
		}
	}
}

// normalize turns any lone CR or LF in text into a full CRLF.
func normalize(text string) string {
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\r':
			b.WriteString(separator)
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
		case '\n':
			b.WriteString(separator)
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

// Send normalizes text and writes it in full (sendall semantics), holding
// the write lock for the whole call so concurrent broadcasters never
// interleave.
func (c *Conn) Send(text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.IsClosed() {
		return errors.New("connection is closed")
	}

	payload := []byte(normalize(text))
	for len(payload) > 0 {
		n, err := c.conn.Write(payload)
		if err != nil {
			_ = c.Close()
			return errors.Wrap(err, "write error")
		}
		payload = payload[n:]
	}
	return nil
}

// Print formats values the way fmt.Sprintln family does and sends them,
// mirroring the original client.print(*values, sep, end) signature.
func (c *Conn) Print(values ...interface{}) error {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return c.Send(strings.Join(parts, " ") + "\n")
}

// Input optionally prints a prompt, then returns the next line with its
// terminator stripped, decoded as text.
func (c *Conn) Input(prompt ...string) (string, error) {
	if len(prompt) > 0 {
		if err := c.Print(prompt[0]); err != nil {
			return "", err
		}
	}
	line, err := c.Recv()
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, separator), nil
}

// Close performs a bidirectional shutdown and marks the transport closed.
// Idempotent.
func (c *Conn) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
