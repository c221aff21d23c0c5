// SPDX-License-Identifier: MIT

package bus

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// SocketPort adapts a stream socket to the Port interface. Reads poll
// the connection with an immediate deadline so they never block.
type SocketPort struct {
	conn    net.Conn
	pending []byte
	readBuf [64]byte
}

// NewSocketPort wraps an established connection.
func NewSocketPort(conn net.Conn) *SocketPort {
	return &SocketPort{conn: conn}
}

// DialSocket connects to a TCP endpoint and wraps it as a port.
func DialSocket(addr string) (*SocketPort, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewSocketPort(conn), nil
}

// fill polls the socket for any bytes already queued by the kernel.
func (s *SocketPort) fill() {
	if len(s.pending) > 0 {
		return
	}
	s.conn.SetReadDeadline(time.Now())
	n, err := s.conn.Read(s.readBuf[:])
	if n > 0 {
		s.pending = s.readBuf[:n]
		return
	}
	var nerr net.Error
	if err != nil && !(errors.As(err, &nerr) && nerr.Timeout()) {
		// Hard error; leave pending empty, the caller sees silence and
		// the next WriteByte surfaces the failure.
		return
	}
}

// IsDataAvailable reports whether a byte is ready to read.
func (s *SocketPort) IsDataAvailable() bool {
	s.fill()
	return len(s.pending) > 0
}

// ReadByte reads one byte, returning false if none is queued.
func (s *SocketPort) ReadByte() (byte, bool) {
	s.fill()
	if len(s.pending) == 0 {
		return 0, false
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, true
}

// IsSpaceAvailable always reports true for a healthy socket.
func (s *SocketPort) IsSpaceAvailable() bool {
	return true
}

// WriteByte writes one byte to the socket.
func (s *SocketPort) WriteByte(b byte) error {
	s.conn.SetWriteDeadline(time.Time{})
	if _, err := s.conn.Write([]byte{b}); err != nil {
		return fmt.Errorf("socket write: %w", err)
	}
	return nil
}

// Close closes the connection.
func (s *SocketPort) Close() error {
	return s.conn.Close()
}
