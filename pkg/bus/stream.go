// SPDX-License-Identifier: MIT

package bus

import (
	"fmt"
	"io"
)

// StreamPort adapts any io.ReadWriter (a WebSocket wrapper, a pipe, a
// file) to the Port interface. A pump goroutine performs the blocking
// reads and feeds a buffered channel so ReadByte itself never blocks.
type StreamPort struct {
	w  io.Writer
	ch chan byte
}

// NewStreamPort starts the read pump over rw. When the reader returns
// an error the channel is closed and ReadByte permanently reports no
// data.
func NewStreamPort(rw io.ReadWriter) *StreamPort {
	p := &StreamPort{
		w:  rw,
		ch: make(chan byte, 4096),
	}
	go p.pump(rw)
	return p
}

func (p *StreamPort) pump(r io.Reader) {
	defer close(p.ch)
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			p.ch <- buf[i]
		}
		if err != nil {
			return
		}
	}
}

// IsDataAvailable reports whether a byte is queued.
func (p *StreamPort) IsDataAvailable() bool {
	return len(p.ch) > 0
}

// ReadByte receives one queued byte without blocking.
func (p *StreamPort) ReadByte() (byte, bool) {
	select {
	case b, ok := <-p.ch:
		return b, ok
	default:
		return 0, false
	}
}

// IsSpaceAvailable always reports true; the writer paces itself.
func (p *StreamPort) IsSpaceAvailable() bool {
	return true
}

// WriteByte writes one byte to the underlying writer.
func (p *StreamPort) WriteByte(b byte) error {
	if _, err := p.w.Write([]byte{b}); err != nil {
		return fmt.Errorf("stream write: %w", err)
	}
	return nil
}
