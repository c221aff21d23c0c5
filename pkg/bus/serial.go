// SPDX-License-Identifier: MIT

package bus

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// SerialPort adapts a serial device to the Port interface. Reads use a
// short driver timeout so ReadByte returns promptly when the line is
// quiet; bytes read ahead of the caller are buffered internally.
type SerialPort struct {
	port    serial.Port
	pending []byte
	readBuf [64]byte
}

// OpenSerial opens a serial device at the given baud rate, 8N1.
func OpenSerial(name string, baud int) (*SerialPort, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	if err := port.SetReadTimeout(time.Millisecond); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}

	return &SerialPort{port: port}, nil
}

// fill tops up the pending buffer with whatever the driver has ready.
func (s *SerialPort) fill() {
	if len(s.pending) > 0 {
		return
	}
	n, err := s.port.Read(s.readBuf[:])
	if err == nil && n > 0 {
		s.pending = s.readBuf[:n]
	}
}

// IsDataAvailable reports whether a byte is ready to read.
func (s *SerialPort) IsDataAvailable() bool {
	s.fill()
	return len(s.pending) > 0
}

// ReadByte reads one byte, returning false if the line is quiet.
func (s *SerialPort) ReadByte() (byte, bool) {
	s.fill()
	if len(s.pending) == 0 {
		return 0, false
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, true
}

// IsSpaceAvailable always reports true; the driver paces writes.
func (s *SerialPort) IsSpaceAvailable() bool {
	return true
}

// WriteByte writes one byte to the device.
func (s *SerialPort) WriteByte(b byte) error {
	if _, err := s.port.Write([]byte{b}); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

// Close closes the serial device.
func (s *SerialPort) Close() error {
	return s.port.Close()
}
