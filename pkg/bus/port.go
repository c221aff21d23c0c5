// SPDX-License-Identifier: MIT

// Package bus couples the packet engine to a byte transport. A Bus owns
// one decoder/encoder pair over a Port and is polled by a single caller;
// concurrent packet flows need one Bus per logical channel.
package bus

// Port is the transport capability a Bus consumes: a non-blocking,
// byte-oriented, full-duplex endpoint such as a serial device or a
// socket. Every operation is mandatory.
type Port interface {
	// IsDataAvailable reports whether a byte can be read right now.
	IsDataAvailable() bool

	// ReadByte reads one byte without blocking. The second result is
	// false when no byte was available, which is distinct from reading
	// a zero byte.
	ReadByte() (byte, bool)

	// IsSpaceAvailable reports whether a byte can be written right now.
	IsSpaceAvailable() bool

	// WriteByte writes one byte. It must not silently drop the byte.
	WriteByte(b byte) error
}
