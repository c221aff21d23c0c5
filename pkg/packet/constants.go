// SPDX-License-Identifier: MIT

// Package packet implements the slipbus wire format: SLIP-style framed
// command packets with an 8-bit CRC trailer.
//
// A packet on the wire looks like:
//
//	FRAME escaped(command) escaped(payload)... escaped(crc) FRAME
//
// where FRAME (0xC0) delimits the packet, and any FRAME or ESC byte
// inside the body is replaced by a two-byte escape sequence. The CRC is
// CRC-8 (poly 0x07) over the command byte followed by the payload.
package packet

// Framing bytes
const (
	FrameByte = 0xC0 // Start/end of frame
	EscByte   = 0xDB // Next byte is escaped
	EscFrame  = 0xDC // Escaped form of FrameByte
	EscEsc    = 0xDD // Escaped form of EscByte
)

// MaxDataLen caps the decoder's scratch accumulation: command byte plus
// payload plus the trailing CRC, after unescaping. Raw payloads are
// therefore at most MaxDataLen-2 bytes.
const MaxDataLen = 256

// ErrorCode is the status returned by the engine's per-byte operations.
type ErrorCode uint8

// Engine status codes. Protocol conditions are ordinary return values,
// never panics.
const (
	ErrNone        ErrorCode = iota // Success / operation complete
	ErrNotDone                      // Operation incomplete, call again
	ErrCRC                          // CRC mismatch, frame discarded
	ErrTimeout                      // Timed out waiting for a reply
	ErrTooMuchData                  // Frame exceeded scratch capacity
	ErrTooSmall                     // Frame closed with fewer than cmd+CRC bytes
	ErrBadState                     // Parser reached an undefined state
	ErrOS                           // Transport failure
)

// String returns the symbolic name of the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrNone:
		return "NONE"
	case ErrNotDone:
		return "NOT_DONE"
	case ErrCRC:
		return "CRC"
	case ErrTimeout:
		return "TIMEOUT"
	case ErrTooMuchData:
		return "TOO_MUCH_DATA"
	case ErrTooSmall:
		return "TOO_SMALL"
	case ErrBadState:
		return "BAD_STATE"
	case ErrOS:
		return "OS"
	}
	return "UNKNOWN"
}

// Decoder states (internal)
const (
	stateIdle    = iota // Waiting for a frame to start
	statePacket         // Accumulating frame bytes
	stateEscape         // Previous byte was EscByte
)

// Predefined commands. Devices layer their own command space on top;
// the engine itself only ever interprets CmdPing in the built-in
// handler.
const (
	CmdPing = 0x01 // Liveness check, payload echoed back
)

// CommandName returns the human-readable name for a command byte.
func CommandName(cmd uint8) string {
	switch cmd {
	case CmdPing:
		return "PING"
	}
	return "???"
}
