// SPDX-License-Identifier: MIT

package packet

// Encoder produces the framed, escaped byte stream for one packet at a
// time. EncodeStart prepares the frame; EncodeByte then yields it one
// byte per call so the caller can pace output to the transport.
//
// An Encoder must not be shared between concurrent callers, and
// EncodeByte is undefined after it has returned ErrNone until
// EncodeStart is called again.
type Encoder struct {
	frame []byte
	idx   int
	debug bool
	log   LogFunc
}

// NewEncoder creates a packet encoder.
func NewEncoder() *Encoder {
	return &Encoder{log: StdLog}
}

// SetDebug toggles logging of each packet as encoding starts. Output
// bytes are unaffected.
func (e *Encoder) SetDebug(debug bool) {
	e.debug = debug
}

// SetLog replaces the debug log sink.
func (e *Encoder) SetLog(log LogFunc) {
	e.log = log
}

// EncodeStart computes and stores the packet's CRC, then builds the
// escaped frame. The CRC is recomputed unconditionally; CalcCRC is pure
// so this is safe for packets that already carry one.
func (e *Encoder) EncodeStart(pkt *Packet) {
	pkt.CalcAndStoreCRC()
	if e.debug {
		pkt.Dump("Sent", e.log)
	}

	e.frame = e.frame[:0]
	e.frame = append(e.frame, FrameByte)
	e.frame = appendEscaped(e.frame, pkt.Command())
	for _, b := range pkt.Data() {
		e.frame = appendEscaped(e.frame, b)
	}
	e.frame = appendEscaped(e.frame, pkt.CRC())
	e.frame = append(e.frame, FrameByte)
	e.idx = 0
}

// EncodeByte yields the next byte of the frame prepared by EncodeStart.
// It returns ErrNotDone with each intermediate byte and ErrNone with
// the final closing frame byte.
func (e *Encoder) EncodeByte() (ErrorCode, byte) {
	b := e.frame[e.idx]
	e.idx++
	if e.idx >= len(e.frame) {
		return ErrNone, b
	}
	return ErrNotDone, b
}

// appendEscaped appends b to frame, expanding frame and escape bytes to
// their two-byte escape sequences.
func appendEscaped(frame []byte, b byte) []byte {
	switch b {
	case FrameByte:
		return append(frame, EscByte, EscFrame)
	case EscByte:
		return append(frame, EscByte, EscEsc)
	}
	return append(frame, b)
}
