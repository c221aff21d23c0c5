// SPDX-License-Identifier: MIT

package packet

import "fmt"

// Decoder reconstructs packets from a raw byte stream, one byte at a
// time. It owns a scratch buffer holding the unescaped bytes of the
// frame currently being parsed; the destination packet is only
// populated at the instant a frame closes with a valid CRC.
//
// A Decoder must not be shared between concurrent callers.
type Decoder struct {
	state   int
	scratch []byte
	pkt     *Packet
	debug   bool
	log     LogFunc
}

// NewDecoder creates a decoder that materializes completed frames into
// pkt. Passing nil allocates a fresh destination packet.
func NewDecoder(pkt *Packet) *Decoder {
	if pkt == nil {
		pkt = &Packet{}
	}
	return &Decoder{
		state:   stateIdle,
		scratch: make([]byte, 0, MaxDataLen),
		pkt:     pkt,
		log:     StdLog,
	}
}

// Packet returns the destination packet. Its fields are only meaningful
// after DecodeByte has returned ErrNone, and remain valid until the
// next frame completes.
func (d *Decoder) Packet() *Packet {
	return d.pkt
}

// SetDebug toggles logging of completed and errored frames. Parsing
// behavior is unaffected.
func (d *Decoder) SetDebug(debug bool) {
	d.debug = debug
}

// SetLog replaces the debug log sink.
func (d *Decoder) SetLog(log LogFunc) {
	d.log = log
}

// Reset discards any in-progress frame and returns the decoder to idle.
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.scratch = d.scratch[:0]
}

// DecodeByte runs one raw transport byte through the framing state
// machine. It returns ErrNotDone while the frame is incomplete, ErrNone
// when a packet has been fully populated, and one of the protocol error
// codes when the current frame had to be discarded. After any result
// other than ErrNotDone the decoder is back in the idle state.
func (d *Decoder) DecodeByte(b byte) ErrorCode {
	switch d.state {
	case stateIdle:
		// Anything before the opening frame byte is line noise.
		if b == FrameByte {
			d.scratch = d.scratch[:0]
			d.state = statePacket
		}
		return ErrNotDone

	case statePacket:
		if b == FrameByte {
			return d.closeFrame()
		}
		if len(d.scratch) >= MaxDataLen {
			d.Reset()
			return ErrTooMuchData
		}
		if b == EscByte {
			d.state = stateEscape
			return ErrNotDone
		}
		d.scratch = append(d.scratch, b)
		return ErrNotDone

	case stateEscape:
		switch b {
		case EscFrame:
			d.scratch = append(d.scratch, FrameByte)
		case EscEsc:
			d.scratch = append(d.scratch, EscByte)
		default:
			// Unknown escape continuation; keep the byte as-is
			// rather than fail the frame.
			d.scratch = append(d.scratch, b)
		}
		d.state = statePacket
		return ErrNotDone
	}

	d.Reset()
	return ErrBadState
}

// closeFrame handles a FrameByte seen while accumulating a packet.
func (d *Decoder) closeFrame() ErrorCode {
	if len(d.scratch) == 0 {
		// Back-to-back frame bytes are inter-frame padding.
		return ErrNotDone
	}
	if len(d.scratch) == 1 {
		// Minimum frame is a command plus a CRC.
		d.Reset()
		return ErrTooSmall
	}

	body := d.scratch[:len(d.scratch)-1]
	rcvdCRC := d.scratch[len(d.scratch)-1]
	calcCRC := Crc8(0, body)
	if rcvdCRC != calcCRC {
		if d.debug {
			d.log(fmt.Sprintf("CRC Error: Received 0x%02x Expected 0x%02x", rcvdCRC, calcCRC))
		}
		d.Reset()
		return ErrCRC
	}

	// Split the scratch buffer into owned command/payload/CRC values so
	// the packet never aliases scratch storage reused by later frames.
	d.pkt.SetCommand(d.scratch[0])
	d.pkt.SetData(append([]byte(nil), d.scratch[1:]...))
	d.pkt.ExtractCRC()
	d.Reset()
	if d.debug {
		d.pkt.Dump("Rcvd", d.log)
	}
	return ErrNone
}
