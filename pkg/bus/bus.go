// SPDX-License-Identifier: MIT

package bus

import (
	"github.com/corvid-labs/slipbus/pkg/packet"
)

// Bus drives one decoder/encoder pair over a Port. Inbound bytes are
// pulled one at a time with ProcessByte; outbound packets are framed
// and drained in full by WritePacket.
type Bus struct {
	port Port
	pkt  *packet.Packet
	dec  *packet.Decoder
	enc  *packet.Encoder
}

// New creates a bus over the given port.
func New(port Port) *Bus {
	pkt := packet.NewPacket(0, nil)
	return &Bus{
		port: port,
		pkt:  pkt,
		dec:  packet.NewDecoder(pkt),
		enc:  packet.NewEncoder(),
	}
}

// Port returns the underlying transport.
func (b *Bus) Port() Port {
	return b.port
}

// Packet returns the receive packet. Its contents are valid after
// ProcessByte has returned ErrNone, until the next frame completes.
func (b *Bus) Packet() *packet.Packet {
	return b.pkt
}

// ProcessByte reads at most one byte from the port and runs it through
// the decoder. When no byte is ready it returns ErrNotDone without
// touching the decoder. Callers poll this until they observe ErrNone
// (packet ready) or a terminal error.
func (b *Bus) ProcessByte() packet.ErrorCode {
	byt, ok := b.port.ReadByte()
	if !ok {
		return packet.ErrNotDone
	}
	return b.dec.DecodeByte(byt)
}

// WritePacket frames pkt and writes every produced byte to the port.
// Pacing is the port's concern: WriteByte may queue or block as the
// transport requires, and a write failure maps to the OS status.
func (b *Bus) WritePacket(pkt *packet.Packet) packet.ErrorCode {
	b.enc.EncodeStart(pkt)
	for {
		err, byt := b.enc.EncodeByte()
		if werr := b.port.WriteByte(byt); werr != nil {
			return packet.ErrOS
		}
		if err != packet.ErrNotDone {
			return err
		}
	}
}

// SetDebug propagates the debug flag to both the decoder and encoder.
func (b *Bus) SetDebug(debug bool) {
	b.dec.SetDebug(debug)
	b.enc.SetDebug(debug)
}

// SetLog propagates a debug log sink to both the decoder and encoder.
func (b *Bus) SetLog(log packet.LogFunc) {
	b.dec.SetLog(log)
	b.enc.SetLog(log)
}
