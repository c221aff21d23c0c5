// SPDX-License-Identifier: MIT

package packet

import "fmt"

// Packet is one command/data exchange on the bus. The command byte
// identifies the packet's purpose to higher layers, the payload is
// opaque to the engine, and the CRC covers command followed by payload.
type Packet struct {
	cmd  uint8
	data []byte
	crc  uint8
}

// NewPacket creates a packet with the given command and payload. The
// payload slice is used as-is; pass nil for an empty packet.
func NewPacket(cmd uint8, data []byte) *Packet {
	return &Packet{cmd: cmd, data: data}
}

// Command returns the packet's command byte.
func (p *Packet) Command() uint8 {
	return p.cmd
}

// SetCommand sets the packet's command byte.
func (p *Packet) SetCommand(cmd uint8) {
	p.cmd = cmd
}

// Data returns the payload portion of the packet.
func (p *Packet) Data() []byte {
	return p.data
}

// DataLen returns the payload length, excluding command and CRC.
func (p *Packet) DataLen() int {
	return len(p.data)
}

// SetData replaces the packet payload.
func (p *Packet) SetData(data []byte) {
	p.data = data
}

// AppendByte appends one byte to the payload.
func (p *Packet) AppendByte(b byte) {
	p.data = append(p.data, b)
}

// AppendData appends data to the payload.
func (p *Packet) AppendData(data []byte) {
	p.data = append(p.data, data...)
}

// CRC returns the CRC stored in the packet.
func (p *Packet) CRC() uint8 {
	return p.crc
}

// CalcCRC computes the packet's CRC over the command byte followed by
// the payload, without storing it.
func (p *Packet) CalcCRC() uint8 {
	crc := Crc8(0, []byte{p.cmd})
	return Crc8(crc, p.data)
}

// CalcAndStoreCRC computes the CRC and saves it in the packet.
func (p *Packet) CalcAndStoreCRC() {
	p.crc = p.CalcCRC()
}

// ExtractCRC splits the trailing CRC byte off the payload and stores
// it, leaving the payload holding only the body. Used by the decoder
// once a frame closes. The payload must be non-empty.
func (p *Packet) ExtractCRC() uint8 {
	last := len(p.data) - 1
	p.crc = p.data[last]
	p.data = p.data[:last]
	return p.crc
}

// Dump logs a one-line summary of the packet plus a hex dump of the
// payload through the supplied sink.
func (p *Packet) Dump(label string, log LogFunc) {
	log(fmt.Sprintf("%s Command: 0x%02x (%s) Len: %d CRC: 0x%02x",
		label, p.cmd, CommandName(p.cmd), len(p.data), p.crc))
	if len(p.data) > 0 {
		DumpMem(p.data, label, log)
	}
}
