// SPDX-License-Identifier: MIT

package bus

// MemPort is an in-memory port. Two cross-connected MemPorts form a
// full-duplex loopback link: bytes written to one side are queued for
// reading on the other. Single-threaded, intended for tests and
// device emulation.
type MemPort struct {
	rx   []byte
	peer *MemPort
}

// NewLoopback creates a connected pair of in-memory ports.
func NewLoopback() (*MemPort, *MemPort) {
	a := &MemPort{}
	b := &MemPort{}
	a.peer = b
	b.peer = a
	return a, b
}

// IsDataAvailable reports whether the peer has written unread bytes.
func (m *MemPort) IsDataAvailable() bool {
	return len(m.rx) > 0
}

// ReadByte pops one queued byte.
func (m *MemPort) ReadByte() (byte, bool) {
	if len(m.rx) == 0 {
		return 0, false
	}
	b := m.rx[0]
	m.rx = m.rx[1:]
	return b, true
}

// IsSpaceAvailable always reports true; the queue grows as needed.
func (m *MemPort) IsSpaceAvailable() bool {
	return true
}

// WriteByte queues one byte on the peer's receive side.
func (m *MemPort) WriteByte(b byte) error {
	m.peer.rx = append(m.peer.rx, b)
	return nil
}
