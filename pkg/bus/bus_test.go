// SPDX-License-Identifier: MIT

package bus

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/corvid-labs/slipbus/pkg/packet"
)

// drain polls b.ProcessByte until it reports something other than
// ErrNotDone or the loopback runs dry.
func drain(t *testing.T, b *Bus) packet.ErrorCode {
	t.Helper()
	for i := 0; i < 4*packet.MaxDataLen; i++ {
		err := b.ProcessByte()
		if err != packet.ErrNotDone {
			return err
		}
		if !b.Port().IsDataAvailable() {
			return packet.ErrNotDone
		}
	}
	t.Fatal("bus never finished processing")
	return packet.ErrBadState
}

func TestBus_ProcessByteNoData(t *testing.T) {
	left, _ := NewLoopback()
	b := New(left)

	if err := b.ProcessByte(); err != packet.ErrNotDone {
		t.Errorf("ProcessByte on quiet port = %v, want NOT_DONE", err)
	}
}

func TestBus_WritePacketThenProcess(t *testing.T) {
	left, right := NewLoopback()
	sender := New(left)
	receiver := New(right)

	pkt := packet.NewPacket(0x05, []byte{0xC0, 0x10, 0xDB})
	if err := sender.WritePacket(pkt); err != packet.ErrNone {
		t.Fatalf("WritePacket = %v, want NONE", err)
	}

	if err := drain(t, receiver); err != packet.ErrNone {
		t.Fatalf("receive status = %v, want NONE", err)
	}
	got := receiver.Packet()
	if got.Command() != 0x05 {
		t.Errorf("Command() = 0x%02X, want 0x05", got.Command())
	}
	if !bytes.Equal(got.Data(), []byte{0xC0, 0x10, 0xDB}) {
		t.Errorf("Data() = % 02X, want C0 10 DB", got.Data())
	}
}

func TestBus_WirePacketBytes(t *testing.T) {
	left, right := NewLoopback()
	sender := New(left)

	sender.WritePacket(packet.NewPacket(0x01, []byte{0x02}))

	var wire []byte
	for {
		b, ok := right.ReadByte()
		if !ok {
			break
		}
		wire = append(wire, b)
	}
	want := []byte{0xC0, 0x01, 0x02, 0x1B, 0xC0}
	if !bytes.Equal(wire, want) {
		t.Errorf("wire = % 02X, want % 02X", wire, want)
	}
}

func TestBus_CorruptedFrameReportsCRC(t *testing.T) {
	left, right := NewLoopback()
	receiver := New(right)

	for _, b := range []byte{0xC0, 0x05, 0x00, 0xFF, 0xC0} {
		left.WriteByte(b)
	}
	if err := drain(t, receiver); err != packet.ErrCRC {
		t.Errorf("receive status = %v, want CRC", err)
	}
}

// failPort rejects every write.
type failPort struct {
	MemPort
}

func (f *failPort) WriteByte(b byte) error {
	return errors.New("device gone")
}

func TestBus_WriteFailureMapsToOS(t *testing.T) {
	b := New(&failPort{})
	if err := b.WritePacket(packet.NewPacket(0x01, nil)); err != packet.ErrOS {
		t.Errorf("WritePacket on dead port = %v, want OS", err)
	}
}

// fullPort never reports transmit space but accepts writes, like a
// transport that queues internally.
type fullPort struct {
	MemPort
	written []byte
}

func (f *fullPort) IsSpaceAvailable() bool {
	return false
}

func (f *fullPort) WriteByte(b byte) error {
	f.written = append(f.written, b)
	return nil
}

func TestBus_WritePacketDoesNotWaitForSpace(t *testing.T) {
	port := &fullPort{}
	b := New(port)

	done := make(chan packet.ErrorCode, 1)
	go func() {
		done <- b.WritePacket(packet.NewPacket(0x01, nil))
	}()

	select {
	case err := <-done:
		if err != packet.ErrNone {
			t.Fatalf("WritePacket = %v, want NONE", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WritePacket stalled on a port reporting no transmit space")
	}

	want := []byte{0xC0, 0x01, 0x07, 0xC0}
	if !bytes.Equal(port.written, want) {
		t.Errorf("wire = % 02X, want % 02X", port.written, want)
	}
}

func TestLoopback_FullDuplex(t *testing.T) {
	left, right := NewLoopback()

	left.WriteByte(0xAA)
	right.WriteByte(0x55)

	if b, ok := right.ReadByte(); !ok || b != 0xAA {
		t.Errorf("right.ReadByte() = 0x%02X, %v; want 0xAA, true", b, ok)
	}
	if b, ok := left.ReadByte(); !ok || b != 0x55 {
		t.Errorf("left.ReadByte() = 0x%02X, %v; want 0x55, true", b, ok)
	}
	if _, ok := left.ReadByte(); ok {
		t.Error("left should be dry")
	}
	if left.IsDataAvailable() {
		t.Error("IsDataAvailable should be false on a dry port")
	}
}
