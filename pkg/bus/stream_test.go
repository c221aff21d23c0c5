// SPDX-License-Identifier: MIT

package bus

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/corvid-labs/slipbus/pkg/packet"
)

// awaitByte polls a port until a byte arrives or the deadline passes.
func awaitByte(t *testing.T, p Port) byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b, ok := p.ReadByte(); ok {
			return b
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for a byte")
	return 0
}

type pipeEnd struct {
	io.Reader
	io.Writer
}

func TestStreamPort_ReadWrite(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	port := NewStreamPort(pipeEnd{Reader: inR, Writer: outW})

	go inW.Write([]byte{0x11, 0x22})

	if b := awaitByte(t, port); b != 0x11 {
		t.Errorf("first byte = 0x%02X, want 0x11", b)
	}
	if b := awaitByte(t, port); b != 0x22 {
		t.Errorf("second byte = 0x%02X, want 0x22", b)
	}
	if _, ok := port.ReadByte(); ok {
		t.Error("port should be dry")
	}

	got := make([]byte, 1)
	done := make(chan struct{})
	go func() {
		io.ReadFull(outR, got)
		close(done)
	}()
	if err := port.WriteByte(0x33); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	<-done
	if got[0] != 0x33 {
		t.Errorf("wrote 0x%02X, want 0x33", got[0])
	}
}

func TestStreamPort_ReaderErrorDrainsThenStops(t *testing.T) {
	inR, inW := io.Pipe()
	port := NewStreamPort(pipeEnd{Reader: inR, Writer: io.Discard})

	go func() {
		inW.Write([]byte{0x42})
		inW.Close()
	}()

	if b := awaitByte(t, port); b != 0x42 {
		t.Errorf("byte = 0x%02X, want 0x42", b)
	}

	// Once the reader has failed and the queue is empty, ReadByte
	// permanently reports no data.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := port.ReadByte(); !ok && !port.IsDataAvailable() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("port never settled after reader EOF")
}

func TestStreamPort_BusRoundTrip(t *testing.T) {
	clientConn, deviceConn := net.Pipe()
	client := New(NewStreamPort(clientConn))
	device := New(NewStreamPort(deviceConn))

	// net.Pipe writes rendezvous with the peer's reads, so the write
	// happens on its own goroutine while the device side consumes.
	writeDone := make(chan packet.ErrorCode, 1)
	go func() {
		writeDone <- client.WritePacket(packet.NewPacket(0x09, []byte{0xC0}))
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for packet")
		}
		err := device.ProcessByte()
		if err == packet.ErrNone {
			break
		}
		if err != packet.ErrNotDone {
			t.Fatalf("ProcessByte = %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	if err := <-writeDone; err != packet.ErrNone {
		t.Fatalf("WritePacket = %v", err)
	}
	got := device.Packet()
	if got.Command() != 0x09 || !bytes.Equal(got.Data(), []byte{0xC0}) {
		t.Errorf("packet = 0x%02X % 02X, want 09 C0", got.Command(), got.Data())
	}
}
