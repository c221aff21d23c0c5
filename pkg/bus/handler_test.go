// SPDX-License-Identifier: MIT

package bus

import (
	"bytes"
	"testing"

	"github.com/corvid-labs/slipbus/pkg/packet"
)

func TestPingHandler_EchoesPayload(t *testing.T) {
	cmd := packet.NewPacket(packet.CmdPing, []byte{0xDE, 0xAD})
	rsp := packet.NewPacket(0, nil)

	if !(PingHandler{}).HandlePacket(cmd, rsp) {
		t.Fatal("PingHandler should claim PING packets")
	}
	if rsp.Command() != packet.CmdPing {
		t.Errorf("response command = 0x%02X, want PING", rsp.Command())
	}
	if !bytes.Equal(rsp.Data(), []byte{0xDE, 0xAD}) {
		t.Errorf("response payload = % 02X, want DE AD", rsp.Data())
	}
}

func TestPingHandler_IgnoresOtherCommands(t *testing.T) {
	cmd := packet.NewPacket(0x7F, nil)
	if (PingHandler{}).HandlePacket(cmd, packet.NewPacket(0, nil)) {
		t.Error("PingHandler should not claim non-PING packets")
	}
}

func TestDispatcher_PingOverLoopback(t *testing.T) {
	left, right := NewLoopback()
	client := New(left)
	device := New(right)

	var dispatcher Dispatcher
	dispatcher.Add(PingHandler{})

	// Client sends a ping.
	if err := client.WritePacket(packet.NewPacket(packet.CmdPing, []byte{0x01, 0x02})); err != packet.ErrNone {
		t.Fatalf("client WritePacket = %v", err)
	}

	// Device receives it and the dispatcher writes the echo back.
	if err := drain(t, device); err != packet.ErrNone {
		t.Fatalf("device receive status = %v", err)
	}
	if !dispatcher.Dispatch(device, device.Packet()) {
		t.Fatal("dispatcher should have claimed the ping")
	}

	// Client sees the echo.
	if err := drain(t, client); err != packet.ErrNone {
		t.Fatalf("client receive status = %v", err)
	}
	reply := client.Packet()
	if reply.Command() != packet.CmdPing || !bytes.Equal(reply.Data(), []byte{0x01, 0x02}) {
		t.Errorf("reply = 0x%02X % 02X, want PING 01 02", reply.Command(), reply.Data())
	}
}

func TestDispatcher_UnclaimedPacket(t *testing.T) {
	left, _ := NewLoopback()
	b := New(left)

	var dispatcher Dispatcher
	dispatcher.Add(PingHandler{})

	if dispatcher.Dispatch(b, packet.NewPacket(0x60, nil)) {
		t.Error("dispatcher claimed a packet with no handler")
	}
}
