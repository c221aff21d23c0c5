// SPDX-License-Identifier: MIT

package bus

import (
	"github.com/corvid-labs/slipbus/pkg/packet"
)

// Handler processes one completed inbound packet. A handler that claims
// the packet populates rsp and returns true; the dispatcher then writes
// rsp back on the bus.
type Handler interface {
	HandlePacket(cmd *packet.Packet, rsp *packet.Packet) bool
}

// Dispatcher routes inbound packets to registered handlers, first
// claim wins.
type Dispatcher struct {
	handlers []Handler
}

// Add registers a handler. Handlers are consulted in registration
// order.
func (d *Dispatcher) Add(h Handler) {
	d.handlers = append(d.handlers, h)
}

// Dispatch offers cmd to each handler in turn. When one claims it, the
// populated response is written on b and Dispatch returns true. Returns
// false if no handler claimed the packet.
func (d *Dispatcher) Dispatch(b *Bus, cmd *packet.Packet) bool {
	for _, h := range d.handlers {
		rsp := packet.NewPacket(0, nil)
		if h.HandlePacket(cmd, rsp) {
			b.WritePacket(rsp)
			return true
		}
	}
	return false
}

// PingHandler answers PING packets by echoing the request payload.
type PingHandler struct{}

// HandlePacket claims CmdPing packets only.
func (PingHandler) HandlePacket(cmd *packet.Packet, rsp *packet.Packet) bool {
	if cmd.Command() != packet.CmdPing {
		return false
	}
	rsp.SetCommand(packet.CmdPing)
	rsp.SetData(append([]byte(nil), cmd.Data()...))
	return true
}
