// SPDX-License-Identifier: MIT

package packet

import (
	"fmt"
	"strings"
	"time"
)

// FormatPacket formats a packet into a human-readable line, optionally
// followed by a hex dump of the payload.
func FormatPacket(p *Packet, showHex bool) string {
	var sb strings.Builder
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(&sb, "[%s] %s (0x%02X) len=%d crc=0x%02X\n",
		timestamp, CommandName(p.Command()), p.Command(), p.DataLen(), p.CRC())
	if showHex && p.DataLen() > 0 {
		DumpMem(p.Data(), "  Payload", func(line string) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		})
	}
	return sb.String()
}
