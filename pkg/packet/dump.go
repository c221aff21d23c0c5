// SPDX-License-Identifier: MIT

package packet

import (
	"fmt"
	"log"
	"strings"
)

// LogFunc receives one formatted line of diagnostic output. The engine
// only calls it when debug is enabled; the format is not part of the
// wire contract.
type LogFunc func(line string)

// StdLog is the default sink, writing through the standard log package.
func StdLog(line string) {
	log.Print(line)
}

const dumpBytesPerLine = 16

// DumpMem writes a hex dump of buf through the sink, 16 bytes per line
// with offsets and an ASCII column:
//
//	prefix: 0000: 30 31 32 33                                     0123
func DumpMem(buf []byte, prefix string, log LogFunc) {
	if len(buf) == 0 {
		log(prefix + ":No data")
		return
	}
	for offset := 0; offset < len(buf); offset += dumpBytesPerLine {
		line := buf[offset:]
		if len(line) > dumpBytesPerLine {
			line = line[:dumpBytesPerLine]
		}
		var hexCol strings.Builder
		var asciiCol strings.Builder
		for i, b := range line {
			if i > 0 {
				hexCol.WriteByte(' ')
			}
			fmt.Fprintf(&hexCol, "%02x", b)
			if b >= 0x20 && b < 0x7F {
				asciiCol.WriteByte(b)
			} else {
				asciiCol.WriteByte('.')
			}
		}
		log(fmt.Sprintf("%s: %04x: %-*s %s",
			prefix, offset, dumpBytesPerLine*3-1, hexCol.String(), asciiCol.String()))
	}
}
