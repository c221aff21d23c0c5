// SPDX-License-Identifier: MIT
//
// slipbus - SLIP packet bus utility
//
// A CLI tool for exchanging and monitoring SLIP-framed command packets
// over serial devices, TCP sockets, and WebSocket bridges.

package main

import (
	"os"

	"github.com/corvid-labs/slipbus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
