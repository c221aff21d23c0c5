// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/slipbus/pkg/bus"
	"github.com/corvid-labs/slipbus/pkg/packet"
)

var emulateCmd = &cobra.Command{
	Use:   "emulate",
	Short: "Act as a device, answering pings on the connection",
	Long: `Emulate runs the device side of the protocol: it decodes incoming
packets and echoes pings (command 0x01) back to the sender. Handy for
testing the tooling against a TCP socket or a loopback serial cable
without real hardware.

Press Ctrl+C to stop.`,
	RunE: runEmulate,
}

func init() {
	rootCmd.AddCommand(emulateCmd)
}

func runEmulate(cmd *cobra.Command, args []string) error {
	conn, info, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Emulating device on %s (Ctrl+C to stop)\n", info)

	b := bus.New(bus.NewStreamPort(conn))
	if debugFlag {
		b.SetDebug(true)
	}

	disp := &bus.Dispatcher{}
	disp.Add(bus.PingHandler{})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	answered := 0
	for {
		select {
		case <-sigCh:
			fmt.Printf("\nStopping, %d packets answered\n", answered)
			return nil
		default:
		}

		switch code := b.ProcessByte(); code {
		case packet.ErrNone:
			if disp.Dispatch(b, b.Packet()) {
				answered++
			} else if debugFlag {
				fmt.Printf("Unhandled packet: %s", packet.FormatPacket(b.Packet(), false))
			}
		case packet.ErrNotDone:
			time.Sleep(time.Millisecond)
		default:
			if debugFlag {
				fmt.Printf("Frame error: %s\n", code)
			}
		}
	}
}
