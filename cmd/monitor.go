// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/corvid-labs/slipbus/pkg/packet"
)

var (
	monitorHex   bool
	monitorCBOR  bool
	monitorStats bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Decode and print packets from a connection",
	Long: `Monitor reads raw bytes from the connection, decodes packet frames,
and prints each valid packet as it arrives. Malformed frames (bad CRC,
truncated, oversized) are counted and reported.

Use --hex to include a hex dump of each payload and --cbor to additionally
render payloads as CBOR diagnostic notation. Press Ctrl+C to stop; with
--stats a summary of frame and error counts is printed on exit.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().BoolVar(&monitorHex, "hex", false, "Hex dump each packet payload")
	monitorCmd.Flags().BoolVar(&monitorCBOR, "cbor", false, "Render payloads as CBOR diagnostic notation")
	monitorCmd.Flags().BoolVar(&monitorStats, "stats", false, "Print frame statistics on exit")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, info, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Monitoring %s (Ctrl+C to stop)\n", info)

	stats := packet.NewStatistics()
	dec := packet.NewDecoder(nil)
	if debugFlag {
		dec.SetDebug(true)
	}

	// Reader goroutine feeds bytes; main loop decodes until signal or EOF
	byteCh := make(chan byte, 4096)
	errCh := make(chan error, 1)
	readerDone := make(chan struct{})
	defer close(readerDone)
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			for i := 0; i < n; i++ {
				select {
				case byteCh <- buf[i]:
				case <-readerDone:
					return
				}
			}
			if err != nil {
				errCh <- err
				close(byteCh)
				return
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

loop:
	for {
		select {
		case <-sigCh:
			fmt.Println("\nInterrupted")
			break loop

		case b, ok := <-byteCh:
			if !ok {
				if err := <-errCh; err != nil && err != io.EOF {
					fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
				}
				break loop
			}

			code := dec.DecodeByte(b)
			stats.Update(code)
			if code != packet.ErrNone {
				continue
			}

			pkt := dec.Packet()
			fmt.Print(packet.FormatPacket(pkt, monitorHex))
			if monitorCBOR && pkt.DataLen() > 0 {
				printCBORDiagnostic(pkt.Data())
			}
		}
	}

	if monitorStats {
		stats.CalculateRates()
		fmt.Println(stats.String())
	}
	return nil
}

// printCBORDiagnostic renders a payload as CBOR diagnostic notation, if it parses
func printCBORDiagnostic(data []byte) {
	diag, err := cbor.Diagnose(data)
	if err != nil {
		fmt.Printf("  CBOR: (not valid CBOR: %v)\n", err)
		return
	}
	fmt.Printf("  CBOR: %s\n", diag)
}
