// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/slipbus/pkg/packet"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether a connection carries valid packet traffic",
	Long: `Probe listens on the connection until one valid packet arrives or the
timeout expires, then reports what it saw. Useful for scripting and for
checking cabling or baud rate.

Exit codes:
  0  a valid packet was decoded
  1  timeout with no valid packet
  2  connection error`,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().DurationVarP(&probeTimeout, "timeout", "t", 10*time.Second, "Give up after this long")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	conn, info, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection failed: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Probing %s for up to %s\n", info, probeTimeout)

	dec := packet.NewDecoder(nil)
	if debugFlag {
		dec.SetDebug(true)
	}

	deadline := time.Now().Add(probeTimeout)
	totalBytes := 0
	frameErrors := 0
	buf := make([]byte, 256)

	for time.Now().Before(deadline) {
		n, err := conn.Read(buf)
		for i := 0; i < n; i++ {
			totalBytes++
			switch code := dec.DecodeByte(buf[i]); code {
			case packet.ErrNone:
				fmt.Printf("Valid packet after %d bytes (%d frame errors)\n", totalBytes, frameErrors)
				fmt.Print(packet.FormatPacket(dec.Packet(), false))
				return nil
			case packet.ErrNotDone:
			default:
				frameErrors++
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
			os.Exit(2)
		}
	}

	fmt.Printf("No valid packet: %d bytes read, %d frame errors\n", totalBytes, frameErrors)
	os.Exit(1)
	return nil
}
