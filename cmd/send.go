// SPDX-License-Identifier: MIT

package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/slipbus/pkg/bus"
	"github.com/corvid-labs/slipbus/pkg/packet"
)

var (
	sendCommand uint8
	sendData    string
	sendWait    time.Duration
	sendHex     bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single packet",
	Long: `Send frames one packet with the given command byte and payload and
writes it to the connection. The payload is given as hex bytes, with or
without spaces ("01 02 ff" and "0102ff" both work).

With --wait the command stays connected and prints the first packet that
arrives back within the given duration.`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().Uint8Var(&sendCommand, "cmd", 0, "Command byte (required)")
	sendCmd.Flags().StringVar(&sendData, "data", "", "Payload as hex bytes")
	sendCmd.Flags().DurationVar(&sendWait, "wait", 0, "Wait this long for a reply packet")
	sendCmd.Flags().BoolVar(&sendHex, "hex", false, "Hex dump the reply payload")
	sendCmd.MarkFlagRequired("cmd")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	payload, err := parseHexPayload(sendData)
	if err != nil {
		return err
	}
	if len(payload) > packet.MaxDataLen-2 {
		return fmt.Errorf("payload too large: %d bytes (max %d)", len(payload), packet.MaxDataLen-2)
	}

	conn, info, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	b := bus.New(bus.NewStreamPort(conn))
	if debugFlag {
		b.SetDebug(true)
	}

	pkt := packet.NewPacket(sendCommand, payload)
	if code := b.WritePacket(pkt); code != packet.ErrNone {
		return fmt.Errorf("write failed: %s", code)
	}
	fmt.Printf("Sent %d byte packet to %s\n", pkt.DataLen(), info)

	if sendWait == 0 {
		return nil
	}

	deadline := time.Now().Add(sendWait)
	for time.Now().Before(deadline) {
		switch code := b.ProcessByte(); code {
		case packet.ErrNone:
			fmt.Print(packet.FormatPacket(b.Packet(), sendHex))
			return nil
		case packet.ErrNotDone:
			time.Sleep(time.Millisecond)
		default:
			fmt.Printf("Frame error: %s\n", code)
		}
	}
	return fmt.Errorf("no reply within %s", sendWait)
}

// parseHexPayload accepts hex bytes with optional whitespace separators
func parseHexPayload(s string) ([]byte, error) {
	compact := strings.Join(strings.Fields(s), "")
	if compact == "" {
		return nil, nil
	}
	payload, err := hex.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("invalid --data: %v", err)
	}
	return payload, nil
}
