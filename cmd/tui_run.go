// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/corvid-labs/slipbus/pkg/packet"
)

var tuiShowAll bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Full-screen live packet monitor",
	Long: `Tui opens a full-screen terminal view of the connection: running frame
statistics, sync status, and a scrollable log of recent packets and
frame errors.

Bytes received before the first valid packet are treated as line noise
and only counted. By default the log shows frame errors only; use
--show-all to log every valid packet too.

Keys: q or Ctrl+C to quit, c to clear counters and the log.`,
	RunE: runTui,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiShowAll, "show-all", false, "Log valid packets, not just errors")
	rootCmd.AddCommand(tuiCmd)
}

func runTui(cmd *cobra.Command, args []string) error {
	conn, info, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	m := initialTuiModel(info, tuiShowAll)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Reader goroutine feeds decoded packets into the TUI
	go func() {
		dec := packet.NewDecoder(nil)
		synchronized := false
		invalidBytesBeforeSync := 0
		buf := make([]byte, 256)

		for {
			n, err := conn.Read(buf)
			for i := 0; i < n; i++ {
				switch code := dec.DecodeByte(buf[i]); code {
				case packet.ErrNone:
					if !synchronized {
						synchronized = true
						p.Send(tuiSyncMsg{invalidBytes: invalidBytesBeforeSync})
					}
					// Decoder reuses its packet, hand the TUI its own copy
					pkt := packet.NewPacket(dec.Packet().Command(), append([]byte(nil), dec.Packet().Data()...))
					pkt.CalcAndStoreCRC()
					p.Send(packetMsg{pkt: pkt})
				case packet.ErrNotDone:
				default:
					if synchronized {
						p.Send(frameErrorMsg{code: code})
					} else {
						invalidBytesBeforeSync++
					}
				}
			}
			if err != nil {
				p.Send(connLostMsg{err: err})
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
