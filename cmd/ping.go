// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/slipbus/pkg/bus"
	"github.com/corvid-labs/slipbus/pkg/packet"
)

var (
	pingCount    int
	pingInterval time.Duration
	pingTimeout  time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send ping packets and measure round-trip time",
	Long: `Ping sends packets with command 0x01 carrying a sequence number and
waits for the device to echo each one back, reporting the round-trip time.

Exits 0 if every ping was answered, 1 if any timed out.`,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().IntVarP(&pingCount, "count", "n", 4, "Number of pings to send (0 = until interrupted)")
	pingCmd.Flags().DurationVarP(&pingInterval, "interval", "i", time.Second, "Delay between pings")
	pingCmd.Flags().DurationVarP(&pingTimeout, "timeout", "t", 2*time.Second, "Per-ping reply timeout")
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	conn, info, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Pinging via %s\n", info)

	b := bus.New(bus.NewStreamPort(conn))
	if debugFlag {
		b.SetDebug(true)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	sent := 0
	received := 0
	var totalRTT time.Duration
	minRTT := time.Duration(0)
	maxRTT := time.Duration(0)

	for i := 0; pingCount == 0 || i < pingCount; i++ {
		seq := uint8(i)
		select {
		case <-sigCh:
			printPingSummary(sent, received, totalRTT, minRTT, maxRTT)
			if received < sent {
				os.Exit(1)
			}
			return nil
		default:
		}

		ping := packet.NewPacket(packet.CmdPing, []byte{seq})
		if code := b.WritePacket(ping); code != packet.ErrNone {
			return fmt.Errorf("write failed: %s", code)
		}
		sent++
		start := time.Now()

		rtt, code := awaitPingReply(b, seq, pingTimeout)
		if code == packet.ErrTimeout {
			fmt.Printf("seq=%d timeout after %s\n", seq, pingTimeout)
		} else if code != packet.ErrNone {
			fmt.Printf("seq=%d error: %s\n", seq, code)
		} else {
			received++
			totalRTT += rtt
			if minRTT == 0 || rtt < minRTT {
				minRTT = rtt
			}
			if rtt > maxRTT {
				maxRTT = rtt
			}
			fmt.Printf("seq=%d time=%.2f ms\n", seq, float64(rtt.Microseconds())/1000.0)
		}

		// Space pings out, accounting for time already spent waiting
		if pingCount == 0 || i+1 < pingCount {
			elapsed := time.Since(start)
			if elapsed < pingInterval {
				time.Sleep(pingInterval - elapsed)
			}
		}
	}

	printPingSummary(sent, received, totalRTT, minRTT, maxRTT)
	if received < sent {
		os.Exit(1)
	}
	return nil
}

// awaitPingReply polls the bus until a ping echo with the right sequence
// number arrives or the deadline passes. Packets for other commands or
// stale sequence numbers are ignored.
func awaitPingReply(b *bus.Bus, seq uint8, timeout time.Duration) (time.Duration, packet.ErrorCode) {
	start := time.Now()
	deadline := start.Add(timeout)

	for time.Now().Before(deadline) {
		code := b.ProcessByte()
		switch code {
		case packet.ErrNone:
			pkt := b.Packet()
			if pkt.Command() == packet.CmdPing && pkt.DataLen() == 1 && pkt.Data()[0] == seq {
				return time.Since(start), packet.ErrNone
			}
		case packet.ErrNotDone:
			time.Sleep(time.Millisecond)
		default:
			// Frame error; keep waiting, the echo may still arrive
		}
	}
	return 0, packet.ErrTimeout
}

func printPingSummary(sent, received int, total, min, max time.Duration) {
	fmt.Printf("\n%d sent, %d received, %.0f%% loss\n",
		sent, received, lossPercent(sent, received))
	if received > 0 {
		avg := total / time.Duration(received)
		fmt.Printf("rtt min/avg/max = %.2f/%.2f/%.2f ms\n",
			float64(min.Microseconds())/1000.0,
			float64(avg.Microseconds())/1000.0,
			float64(max.Microseconds())/1000.0)
	}
}

func lossPercent(sent, received int) float64 {
	if sent == 0 {
		return 0
	}
	return float64(sent-received) / float64(sent) * 100.0
}
