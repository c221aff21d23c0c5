// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// TCP connection flag
	tcpAddr string

	// Config and debug flags
	configPath string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "slipbus",
	Short: "SLIP packet bus utility",
	Long: `slipbus - A CLI tool for exchanging SLIP-framed command packets with serial devices.

Packets are SLIP encoded (0xC0 framing, 0xDB escapes) with a trailing
CRC-8 over the command byte and payload.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  TCP:       --tcp host:5000
  WebSocket: --url ws://host/path [--username user]

Connection defaults may also come from a TOML config file (--config,
or slipbus.toml in the working directory). For WebSocket authentication
the password is read from the SLIPBUS_PASSWORD environment variable, or
prompted interactively if not set. The --password flag is intentionally
not provided to avoid leaking credentials in shell history.`,
	Version: "1.2.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyConfigFile(cmd)
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// TCP connection flag
	rootCmd.PersistentFlags().StringVar(&tcpAddr, "tcp", "", "TCP endpoint (host:port)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file with connection defaults")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log every packet sent and received")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
