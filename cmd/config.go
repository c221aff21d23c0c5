// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "slipbus.toml"

// fileConfig maps slipbus.toml keys onto connection defaults.
type fileConfig struct {
	Port     string `toml:"port"`
	Baud     int    `toml:"baud"`
	Tcp      string `toml:"tcp"`
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Debug    bool   `toml:"debug"`
}

// settings is the effective connection configuration after merging the
// config file under flag values.
type settings struct {
	Port     string
	Baud     int
	Tcp      string
	URL      string
	Username string
	Debug    bool
}

// loadFileConfig decodes a TOML config file.
func loadFileConfig(path string) (fileConfig, toml.MetaData, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fileConfig{}, meta, fmt.Errorf("load config %s: %w", path, err)
	}
	return raw, meta, nil
}

// mergeSettings overlays config file values onto base, but only for
// keys actually present in the file. Flag values the user set on the
// command line are never overridden; the caller marks those by passing
// them in base and naming them in changed.
func mergeSettings(base settings, raw fileConfig, meta toml.MetaData, changed func(string) bool) settings {
	out := base
	if meta.IsDefined("port") && !changed("port") {
		out.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud") && !changed("baud") {
		out.Baud = raw.Baud
	}
	if meta.IsDefined("tcp") && !changed("tcp") {
		out.Tcp = strings.TrimSpace(raw.Tcp)
	}
	if meta.IsDefined("url") && !changed("url") {
		out.URL = strings.TrimSpace(raw.URL)
	}
	if meta.IsDefined("username") && !changed("username") {
		out.Username = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("debug") && !changed("debug") {
		out.Debug = raw.Debug
	}
	return out
}

// applyConfigFile loads the config file (explicit --config, or the
// default name if it exists) and fills in connection defaults for
// flags the user didn't set.
func applyConfigFile(cmd *cobra.Command) error {
	path := configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return nil
		}
		path = defaultConfigFile
	}

	raw, meta, err := loadFileConfig(path)
	if err != nil {
		return err
	}

	flags := cmd.Root().PersistentFlags()
	merged := mergeSettings(settings{
		Port:     portName,
		Baud:     baudRate,
		Tcp:      tcpAddr,
		URL:      wsURL,
		Username: wsUsername,
		Debug:    debugFlag,
	}, raw, meta, flags.Changed)

	portName = merged.Port
	baudRate = merged.Baud
	tcpAddr = merged.Tcp
	wsURL = merged.URL
	wsUsername = merged.Username
	debugFlag = merged.Debug
	return nil
}
