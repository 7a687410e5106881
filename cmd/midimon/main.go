// Midimon lists MIDI ports, prints what arrives on inputs and sends channel
// messages to outputs.
//
// Usage:
//
//	midimon [command] [flags]
//
// Settings are read from $XDG_CONFIG_HOME/midicore/config.yaml (or the
// platform equivalent) when present; flags override the file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leandrodaf/midicore/internal/config"
	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/sdk/contracts"
	"github.com/leandrodaf/midicore/sdk/device"
	"github.com/leandrodaf/midicore/sdk/midi"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	apiName    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "midimon",
	Short: "MIDI port monitor",
	Long: `Inspect the MIDI ports visible to this machine.

Lists inputs and outputs, prints the channel messages arriving on inputs and
sends single messages to an output.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the per-user config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiName, "api", "", "MIDI backend to use (see 'midimon apis')")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(apisCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiName != "" {
		cfg.API = apiName
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

// openManager builds a device manager from the effective configuration.
func openManager() (*device.Manager, *config.Config, contracts.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.NewConsoleLogger()
	opts := append(cfg.Options(), contracts.WithLogger(log))

	m, err := midi.NewManager(opts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize MIDI: %w", err)
	}
	return m, cfg, log, nil
}
