// Package config loads the YAML configuration read by the midimon command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leandrodaf/midicore/sdk/contracts"
	"gopkg.in/yaml.v3"
)

const (
	appName    = "midicore"
	configFile = "config.yaml"
)

// Config is the content of the configuration file. Every field is optional.
type Config struct {
	Version    int      `yaml:"version"`
	API        string   `yaml:"api,omitempty"`         // Backend name; empty picks the platform default
	ClientName string   `yaml:"client_name,omitempty"` // Name registered with CoreMIDI
	LogLevel   string   `yaml:"log_level,omitempty"`   // debug, info, warn, error
	Ports      []string `yaml:"ports,omitempty"`       // Input names to open; empty opens all
	Output     string   `yaml:"output,omitempty"`      // Output name used by send
	Ignore     *Ignore  `yaml:"ignore,omitempty"`
}

// Ignore selects which message classes inputs drop.
type Ignore struct {
	SysEx  bool `yaml:"sysex"`
	Timing bool `yaml:"timing"`
	Sense  bool `yaml:"sense"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	ignore := Ignore(contracts.DefaultIgnoreTypes)
	return &Config{
		Version:  1,
		LogLevel: contracts.InfoLevel.String(),
		Ignore:   &ignore,
	}
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(dir, appName, configFile), nil
}

// Load reads the file at path. An empty path means DefaultPath, and a missing
// default file yields Default. Fields absent from the file keep their default.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks fields that have a closed set of values.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported version %d", c.Version)
	}
	if c.LogLevel != "" {
		if _, ok := contracts.LookupLogLevel(c.LogLevel); !ok {
			return fmt.Errorf("unknown log_level %q", c.LogLevel)
		}
	}
	return nil
}

// Save writes c to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IgnoreTypes returns the ignore block, or the defaults when absent.
func (c *Config) IgnoreTypes() contracts.IgnoreTypes {
	if c.Ignore == nil {
		return contracts.DefaultIgnoreTypes
	}
	return contracts.IgnoreTypes(*c.Ignore)
}

// Options turns the file into manager options.
func (c *Config) Options() []contracts.Option {
	opts := []contracts.Option{
		contracts.WithLogLevel(contracts.ParseLogLevel(c.LogLevel)),
		contracts.WithIgnoreTypes(c.IgnoreTypes()),
	}
	if c.API != "" {
		opts = append(opts, contracts.WithAPI(c.API))
	}
	if c.ClientName != "" {
		opts = append(opts, contracts.WithClientName(c.ClientName))
	}
	return opts
}
