package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leandrodaf/midicore/internal/config"
)

func TestConfigInit(t *testing.T) {
	defer func(p, a, l string, f bool) {
		configPath, apiName, logLevel, forceInit = p, a, l, f
	}(configPath, apiName, logLevel, forceInit)

	configPath = filepath.Join(t.TempDir(), "midicore", "config.yaml")
	apiName, logLevel, forceInit = "", "debug", false

	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}
	if !strings.Contains(out.String(), configPath) {
		t.Errorf("output %q does not name %s", out.String(), configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := config.Default()
	if cfg.LogLevel != "debug" || cfg.API != want.API || cfg.ClientName != want.ClientName {
		t.Errorf("written config = %+v", cfg)
	}

	logLevel = ""
	if err := runConfigInit(configInitCmd, nil); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("second init error = %v, want refusal to overwrite", err)
	}

	forceInit = true
	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("runConfigInit(--force) error = %v", err)
	}
	if cfg, _ = config.Load(configPath); cfg.LogLevel != want.LogLevel {
		t.Errorf("log level after --force = %q, want %q", cfg.LogLevel, want.LogLevel)
	}
}

func TestConfigInit_RejectsInvalidSettings(t *testing.T) {
	defer func(p, l string) { configPath, logLevel = p, l }(configPath, logLevel)

	configPath = filepath.Join(t.TempDir(), "config.yaml")
	logLevel = "loud"
	if err := runConfigInit(configInitCmd, nil); err == nil {
		t.Fatal("runConfigInit() accepted an unknown log level")
	}
	if _, err := config.Load(configPath); err == nil {
		t.Error("an invalid config was written")
	}
}
