package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
)

const defaultPrompt = "calc> "

// config holds settings from a configuration file, possibly overridden by
// flags.
type config struct {
	MaxDepth   int    `yaml:"max_depth"`
	MaxArgs    int    `yaml:"max_args"`
	MaxIntBits int    `yaml:"max_int_bits"`
	Prompt     string `yaml:"prompt"`
	Echo       bool   `yaml:"echo"`
	// HistorySize caps the number of remembered results. Zero means no
	// limit.
	HistorySize int `yaml:"history_size"`
}

func defaultConfig() *config {
	return &config{
		MaxDepth:   calc.DefaultMaxDepth,
		MaxArgs:    calc.DefaultMaxArgs,
		MaxIntBits: calc.DefaultMaxIntBits,
		Prompt:     defaultPrompt,
	}
}

// loadConfig reads the named configuration file. An empty name gives the
// defaults.
func loadConfig(name string) (*config, error) {
	if name == "" {
		return defaultConfig(), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := decodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", name, err)
	}
	return cfg, nil
}

// decodeConfig reads YAML configuration. Settings not present keep their
// default values. Unknown settings are errors.
func decodeConfig(r io.Reader) (*config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

func (cfg *config) validate() error {
	if cfg.HistorySize < 0 {
		return fmt.Errorf("history size (%d) must not be negative", cfg.HistorySize)
	}
	return nil
}

// options converts the limits to calculator options.
func (cfg *config) options() []calc.Option {
	return []calc.Option{
		calc.MaxDepth(cfg.MaxDepth),
		calc.MaxArgs(cfg.MaxArgs),
		calc.MaxIntBits(cfg.MaxIntBits),
	}
}
