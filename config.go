package manticore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name looked up next to a program.
const ConfigFile = "manticore.yml"

// Config holds interpreter settings read from manticore.yml.
type Config struct {
	MaxDepth    int    `yaml:"max_depth"`
	Trace       bool   `yaml:"trace"`
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

// DefaultConfig returns the settings used without a config file.
func DefaultConfig() Config {
	return Config{
		MaxDepth:    512,
		Prompt:      "> ",
		HistoryFile: ".manticore_history",
	}
}

// ParseConfig reads YAML settings on top of the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if cfg.MaxDepth < 1 {
		return cfg, fmt.Errorf("config: max_depth must be positive, got %d", cfg.MaxDepth)
	}
	return cfg, nil
}

// LoadConfig reads path; a missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
