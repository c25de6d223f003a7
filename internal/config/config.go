package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type Config struct {
	Prompt      string    `mapstructure:"prompt"`
	ExitCommand string    `mapstructure:"exit_command"`
	HistoryFile string    `mapstructure:"history_file"`
	Color       ColorMode `mapstructure:"color"`
	ShowTokens  bool      `mapstructure:"show_tokens"`
	ShowTree    bool      `mapstructure:"show_tree"`
}

const defaultHistoryFile = ".calc_history"

func Default() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, defaultHistoryFile)
	}
	return &Config{
		Prompt:      ">> ",
		ExitCommand: "exit",
		HistoryFile: history,
		Color:       ColorAuto,
		ShowTokens:  true,
		ShowTree:    true,
	}
}

// UseColor resolves the color mode against whether output is a terminal.
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

func Load(filePath string) (*Config, error) {
	var parseConfig func(io.Reader) (*Config, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseConfig = ParseJSON
	case ".yaml", ".yml":
		parseConfig = ParseYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	cfg, err := parseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

func ParseYAML(r io.Reader) (*Config, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseJSON(bytes.NewReader(jsonBytes))
}

// ParseJSON reads a config document on top of the defaults. Unknown keys are
// rejected.
func ParseJSON(r io.Reader) (*Config, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("mapstructure.NewDecoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("mapstructure.Decode: %w", err)
	}

	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return nil, fmt.Errorf("invalid color mode: %q", cfg.Color)
	}
	if cfg.ExitCommand == "" {
		return nil, fmt.Errorf("exit_command must not be empty")
	}
	return cfg, nil
}
