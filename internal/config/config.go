// internal/config/config.go
package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is looked up in the working directory, then the home directory.
const FileName = ".shimmer.yaml"

// ColorMode selects when diagnostics are coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type Config struct {
	Extension    string    `yaml:"extension"`
	MaxArguments int       `yaml:"max_arguments"`
	Color        ColorMode `yaml:"color"`
	Prompt       string    `yaml:"prompt"`
	History      string    `yaml:"history"`
	LogLevel     string    `yaml:"log_level"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Extension:    ".shim",
		MaxArguments: 255,
		Color:        ColorAuto,
		Prompt:       "> ",
		History:      "~/.shimmer_history",
		LogLevel:     "info",
	}
}

// Load reads the configuration at path. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open %s", path)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	cfg.Path = path

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Discover loads ./.shimmer.yaml or else $HOME/.shimmer.yaml, falling back
// to the defaults when neither exists.
func Discover() (*Config, error) {
	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, FileName))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return Load(path)
	}
	return Default(), nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// HistoryPath returns the history file with a leading ~ expanded. It is
// empty when history is disabled or the home directory is unknown.
func (c *Config) HistoryPath() string {
	if c.History == "" || !strings.HasPrefix(c.History, "~") {
		return c.History
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, strings.TrimPrefix(c.History, "~"))
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return errors.Errorf("extension %q must start with '.'", c.Extension)
	}
	if c.MaxArguments <= 0 {
		return errors.Errorf("max_arguments must be positive, got %d", c.MaxArguments)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("color %q must be one of auto, always, never", c.Color)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return errors.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
