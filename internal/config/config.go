// Package config holds the mapvet configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// View generation modes.
const (
	ViewModePerType  = "per-type"
	ViewModeUnionAll = "union-all"
)

// configValidate checks the validate tags of Config.
var configValidate = validator.New()

// Config is the mapvet configuration.
type Config struct {
	Generation Generation `yaml:"generation"`
	Log        Log        `yaml:"log"`
	// Suggestions is how many "did you mean" candidates unknown-name
	// diagnostics carry.
	Suggestions int `yaml:"suggestions" validate:"gte=0,lte=10"`
}

// Generation configures view generation for the cell groups handed to it.
type Generation struct {
	ViewMode          string `yaml:"view_mode" validate:"oneof=per-type union-all"`
	DistinctByDefault bool   `yaml:"distinct_by_default"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Generation:  Generation{ViewMode: ViewModePerType},
		Log:         Log{Level: "info", Format: "text"},
		Suggestions: 3,
	}
}

// Load reads the configuration file at path on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse parses YAML configuration on top of the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// SlogLevel returns the configured log level.
func (l Log) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger writing to w.
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}

	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
