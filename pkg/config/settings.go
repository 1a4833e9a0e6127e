// Package config holds the run settings that sit outside a problem document:
// history count, seed, logging and the status server address.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read into Settings
const EnvPrefix = "TRANSPORT_"

// DefaultHistories is used when neither the settings nor the problem name a
// history count
const DefaultHistories = 1000

// Settings controls one run
type Settings struct {
	Histories  uint64 `yaml:"histories" env:"HISTORIES"`
	Seed       int64  `yaml:"seed" env:"SEED"`
	LogLevel   string `yaml:"logLevel" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat  string `yaml:"logFormat" env:"LOG_FORMAT" validate:"oneof=text json"`
	ListenAddr string `yaml:"listenAddr" env:"LISTEN_ADDR"`
	JSON       bool   `yaml:"json" env:"JSON"`
}

// Default returns the settings used when nothing overrides them
func Default() Settings {
	return Settings{
		Seed:      1,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load starts from the defaults, applies the YAML settings file at path if
// path is not empty, then applies TRANSPORT_* environment variables
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return s, fmt.Errorf("failed to open settings file: %w", err)
		}
		defer file.Close()

		dec := yaml.NewDecoder(file)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return s, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&s, env.Options{Prefix: EnvPrefix}); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

var validate = validator.New()

// Validate checks the settings after every override has been applied
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ResolveHistories picks the history count: the settings first, then the
// problem's own count, then DefaultHistories
func (s Settings) ResolveHistories(problemHistories uint64) uint64 {
	switch {
	case s.Histories > 0:
		return s.Histories
	case problemHistories > 0:
		return problemHistories
	default:
		return DefaultHistories
	}
}

// NewLogger builds the structured logger described by the settings
func NewLogger(s Settings, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(s.LogFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", s.LogFormat)
	}
}
