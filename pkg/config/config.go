package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/elblog/pkg/parser"
)

// Load reads and validates a configuration file. An empty path yields the
// defaults. Environment variables override values from the file.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and resolves the dialect.
func Validate(cfg *Config) error {
	d, err := parser.Lookup(cfg.Type)
	if err != nil {
		return fmt.Errorf("type: %w", err)
	}
	cfg.dialect = d

	if cfg.Workers < 0 {
		return fmt.Errorf("workers: must be >= 0, got %d", cfg.Workers)
	}

	if cfg.QueueCapacity < 0 {
		return fmt.Errorf("queue_capacity: must be >= 0, got %d", cfg.QueueCapacity)
	}

	if cfg.MaxLineSize < 0 {
		return fmt.Errorf("max_line_size: must be >= 0, got %d", cfg.MaxLineSize)
	}
	if cfg.MaxLineSize == 0 {
		cfg.MaxLineSize = DefaultMaxLineSize
	}

	switch cfg.Stats {
	case "", "text", "json":
	default:
		return fmt.Errorf("stats: invalid format %q (must be text or json)", cfg.Stats)
	}

	return nil
}
