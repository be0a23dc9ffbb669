package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ccollicutt/elblog/pkg/parser"
)

// Default values for configuration.
const (
	DefaultType        = "alb"
	DefaultMaxLineSize = parser.DefaultMaxLineSize
)

// Environment variable names.
const (
	EnvConfig          = "ELBLOG_CONFIG"
	EnvType            = "ELBLOG_TYPE"
	EnvSkipParseErrors = "ELBLOG_SKIP_PARSE_ERRORS"
	EnvWorkers         = "ELBLOG_WORKERS"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Type:        DefaultType,
		MaxLineSize: DefaultMaxLineSize,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if v := os.Getenv(EnvType); v != "" {
		c.Type = v
	}

	if v := os.Getenv(EnvSkipParseErrors); v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSkipParseErrors, err)
		}
		c.SkipParseErrors = skip
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}

	return nil
}
