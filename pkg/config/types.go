// Package config provides configuration loading and validation for elblog.
package config

import (
	"github.com/ccollicutt/elblog/pkg/parser"
)

// Config holds the conversion settings loaded from YAML. Command-line flags
// override it.
type Config struct {
	// Type is the load balancer log dialect: alb or classic-lb.
	Type string `yaml:"type"`

	// SkipParseErrors reports rejected lines and continues instead of
	// aborting.
	SkipParseErrors bool `yaml:"skip_parse_errors"`

	// Workers is the number of parsing goroutines. Zero means one per CPU.
	Workers int `yaml:"workers,omitempty"`

	// QueueCapacity bounds the internal queues. Zero means unbounded.
	QueueCapacity int `yaml:"queue_capacity,omitempty"`

	// MaxLineSize is the longest accepted line, e.g. 1048576 or "1MiB".
	MaxLineSize ByteSize `yaml:"max_line_size,omitempty"`

	// Stats prints a run summary to stderr in the given format (text|json).
	Stats string `yaml:"stats,omitempty"`

	// dialect is the resolved Type (populated during validation).
	dialect *parser.Dialect
}

// Dialect returns the dialect named by Type. It is nil until the config has
// been validated.
func (c *Config) Dialect() *parser.Dialect {
	return c.dialect
}
