package config

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// ByteSize is a size in bytes. It accepts plain integers as well as strings
// such as "512KiB" or "2MB".
type ByteSize int

// ParseByteSize parses a human-readable size.
func ParseByteSize(s string) (ByteSize, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return ByteSize(n), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	var n int
	if err := value.Decode(&n); err == nil {
		*b = ByteSize(n)
		return nil
	}
	size, err := ParseByteSize(value.Value)
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// String returns the size in binary units.
func (b ByteSize) String() string {
	if b < 0 {
		return fmt.Sprintf("%d B", int(b))
	}
	return humanize.IBytes(uint64(b))
}

// Set implements pflag.Value.
func (b *ByteSize) Set(s string) error {
	size, err := ParseByteSize(s)
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// Type implements pflag.Value.
func (b *ByteSize) Type() string {
	return "size"
}
