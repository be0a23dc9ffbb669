package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatch is matched by every grammar failure.
var ErrNoMatch = errors.New("invalid log line")

// MismatchError reports a line that does not satisfy a dialect grammar.
// Line is a private copy of the rejected bytes, so it stays valid after the
// caller reuses its read buffer.
type MismatchError struct {
	Dialect *Dialect
	Line    []byte
}

func newMismatchError(d *Dialect, line []byte) *MismatchError {
	return &MismatchError{Dialect: d, Line: bytes.Clone(line)}
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNoMatch, strings.TrimRight(string(bytes.ToValidUTF8(e.Line, []byte("\uFFFD"))), "\r\n"))
}

// Is makes errors.Is(err, ErrNoMatch) hold.
func (e *MismatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// Locate returns the position at which the rejected line stops matching.
func (e *MismatchError) Locate() Failure {
	return Locate(e.Dialect, e.Line)
}

// EncodingError reports a field that cannot be emitted as JSON text.
type EncodingError struct {
	Field  string
	Offset int // byte offset of the bad sequence within the line
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("field %q contains invalid UTF-8 at byte %d", e.Field, e.Offset)
}
