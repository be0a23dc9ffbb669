package parser

import (
	"bufio"
	"bytes"
	"io"
)

// DefaultMaxLineSize bounds the length of a single log line.
const DefaultMaxLineSize = 1024 * 1024

// ScanLines is a bufio.SplitFunc that returns each line including its
// trailing newline. The last line may lack one.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// NewLineScanner returns a scanner yielding raw lines of r. Each token is a
// view into the scanner's buffer and is overwritten by the next Scan, so any
// Record built from it must be serialized first.
func NewLineScanner(r io.Reader, maxLineSize int) *bufio.Scanner {
	if maxLineSize <= 0 {
		maxLineSize = DefaultMaxLineSize
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, min(64*1024, maxLineSize)), maxLineSize)
	s.Split(ScanLines)
	return s
}
