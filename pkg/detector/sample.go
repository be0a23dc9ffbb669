package detector

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/ccollicutt/elblog/pkg/parser"
)

var gzipMagic = []byte{0x1f, 0x8b}

// sampleFile reads up to sampleSize non-blank lines from the head of a file.
// Gzip input is recognized by its magic bytes, not by the file name.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, bool, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer file.Close()

	br := bufio.NewReader(file)
	var r io.Reader = br
	head, _ := br.Peek(len(gzipMagic))
	compressed := bytes.Equal(head, gzipMagic)
	if compressed {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, true, fmt.Errorf("decompressing %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	var lines []string
	scanner := parser.NewLineScanner(r, parser.DefaultMaxLineSize)
	for len(lines) < d.sampleSize && scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, compressed, err
		}
		line := strings.TrimSuffix(scanner.Text(), "\n")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, compressed, fmt.Errorf("reading %s: %w", path, err)
	}

	return lines, compressed, nil
}
