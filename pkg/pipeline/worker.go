package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/ccollicutt/elblog/pkg/parser"
)

// worker converts whole files. It owns its parser and decompressor; neither
// is shared with other workers.
type worker struct {
	opts   Options
	stats  *counters
	parser *parser.Parser
	gz     *gzip.Reader
	log    *slog.Logger
}

func newWorker(id int, opts Options, stats *counters) *worker {
	return &worker{
		opts:   opts,
		stats:  stats,
		parser: parser.NewParser(opts.Dialect),
		log:    opts.Logger.With("role", "worker", "worker", id),
	}
}

// run converts work items until items is drained. Once abort is done no new
// file is started, but the current one is finished. ctx is checked on every
// line.
func (w *worker) run(ctx, abort context.Context, items <-chan WorkItem, emit func([]byte) error) error {
	for item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if abort.Err() != nil {
			return nil
		}
		err := w.file(ctx, item, emit)
		if errors.Is(err, errOutputClosed) {
			// The collector failed and reports its own error.
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *worker) file(ctx context.Context, item WorkItem, emit func([]byte) error) error {
	f, err := os.Open(item.Path) // #nosec G304 -- paths come from walking user-supplied roots
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w.stats.files.Add(1)
	w.log.Debug("processing file", "path", item.Path, "size", item.Size)

	var r io.Reader = f
	if w.opts.Dialect.Compressed() {
		if w.gz == nil {
			w.gz, err = gzip.NewReader(f)
		} else {
			err = w.gz.Reset(f)
		}
		if err != nil {
			return fmt.Errorf("decompressing %s: %w", item.Path, err)
		}
		r = w.gz
	}

	return w.convert(ctx, item.Path, r, emit)
}

// convert parses every line of r and passes each serialized record,
// newline terminated, to emit.
func (w *worker) convert(ctx context.Context, source string, r io.Reader, emit func([]byte) error) error {
	scanner := parser.NewLineScanner(r, w.opts.MaxLineSize)
	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNum++
		w.stats.lines.Add(1)
		line := scanner.Bytes()

		rec, err := w.parser.Parse(line)
		if err != nil {
			var mismatch *parser.MismatchError
			if !errors.As(err, &mismatch) {
				return err
			}
			if w.opts.Reporter != nil {
				w.opts.Reporter.Report(mismatch, w.opts.SkipParseErrors)
			}
			if w.opts.SkipParseErrors {
				w.stats.skipped.Add(1)
				continue
			}
			return fmt.Errorf("%s:%d: %w", source, lineNum, err)
		}

		msg, err := rec.AppendJSON(make([]byte, 0, len(line)+512))
		if err != nil {
			return fmt.Errorf("%s:%d: %w", source, lineNum, err)
		}
		if err := emit(append(msg, '\n')); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}

	w.log.Debug("finished source", "source", source, "lines", lineNum)
	return nil
}
