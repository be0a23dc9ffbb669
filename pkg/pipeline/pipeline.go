// Package pipeline converts access-log files to newline-delimited JSON.
//
// A bulk run has three roles: one walker that finds log files under the
// given roots, a pool of workers that parse and serialize the lines of one
// file at a time, and one collector that writes the serialized records.
// Records from different files are interleaved in arrival order.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/elblog/pkg/parser"
)

// Reporter receives every rejected line. Implementations must be safe for
// concurrent use: workers call Report directly.
type Reporter interface {
	Report(err *parser.MismatchError, skipping bool)
}

// Options configures a run.
type Options struct {
	Dialect *parser.Dialect

	// SkipParseErrors reports rejected lines and carries on instead of
	// aborting the run.
	SkipParseErrors bool

	// Workers is the number of parsing goroutines. Zero or less means one
	// per CPU.
	Workers int

	// QueueCapacity bounds the work and output queues. Zero or less means
	// unbounded.
	QueueCapacity int

	// MaxLineSize bounds a single line. Zero or less means
	// parser.DefaultMaxLineSize.
	MaxLineSize int

	Reporter Reporter
	Logger   *slog.Logger
}

func (o Options) withDefaults() (Options, error) {
	if o.Dialect == nil {
		return o, errors.New("pipeline: no dialect")
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.MaxLineSize <= 0 {
		o.MaxLineSize = parser.DefaultMaxLineSize
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o, nil
}

// Stats summarizes a run.
type Stats struct {
	Files   int64 `json:"files"`
	Lines   int64 `json:"lines"`
	Records int64 `json:"records"`
	Skipped int64 `json:"skipped"`
}

type counters struct {
	files, lines, records, skipped atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Files:   c.files.Load(),
		Lines:   c.lines.Load(),
		Records: c.records.Load(),
		Skipped: c.skipped.Load(),
	}
}

// WorkItem is one log file selected by the walker.
type WorkItem struct {
	Path string
	Size int64
}

// Run converts every log file of opts.Dialect found under roots and writes
// one JSON object per line to out.
//
// The first failure stops the run: the walker stops publishing, pending files
// are dropped and workers stop once their current file is done. Every record
// a worker has produced is still written. A panic in any goroutine is
// returned as *FaultError. Canceling ctx stops workers at their next line.
func Run(ctx context.Context, roots []string, out io.Writer, opts Options) (Stats, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return Stats{}, err
	}

	var stats counters
	start := time.Now()
	g, abort := errgroup.WithContext(ctx)

	// The output side outlives an abort so produced records are not lost. It
	// only stops early when ctx is done or the collector fails.
	octx, stopOutput := context.WithCancel(ctx)
	defer stopOutput()

	work := newQueue[WorkItem](abort, g, opts.QueueCapacity)
	results := newQueue[[]byte](octx, g, opts.QueueCapacity)

	g.Go(guard("walker", func() error {
		defer close(work.in)
		return walk(abort, roots, opts, work.in)
	}))

	emit := func(msg []byte) error {
		select {
		case results.in <- msg:
			return nil
		case <-octx.Done():
			if err := ctx.Err(); err != nil {
				return err
			}
			return errOutputClosed
		}
	}

	var workers sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		w := newWorker(i, opts, &stats)
		workers.Add(1)
		g.Go(guard(fmt.Sprintf("worker %d", i), func() error {
			defer workers.Done()
			return w.run(ctx, abort, work.out, emit)
		}))
	}
	g.Go(func() error {
		workers.Wait()
		close(results.in)
		return nil
	})

	g.Go(guard("collector", func() error {
		defer stopOutput()
		return collect(results.out, out, &stats)
	}))

	opts.Logger.Debug("pipeline started", "dialect", opts.Dialect.Name(), "roots", len(roots), "workers", opts.Workers)
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	s := stats.snapshot()
	opts.Logger.Debug("pipeline finished",
		"files", s.Files, "lines", s.Lines, "records", s.Records, "skipped", s.Skipped,
		"duration", time.Since(start))
	return s, err
}

// RunStream converts the lines of r in arrival order on the calling
// goroutine.
func RunStream(ctx context.Context, r io.Reader, out io.Writer, opts Options) (stats Stats, err error) {
	opts, err = opts.withDefaults()
	if err != nil {
		return Stats{}, err
	}

	var c counters
	bw := bufio.NewWriterSize(out, 64*1024)
	err = guard("stream", func() error {
		w := newWorker(0, opts, &c)
		return w.convert(ctx, "<stdin>", r, func(msg []byte) error {
			if _, err := bw.Write(msg); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			c.records.Add(1)
			return nil
		})
	})()
	if flushErr := bw.Flush(); err == nil && flushErr != nil {
		err = fmt.Errorf("writing output: %w", flushErr)
	}
	return c.snapshot(), err
}

// errOutputClosed is returned by emit once the collector has stopped.
var errOutputClosed = errors.New("output closed")

// collect writes every message to out until messages is closed. Only records
// accepted by the writer are counted.
func collect(messages <-chan []byte, out io.Writer, stats *counters) error {
	bw := bufio.NewWriterSize(out, 64*1024)
	for msg := range messages {
		if _, err := bw.Write(msg); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		stats.records.Add(1)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
