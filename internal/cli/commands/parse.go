package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/elblog/pkg/config"
	"github.com/ccollicutt/elblog/pkg/output"
	"github.com/ccollicutt/elblog/pkg/pipeline"
)

// ParseOptions holds command-line options for the parse action.
type ParseOptions struct {
	ConfigFile      string
	Type            string
	SkipParseErrors bool
	Jobs            int
	QueueCapacity   int
	MaxLineSize     config.ByteSize
	Stats           string
	Quiet           bool
	Verbose         bool
}

// NewParseCommand creates the command that converts logs. It is the root
// command of the CLI.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{MaxLineSize: config.DefaultMaxLineSize}

	cmd := &cobra.Command{
		Use:   "elblog [flags] <path>...",
		Short: "Convert AWS load balancer access logs to JSON",
		Long: `elblog converts AWS load balancer access logs to newline-delimited JSON.

Each path is a directory or file to walk; shell globs are expanded. Application
Load Balancer logs are read from *.log.gz files, Classic Load Balancer logs
from *.log files. Use "-" to read uncompressed lines from standard input, in
which case records are written in input order.

Every field is emitted as a JSON string; "-" and "-1" are kept verbatim.

Exit codes:
  0 - All lines converted (rejected lines skipped with --skip-parse-errors)
  1 - A line did not match the log format
  2 - Configuration, usage or I/O error
  3 - Internal error`,
		Example: `  elblog -t alb ./AWSLogs/123456789012/elasticloadbalancing/
  elblog -t classic-lb --skip-parse-errors 'logs/2024-*'
  zcat app.log.gz | elblog -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (default $"+config.EnvConfig+")")
	cmd.Flags().StringVarP(&opts.Type, "type", "t", config.DefaultType, "Load balancer type (alb|classic-lb)")
	cmd.Flags().BoolVar(&opts.SkipParseErrors, "skip-parse-errors", false, "Report lines that do not match and continue")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Number of parsing workers (default one per CPU)")
	cmd.Flags().IntVar(&opts.QueueCapacity, "queue-capacity", 0, "Bound the internal queues (default unbounded)")
	cmd.Flags().Var(&opts.MaxLineSize, "max-line-size", "Longest accepted line, e.g. 4MiB")
	cmd.Flags().StringVar(&opts.Stats, "stats", "", "Print a run summary to stderr (text|json)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary totals only (implies --stats text)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log progress to stderr")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stderr := cmd.ErrOrStderr()

	cfg, err := loadParseConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, opts.Verbose)
	popts := pipeline.Options{
		Dialect:         cfg.Dialect(),
		SkipParseErrors: cfg.SkipParseErrors,
		Workers:         cfg.Workers,
		QueueCapacity:   cfg.QueueCapacity,
		MaxLineSize:     int(cfg.MaxLineSize),
		Reporter:        output.NewReporter(stderr, output.IsTerminal(stderr)),
		Logger:          logger,
	}

	started := time.Now()
	var (
		stats   pipeline.Stats
		sources []string
		runErr  error
	)
	if len(args) == 1 && args[0] == "-" {
		sources = []string{"-"}
		stats, runErr = pipeline.RunStream(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), popts)
	} else {
		for _, a := range args {
			if a == "-" {
				return errors.New(`"-" cannot be combined with other paths`)
			}
		}
		sources, err = pipeline.ExpandRoots(args)
		if err != nil {
			return err
		}
		stats, runErr = pipeline.Run(ctx, sources, cmd.OutOrStdout(), popts)
	}

	if cfg.Stats != "" {
		meta := output.Metadata{
			Dialect:   cfg.Dialect().Name(),
			Sources:   sources,
			Workers:   cfg.Workers,
			StartedAt: started,
			Duration:  time.Since(started),
		}
		if runErr != nil {
			meta.Error = runErr.Error()
		}
		fopts := output.FormatOptions{Verbose: opts.Verbose, Quiet: opts.Quiet}
		if err := writeSummary(ctx, stderr, cfg.Stats, fopts, output.NewReport(stats, meta)); err != nil {
			logger.Warn("writing summary failed", "error", err)
		}
	}

	return runErr
}

// loadParseConfig merges, in increasing precedence, defaults, the config
// file, environment variables and explicitly set flags.
func loadParseConfig(ctx context.Context, cmd *cobra.Command, opts *ParseOptions) (*config.Config, error) {
	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("type") {
		cfg.Type = opts.Type
	}
	if flags.Changed("skip-parse-errors") {
		cfg.SkipParseErrors = opts.SkipParseErrors
	}
	if flags.Changed("jobs") {
		cfg.Workers = opts.Jobs
	}
	if flags.Changed("queue-capacity") {
		cfg.QueueCapacity = opts.QueueCapacity
	}
	if flags.Changed("max-line-size") {
		cfg.MaxLineSize = opts.MaxLineSize
	}
	if flags.Changed("stats") {
		cfg.Stats = opts.Stats
	}
	if opts.Quiet && cfg.Stats == "" {
		cfg.Stats = "text"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeSummary(ctx context.Context, w io.Writer, format string, fopts output.FormatOptions, report *output.Report) error {
	f, err := output.NewFormatter(format, fopts)
	if err != nil {
		return err
	}
	return f.Format(ctx, report, w)
}

// newLogger returns a text logger on w. Debug events are only shown when
// verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
