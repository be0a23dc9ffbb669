package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/elblog/pkg/config"
	"github.com/ccollicutt/elblog/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect the load balancer type of a log file",
		Long: `Sample a log file and report which load balancer log format it uses.

Gzip-compressed files are decompressed automatically. The detected type can
be passed to --type, or written to a starter configuration file with
--write-config.

Example:
  elblog detect 123456789012_elasticloadbalancing_us-east-1_app.my-alb.log.gz
  elblog detect --sample 500 --output json access.log
  elblog detect -w elblog.yaml access.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every matching type, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	w := cmd.OutOrStdout()
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, result, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, result, logFile, opts)
	case "text":
		return outputDetectText(w, result, logFile, opts)
	default:
		return fmt.Errorf("unknown output format %q (must be text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	var b strings.Builder
	fmt.Fprintln(&b, "=== Load Balancer Log Detection ===")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "File: %s\n", logFile)
	if result.Compressed {
		fmt.Fprintln(&b, "Compression: gzip")
	}
	fmt.Fprintf(&b, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintln(&b)

	if !result.HasMatch() {
		fmt.Fprintln(&b, "No load balancer log format detected.")
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Tip: run elblog on the file with --skip-parse-errors to see where lines stop matching.")
		_, err := io.WriteString(w, b.String())
		return err
	}

	best := result.BestMatch()
	fmt.Fprintf(&b, "Detected Type: %s\n", best.Dialect.Name())
	fmt.Fprintf(&b, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintln(&b)

	if !strings.HasSuffix(logFile, best.Dialect.Ext()) {
		fmt.Fprintf(&b, "Note: directory walks only read files ending in %q; pass this file via stdin instead.\n", best.Dialect.Ext())
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, "--- Usage ---")
	fmt.Fprintf(&b, "  elblog --type %s <path>\n", best.Dialect.Name())
	fmt.Fprintln(&b)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(&b, "--- Other matching types ---")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		t := tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
		t.AddHeader("RANK", "TYPE", "CONFIDENCE", "MATCHED")
		for i, m := range result.Matches[1:] {
			t.AddLine(i+2, m.Dialect.Name(), fmt.Sprintf("%.1f%%", m.Confidence*100),
				fmt.Sprintf("%d/%d", m.MatchCount, result.SampledLines))
		}
		t.Print()
		_, err := fmt.Fprintln(w)
		return err
	}
	return nil
}

// JSONMatch represents a dialect match in JSON output.
type JSONMatch struct {
	Type       string  `json:"type"`
	Extension  string  `json:"extension"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string      `json:"file"`
	Compressed   bool        `json:"compressed"`
	Matches      []JSONMatch `json:"matches"`
	SampledLines int         `json:"sampled_lines"`
	ParsedLines  int         `json:"parsed_lines"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:         logFile,
		Compressed:   result.Compressed,
		SampledLines: result.SampledLines,
		ParsedLines:  result.ParsedLines,
		Matches:      make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Type:       m.Dialect.Name(),
			Extension:  m.Dialect.Ext(),
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file for the detected type.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, logFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no load balancer log format detected")
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(generateStarterConfig(logFile, result.BestMatch())), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, err := fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return err
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(logFile string, match *detector.DialectMatch) string {
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	return fmt.Sprintf(`# elblog configuration
# Generated by: elblog detect %s
# Detected type: %s (%.0f%% confidence)

type: %s

# Report lines that do not match and keep going instead of aborting.
skip_parse_errors: false

# Parsing workers; 0 means one per CPU.
workers: 0

# Bound on the internal queues; 0 means unbounded.
queue_capacity: 0

# Longest accepted line in bytes.
max_line_size: %d

# Print a run summary to stderr: text or json.
# stats: text
`, absLogFile, match.Dialect.Name(), match.Confidence*100, match.Dialect.Name(), config.DefaultMaxLineSize)
}
