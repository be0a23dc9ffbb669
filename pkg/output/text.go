package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "elblog: %d records written, %d lines skipped\n",
		report.Summary.RecordsWritten,
		report.Summary.LinesSkipped)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintln(&b, "=== elblog Run Summary ===")
	fmt.Fprintf(&b, "Type: %s\n", report.Metadata.Dialect)
	if report.Metadata.Workers > 0 {
		fmt.Fprintf(&b, "Workers: %d\n", report.Metadata.Workers)
	}
	fmt.Fprintf(&b, "Files processed: %s\n", humanize.Comma(report.Summary.FilesProcessed))
	fmt.Fprintf(&b, "Lines read: %s\n", humanize.Comma(report.Summary.LinesRead))
	fmt.Fprintf(&b, "Records written: %s\n", humanize.Comma(report.Summary.RecordsWritten))
	fmt.Fprintf(&b, "Lines skipped: %s\n", humanize.Comma(report.Summary.LinesSkipped))

	if f.opts.Verbose {
		if len(report.Metadata.Sources) > 0 {
			fmt.Fprintln(&b, "Sources:")
			for _, s := range report.Metadata.Sources {
				fmt.Fprintf(&b, "  - %s\n", s)
			}
		}
		fmt.Fprintf(&b, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	if report.Failed() {
		fmt.Fprintf(&b, "Stopped early: %s\n", report.Metadata.Error)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
