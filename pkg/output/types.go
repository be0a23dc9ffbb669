// Package output renders diagnostics for rejected lines and run summaries.
package output

import (
	"time"

	"github.com/ccollicutt/elblog/pkg/pipeline"
)

// Report describes one finished conversion run.
type Report struct {
	// Summary provides the run counters.
	Summary Summary `json:"summary"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// FilesProcessed is the number of log files opened. Zero in stream mode.
	FilesProcessed int64 `json:"files_processed"`

	// LinesRead is the number of lines read, rejected ones included.
	LinesRead int64 `json:"lines_read"`

	// RecordsWritten is the number of JSON records handed to the writer.
	RecordsWritten int64 `json:"records_written"`

	// LinesSkipped is the number of rejected lines that were skipped.
	LinesSkipped int64 `json:"lines_skipped"`
}

// Metadata provides context about the run.
type Metadata struct {
	Dialect   string        `json:"dialect"`
	Sources   []string      `json:"sources"`
	Workers   int           `json:"workers,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Error     string        `json:"error,omitempty"`
}

// NewReport creates a Report from pipeline statistics.
func NewReport(stats pipeline.Stats, meta Metadata) *Report {
	return &Report{
		Summary: Summary{
			FilesProcessed: stats.Files,
			LinesRead:      stats.Lines,
			RecordsWritten: stats.Records,
			LinesSkipped:   stats.Skipped,
		},
		Metadata: meta,
	}
}

// Failed returns true if the run ended with an error.
func (r *Report) Failed() bool {
	return r.Metadata.Error != ""
}
