package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/elblog/pkg/pipeline"
)

func createTestReport() *Report {
	return NewReport(
		pipeline.Stats{Files: 3, Lines: 120, Records: 118, Skipped: 2},
		Metadata{
			Dialect:   "alb",
			Sources:   []string{"/var/log/alb"},
			Workers:   4,
			StartedAt: time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC),
			Duration:  1500 * time.Millisecond,
		},
	)
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		f, err := NewFormatter(name, FormatOptions{})
		if err != nil {
			t.Fatalf("NewFormatter(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("Name() = %q, want %q", f.Name(), name)
		}
	}
	if _, err := NewFormatter("yaml", FormatOptions{}); err == nil {
		t.Error("NewFormatter(yaml) expected error")
	}
}

func TestTextFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(FormatOptions{}).Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Run Summary", "Type: alb", "Files processed: 3", "Records written: 118", "Lines skipped: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/var/log/alb") {
		t.Error("non-verbose output lists sources")
	}
}

func TestTextFormatter_Format_LargeCounts(t *testing.T) {
	report := createTestReport()
	report.Summary.LinesRead = 1234567

	var buf bytes.Buffer
	if err := NewTextFormatter(FormatOptions{}).Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Lines read: 1,234,567") {
		t.Errorf("Format() output missing grouped count:\n%s", buf.String())
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	report := createTestReport()
	report.Metadata.Error = "invalid log line: x"

	var buf bytes.Buffer
	if err := NewTextFormatter(FormatOptions{Verbose: true}).Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"  - /var/log/alb", "Duration: 1.5s", "Stopped early: invalid log line: x"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(FormatOptions{Quiet: true}).Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if want := "elblog: 118 records written, 2 lines skipped\n"; buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(FormatOptions{}).Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Format() produced invalid JSON: %v", err)
	}
	if decoded.Summary.RecordsWritten != 118 || decoded.Metadata.Dialect != "alb" {
		t.Errorf("decoded report = %+v", decoded)
	}
	if decoded.Failed() {
		t.Error("Failed() = true, want false")
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(FormatOptions{Quiet: true}).Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("Format() produced invalid JSON: %v", err)
	}
	if summary.LinesSkipped != 2 || strings.Contains(buf.String(), "metadata") {
		t.Errorf("quiet output = %s", buf.String())
	}
}
