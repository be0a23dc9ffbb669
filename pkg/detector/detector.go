// Package detector guesses the load balancer log dialect of a file by
// matching a sample of its lines against every known grammar.
package detector

import (
	"context"
	"sort"

	"github.com/ccollicutt/elblog/pkg/parser"
)

// DefaultSampleSize is the number of lines read when no size is given.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a log file.
type DetectionResult struct {
	Matches      []DialectMatch // Dialects that matched, sorted by confidence descending
	SampledLines int            // Number of lines sampled
	ParsedLines  int            // Number of lines accepted by the best match
	Compressed   bool           // Whether the sample was read through gzip
}

// DialectMatch is a dialect that accepted at least one sampled line.
type DialectMatch struct {
	Dialect    *parser.Dialect
	Confidence float64 // 0.0 to 1.0 (share of sampled lines accepted)
	MatchCount int
	SampleLine string
}

// Detector samples log lines to identify their dialect.
type Detector struct {
	dialects   []*parser.Dialect
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithDialects restricts detection to the given dialects.
func WithDialects(dialects ...*parser.Dialect) Option {
	return func(d *Detector) {
		if len(dialects) > 0 {
			d.dialects = dialects
		}
	}
}

// New creates a new Detector for every supported dialect.
func New(opts ...Option) *Detector {
	d := &Detector{
		dialects:   parser.Dialects(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a log file, gunzipping it when needed, and returns
// the dialects that match.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, compressed, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	result := d.DetectFromLines(lines)
	result.Compressed = compressed
	return result, nil
}

// DetectFromLines matches each line against every dialect.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}

	if len(lines) == 0 {
		return result
	}

	for _, dialect := range d.dialects {
		p := parser.NewParser(dialect)
		m := DialectMatch{Dialect: dialect}
		for _, line := range lines {
			if _, err := p.Parse([]byte(line)); err != nil {
				continue
			}
			if m.MatchCount == 0 {
				m.SampleLine = line
			}
			m.MatchCount++
		}
		if m.MatchCount == 0 {
			continue
		}
		m.Confidence = float64(m.MatchCount) / float64(len(lines))
		result.Matches = append(result.Matches, m)
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
	}

	return result
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *DialectMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one dialect matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
