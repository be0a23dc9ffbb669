package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ccollicutt/elblog/pkg/parser"
)

const (
	skippingHeader = "Failed to parse following line, skipping:"
	abortingHeader = "Aborting due to parsing failure:"
	endedEarlyNote = "(expected next input, but received none)"
)

// StderrIsTerminal reports whether standard error is a terminal. The answer
// is computed once per process.
var StderrIsTerminal = sync.OnceValue(func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
})

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	if w == os.Stderr {
		return StderrIsTerminal()
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Reporter writes one diagnostic per rejected line. It is safe for
// concurrent use.
type Reporter struct {
	mu      sync.Mutex
	w       io.Writer
	colored bool

	warn    *color.Color
	fail    *color.Color
	blame   *color.Color
	rest    *color.Color
	missing *color.Color
}

// NewReporter returns a Reporter writing to w. With colored set, the
// offending byte of each line is highlighted; otherwise each diagnostic is a
// single plain line.
func NewReporter(w io.Writer, colored bool) *Reporter {
	return &Reporter{
		w:       w,
		colored: colored,
		warn:    newColor(colored, color.FgYellow),
		fail:    newColor(colored, color.FgRed),
		blame:   newColor(colored, color.Bold, color.FgHiRed, color.Underline),
		rest:    newColor(colored, color.FgHiBlack),
		missing: newColor(colored, color.FgHiRed),
	}
}

// newColor returns a color that ignores the global NoColor setting, which
// only looks at standard output.
func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Report writes the diagnostic for err.
func (r *Reporter) Report(err *parser.MismatchError, skipping bool) {
	var msg string
	if r.colored {
		msg = r.render(err, skipping)
	} else if skipping {
		msg = "Skipping error: " + err.Error() + "\n"
	} else {
		msg = "Error: " + err.Error() + "\n"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.w, msg)
}

func (r *Reporter) render(err *parser.MismatchError, skipping bool) string {
	var b strings.Builder
	if skipping {
		b.WriteString(r.warn.Sprint(skippingHeader))
	} else {
		b.WriteString(r.fail.Sprint(abortingHeader))
	}
	b.WriteString("\n    ")

	line := err.Line
	f := err.Locate()
	switch {
	case f.Kind == parser.FailureAtByte && f.Offset < len(line):
		b.WriteString(lossy(line[:f.Offset]))
		b.WriteString(r.blame.Sprint(lossy(line[f.Offset : f.Offset+1])))
		b.WriteString(r.rest.Sprint(trimEOL(lossy(line[f.Offset+1:]))))
	case f.Kind == parser.FailureEndedEarly:
		fmt.Fprintf(&b, "%s %s", trimEOL(lossy(line)), r.missing.Sprint(endedEarlyNote))
	default:
		b.WriteString(trimEOL(lossy(line)))
	}
	b.WriteString("\n\n")
	return b.String()
}

func lossy(b []byte) string {
	return string(bytes.ToValidUTF8(b, []byte("\uFFFD")))
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
