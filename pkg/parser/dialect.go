// Package parser implements the AWS load-balancer access-log grammars, the
// record model built on top of them and the locator used to explain lines
// that do not match.
package parser

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
	"sync"
)

// Expression fragments shared by both dialects.
const (
	timestampExpr = `[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}\.[0-9]{6}Z`
	ipv4Expr      = `[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}`
	portExpr      = `[0-9]{1,5}`
	ipPortExpr    = ipv4Expr + `:` + portExpr
	durationExpr  = `[0-9]+\.[0-9]+|-1`
	countExpr     = `[0-9]+`
	cipherExpr    = `[0-9A-Z-]+`
	tlsExpr       = `TLSv[0-9.]+|-`

	// quotedTextExpr is the body of a quoted field: any byte but a newline,
	// a backslash or a quote, or one of the escapes \" \\ \xHH \xHHHHHHHH.
	quotedTextExpr = `(?:[^\n\\"]|\\"|\\\\|\\x(?:[0-9a-f]{8}|[0-9a-f]{2}))*`
)

// Dialect is one access-log line grammar. The zero value is not usable; use
// ALB, ClassicLB or Lookup.
type Dialect struct {
	name       string
	ext        string
	compressed bool
	fields     []string
	pattern    string
	re         *regexp.Regexp
	prog       func() *syntax.Prog
}

// Name returns the identifier used on the command line.
func (d *Dialect) Name() string { return d.name }

// Ext returns the file-name suffix of log files of this dialect.
func (d *Dialect) Ext() string { return d.ext }

// Compressed reports whether log files of this dialect are gzip streams.
func (d *Dialect) Compressed() bool { return d.compressed }

// Fields returns the record keys in grammar order.
func (d *Dialect) Fields() []string {
	return append([]string(nil), d.fields...)
}

// Pattern returns the anchored regular expression of the grammar.
func (d *Dialect) Pattern() string { return d.pattern }

func (d *Dialect) String() string { return d.name }

// Dialects returns every supported dialect.
func Dialects() []*Dialect {
	return []*Dialect{ALB, ClassicLB}
}

// Lookup returns the dialect with the given command-line name.
func Lookup(name string) (*Dialect, error) {
	names := make([]string, 0, 2)
	for _, d := range Dialects() {
		if d.name == name {
			return d, nil
		}
		names = append(names, d.name)
	}
	return nil, fmt.Errorf("unknown load balancer type %q (must be %s)", name, strings.Join(names, " or "))
}

// grammar assembles a dialect expression from delimiters and named captures.
type grammar struct {
	sb     strings.Builder
	fields []string
}

func (g *grammar) capture(name, expr string) *grammar {
	g.fields = append(g.fields, name)
	g.sb.WriteString("(")
	g.sb.WriteString(expr)
	g.sb.WriteString(")")
	return g
}

func (g *grammar) literal(s string) *grammar {
	g.sb.WriteString(regexp.QuoteMeta(s))
	return g
}

func (g *grammar) space() *grammar {
	return g.literal(" ")
}

func newDialect(name, ext string, compressed bool, build func(g *grammar)) *Dialect {
	g := &grammar{}
	build(g)

	pattern := `^` + g.sb.String() + `\n?$`
	re := regexp.MustCompile(pattern)
	if re.NumSubexp() != len(g.fields) {
		panic(fmt.Sprintf("parser: %s grammar has %d groups for %d fields", name, re.NumSubexp(), len(g.fields)))
	}

	return &Dialect{
		name:       name,
		ext:        ext,
		compressed: compressed,
		fields:     g.fields,
		pattern:    pattern,
		re:         re,
		prog:       sync.OnceValue(func() *syntax.Prog { return compileProg(pattern) }),
	}
}

// compileProg compiles the pattern the same way regexp does, keeping the
// instruction program for the locator.
func compileProg(pattern string) *syntax.Prog {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		panic(fmt.Sprintf("parser: %v", err))
	}
	prog, err := syntax.Compile(re.Simplify())
	if err != nil {
		panic(fmt.Sprintf("parser: %v", err))
	}
	return prog
}
