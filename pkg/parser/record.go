package parser

// Parser matches lines against one dialect. Each goroutine must own its
// Parser; the compiled grammar behind it is shared and read-only.
type Parser struct {
	dialect *Dialect
}

// NewParser creates a parser for the given dialect.
func NewParser(d *Dialect) *Parser {
	return &Parser{dialect: d}
}

// Dialect returns the dialect this parser matches.
func (p *Parser) Dialect() *Dialect {
	return p.dialect
}

// Parse matches one line, with or without its trailing newline.
//
// On success every field of the returned Record is a sub-slice of line. The
// Record is valid until line is modified.
// On failure the zero Record and a *MismatchError are returned.
func (p *Parser) Parse(line []byte) (Record, error) {
	locs := p.dialect.re.FindSubmatchIndex(line)
	if locs == nil {
		return Record{}, newMismatchError(p.dialect, line)
	}
	return Record{dialect: p.dialect, line: line, locs: locs}, nil
}

// Record is one parsed line. Values are views into the parsed line and are
// never copied.
type Record struct {
	dialect *Dialect
	line    []byte
	locs    []int
}

// Dialect returns the dialect the record was parsed with, or nil for the
// zero Record.
func (r Record) Dialect() *Dialect {
	return r.dialect
}

// Len returns the number of fields.
func (r Record) Len() int {
	if r.dialect == nil {
		return 0
	}
	return len(r.dialect.fields)
}

// Key returns the name of field i.
func (r Record) Key(i int) string {
	return r.dialect.fields[i]
}

// Value returns the bytes of field i.
func (r Record) Value(i int) []byte {
	start, end := r.locs[2*(i+1)], r.locs[2*(i+1)+1]
	if start < 0 {
		return nil
	}
	return r.line[start:end:end]
}

// Offset returns the byte offset of field i within the line.
func (r Record) Offset(i int) int {
	return r.locs[2*(i+1)]
}

// Field returns the bytes of the named field.
func (r Record) Field(name string) ([]byte, bool) {
	for i := 0; i < r.Len(); i++ {
		if r.dialect.fields[i] == name {
			return r.Value(i), true
		}
	}
	return nil, false
}
