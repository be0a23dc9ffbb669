package parser

import (
	"bytes"
	"regexp/syntax"
	"unicode/utf8"
)

// FailureKind classifies the outcome of Locate.
type FailureKind uint8

const (
	// FailureUnlocalized means the grammar accepts the line, so there is no
	// position to blame.
	FailureUnlocalized FailureKind = iota

	// FailureAtByte means no continuation of line[:Offset+1] can match.
	FailureAtByte

	// FailureEndedEarly means the whole line is a prefix of some valid line
	// but ends before a record is complete. Offset is the content length.
	FailureEndedEarly
)

func (k FailureKind) String() string {
	switch k {
	case FailureAtByte:
		return "at byte"
	case FailureEndedEarly:
		return "ended early"
	default:
		return "unlocalized"
	}
}

// Failure is the position at which a line stops matching a grammar.
type Failure struct {
	Kind   FailureKind
	Offset int
}

// Locate finds the earliest byte of line at which no continuation can lead to
// a record of dialect d. It runs a capture-free automaton over the same
// expression the parser uses, so it agrees with Parse on every input. The
// trailing newline is treated as the terminator, not as content.
func Locate(d *Dialect, line []byte) Failure {
	content := bytes.TrimSuffix(line, []byte("\n"))
	m := &machine{prog: d.prog()}
	return m.run(content)
}

// machine simulates a syntax.Prog on the subset of its states that are
// reachable from the start, one rune at a time.
type machine struct {
	prog *syntax.Prog
}

func (m *machine) run(input []byte) Failure {
	n := len(m.prog.Inst)
	cur, next := newThreadSet(n), newThreadSet(n)
	m.add(cur, uint32(m.prog.Start), emptyFlags(input, 0))

	for pos := 0; pos < len(input); {
		r, width := utf8.DecodeRune(input[pos:])
		flag := emptyFlags(input, pos+width)

		next.clear()
		for _, pc := range cur.dense {
			inst := &m.prog.Inst[pc]
			if matchRune(inst, r) {
				m.add(next, inst.Out, flag)
			}
		}
		if !m.alive(next) {
			return Failure{Kind: FailureAtByte, Offset: pos}
		}

		cur, next = next, cur
		pos += width
	}

	for _, pc := range cur.dense {
		if m.prog.Inst[pc].Op == syntax.InstMatch {
			return Failure{Kind: FailureUnlocalized}
		}
	}
	return Failure{Kind: FailureEndedEarly, Offset: len(input)}
}

// add inserts pc and every state reachable from it through empty transitions
// that are satisfied by flag.
func (m *machine) add(set *threadSet, pc uint32, flag syntax.EmptyOp) {
	if set.contains(pc) {
		return
	}
	set.insert(pc)

	inst := &m.prog.Inst[pc]
	switch inst.Op {
	case syntax.InstAlt, syntax.InstAltMatch:
		m.add(set, inst.Out, flag)
		m.add(set, inst.Arg, flag)
	case syntax.InstCapture, syntax.InstNop:
		m.add(set, inst.Out, flag)
	case syntax.InstEmptyWidth:
		if syntax.EmptyOp(inst.Arg)&^flag == 0 {
			m.add(set, inst.Out, flag)
		}
	}
}

// alive reports whether any thread in set can still consume input or accept.
func (m *machine) alive(set *threadSet) bool {
	for _, pc := range set.dense {
		switch m.prog.Inst[pc].Op {
		case syntax.InstRune, syntax.InstRune1, syntax.InstRuneAny, syntax.InstRuneAnyNotNL, syntax.InstMatch:
			return true
		}
	}
	return false
}

func matchRune(inst *syntax.Inst, r rune) bool {
	switch inst.Op {
	case syntax.InstRune, syntax.InstRune1:
		return inst.MatchRune(r)
	case syntax.InstRuneAny:
		return true
	case syntax.InstRuneAnyNotNL:
		return r != '\n'
	}
	return false
}

// emptyFlags returns the zero-width assertions that hold at pos.
func emptyFlags(input []byte, pos int) syntax.EmptyOp {
	r1, r2 := rune(-1), rune(-1)
	if pos > 0 {
		r1, _ = utf8.DecodeLastRune(input[:pos])
	}
	if pos < len(input) {
		r2, _ = utf8.DecodeRune(input[pos:])
	}
	return syntax.EmptyOpContext(r1, r2)
}

// threadSet is a sparse set of instruction indexes with insertion order.
type threadSet struct {
	sparse []uint32
	dense  []uint32
}

func newThreadSet(n int) *threadSet {
	return &threadSet{sparse: make([]uint32, n), dense: make([]uint32, 0, n)}
}

func (s *threadSet) contains(pc uint32) bool {
	i := s.sparse[pc]
	return int(i) < len(s.dense) && s.dense[i] == pc
}

func (s *threadSet) insert(pc uint32) {
	s.sparse[pc] = uint32(len(s.dense))
	s.dense = append(s.dense, pc)
}

func (s *threadSet) clear() {
	s.dense = s.dense[:0]
}
