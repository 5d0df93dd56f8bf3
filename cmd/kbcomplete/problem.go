package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arborist-dev/kbcomplete/internal/saturate"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// symbolDecl is one entry of a problem file's signature block.
type symbolDecl struct {
	Name    string `yaml:"name"`
	Arity   int    `yaml:"arity"`
	Weight  uint32 `yaml:"weight"`
	Minimal bool   `yaml:"minimal"`
}

// equationDecl is one lhs/rhs pair, shared by axioms and goals.
type equationDecl struct {
	Name string `yaml:"name"`
	LHS  string `yaml:"lhs"`
	RHS  string `yaml:"rhs"`
}

// problemFile is the minimal, explicitly-not-TPTP problem format
// cmd/kbcomplete reads: a signature block and two lists of equations
// written as parenthesised terms, e.g. "*(0, X0)".
type problemFile struct {
	Signature []symbolDecl   `yaml:"signature"`
	Axioms    []equationDecl `yaml:"axioms"`
	Goals     []equationDecl `yaml:"goals"`
}

// Problem is a loaded problem file, ready to feed into a fresh State.
type Problem struct {
	Sig    *term.Signature
	Axioms []saturate.Equation
	Goals  []struct {
		Name string
		Eq   saturate.Equation
	}
}

// loadProblem reads path as YAML and parses every term against the
// declared signature.
func loadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf problemFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	sig := term.NewSignature()
	for _, s := range pf.Signature {
		f := sig.Declare(s.Name, s.Arity, s.Weight)
		if s.Minimal {
			sig.SetMinimal(f)
		}
	}

	p := &Problem{Sig: sig}
	for _, a := range pf.Axioms {
		lhs, err := parseTerm(sig, a.LHS)
		if err != nil {
			return nil, fmt.Errorf("axiom %q lhs: %w", a.LHS, err)
		}
		rhs, err := parseTerm(sig, a.RHS)
		if err != nil {
			return nil, fmt.Errorf("axiom %q rhs: %w", a.RHS, err)
		}
		p.Axioms = append(p.Axioms, saturate.Equation{LHS: lhs, RHS: rhs})
	}
	for i, g := range pf.Goals {
		lhs, err := parseTerm(sig, g.LHS)
		if err != nil {
			return nil, fmt.Errorf("goal %q lhs: %w", g.LHS, err)
		}
		rhs, err := parseTerm(sig, g.RHS)
		if err != nil {
			return nil, fmt.Errorf("goal %q rhs: %w", g.RHS, err)
		}
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("goal%d", i+1)
		}
		p.Goals = append(p.Goals, struct {
			Name string
			Eq   saturate.Equation
		}{Name: name, Eq: saturate.Equation{LHS: lhs, RHS: rhs}})
	}
	return p, nil
}

// termParser recursive-descends a term written over sig's declared
// symbols, e.g. "f(X0, g(X1), c)". Variables are written "X" followed by
// a non-negative integer; anything else must resolve via sig.Lookup.
// Builder.EmitFunc takes an error-less body closure, so parse errors are
// threaded through p.err instead of a return value and checked between
// recursive descents.
type termParser struct {
	sig *term.Signature
	s   string
	pos int
	err error
}

func parseTerm(sig *term.Signature, s string) (term.Term, error) {
	p := &termParser{sig: sig, s: s}
	b := term.NewBuilder(sig)
	p.parseInto(b)
	if p.err != nil {
		return nil, p.err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("unexpected trailing input at %d in %q", p.pos, s)
	}
	return b.Term(), nil
}

func (p *termParser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t' || p.s[p.pos] == '\n') {
		p.pos++
	}
}

func (p *termParser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

// parseInto emits one term at the builder's current position: a
// variable, or a declared function symbol optionally followed by a
// parenthesised, comma-separated argument list matching its arity.
func (p *termParser) parseInto(b *term.Builder) {
	if p.err != nil {
		return
	}
	p.skipSpace()
	name := p.readName()
	if p.err != nil {
		return
	}
	if strings.HasPrefix(name, "X") {
		if n, err := strconv.Atoi(name[1:]); err == nil {
			b.EmitVar(term.VarID(n))
			return
		}
	}
	f, ok := p.sig.Lookup(name)
	if !ok {
		p.fail("undeclared symbol %q at %d", name, p.pos)
		return
	}
	arity := p.sig.Def(f).Arity
	p.skipSpace()
	hasParen := p.pos < len(p.s) && p.s[p.pos] == '('
	if !hasParen {
		if arity != 0 {
			p.fail("symbol %q needs %d argument(s)", name, arity)
			return
		}
		b.EmitConst(f)
		return
	}
	p.pos++ // consume '('
	b.EmitFunc(f, func(b *term.Builder) {
		for i := 0; i < arity; i++ {
			if i > 0 {
				p.skipSpace()
				if p.pos >= len(p.s) || p.s[p.pos] != ',' {
					p.fail("expected ',' before argument %d of %q at %d", i, name, p.pos)
					return
				}
				p.pos++
			}
			p.parseInto(b)
			if p.err != nil {
				return
			}
		}
	})
	if p.err != nil {
		return
	}
	p.skipSpace()
	if p.pos >= len(p.s) || p.s[p.pos] != ')' {
		p.fail("expected ')' closing %q at %d", name, p.pos)
		return
	}
	p.pos++
}

func (p *termParser) readName() string {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '(' || c == ')' || c == ',' || c == ' ' || c == '\t' || c == '\n' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		p.fail("expected symbol at %d in %q", start, p.s)
		return ""
	}
	return p.s[start:p.pos]
}
