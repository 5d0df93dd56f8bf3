package term

import (
	"fmt"
	"strings"
)

// Term is a slice of the flatterm buffer: the first symbol's header gives
// the extent of the whole subterm. Terms are immutable once built; callers
// that need a standalone copy should use Term.Clone.
type Term []Symbol

// TermList is zero or more Terms laid out back to back. It has no header
// of its own; boundaries are discovered by walking each term's size.
type TermList []Symbol

// Root returns the head symbol of t.
func (t Term) Root() Symbol { return t[0] }

// IsVar reports whether t is a bare variable.
func (t Term) IsVar() bool { return t[0].IsVar() }

// VarID returns t's variable id. Only meaningful if IsVar() is true.
func (t Term) VarID() VarID { return t[0].VarID() }

// FuncID returns t's head function id. Only meaningful if IsVar() is false.
func (t Term) FuncID() FuncID { return t[0].FuncID() }

// Size returns the number of symbols in t, t's head included.
func (t Term) Size() int {
	if t[0].IsVar() {
		return 1
	}
	return int(t[0].Size())
}

// Args returns t's direct children as a TermList, given the arity recorded
// in sig. It panics if t is a variable.
func (t Term) Args(sig *Signature) TermList {
	if t.IsVar() {
		panic("term.Term.Args: variable has no arguments")
	}
	return TermList(t[1:t.Size()])
}

// Clone returns a standalone copy of t, safe to mutate or outlive the
// buffer it was sliced from.
func (t Term) Clone() Term {
	c := make(Term, len(t))
	copy(c, t)
	return c
}

// Equal reports whether s and t are syntactically identical flatterms.
func Equal(s, t Term) bool {
	if len(s) != len(t) {
		return false
	}
	for i := range s {
		if s[i] != t[i] {
			return false
		}
	}
	return true
}

// Len returns the number of terms contained in l.
func (l TermList) Len() int {
	n := 0
	for len(l) > 0 {
		l = l.Rest()
		n++
	}
	return n
}

// Head returns the first term in l. It panics if l is empty.
func (l TermList) Head() Term {
	if len(l) == 0 {
		panic("term.TermList.Head: empty list")
	}
	size := 1
	if !l[0].IsVar() {
		size = int(l[0].Size())
	}
	return Term(l[:size])
}

// Rest returns l without its first term.
func (l TermList) Rest() TermList {
	h := l.Head()
	return l[len(h):]
}

// Terms splits l into its constituent Terms.
func (l TermList) Terms() []Term {
	var ts []Term
	for len(l) > 0 {
		ts = append(ts, l.Head())
		l = l.Rest()
	}
	return ts
}

// At returns the i-th term in l (0-indexed).
func (l TermList) At(i int) Term {
	for j := 0; j < i; j++ {
		l = l.Rest()
	}
	return l.Head()
}

// NonVarPositions returns every absolute position in t (0-indexed from t's
// root) whose symbol is a function occurrence, in pre-order. Position 0 is
// always included unless t itself is a bare variable.
func NonVarPositions(t Term) []int {
	var positions []int
	for i := 0; i < len(t); {
		s := t[i]
		if !s.IsVar() {
			positions = append(positions, i)
			i++
			continue
		}
		i++
	}
	return positions
}

// SubtermAt returns the subterm of t rooted at absolute position pos.
func SubtermAt(t Term, pos int) Term {
	rest := Term(t[pos:])
	return Term(rest[:rest.Size()])
}

// PathToPosition converts a root-to-node path (a sequence of child indices)
// into the absolute, 0-indexed position within t. The empty path denotes
// the root, position 0.
func PathToPosition(t Term, sig *Signature, path []int) int {
	pos := 0
	for _, idx := range path {
		cur := Term(t[pos:])
		childPos := pos + 1
		c := cur.Args(sig)
		for i := 0; i < idx; i++ {
			childPos += c.Head().Size()
			c = c.Rest()
		}
		pos = childPos
	}
	return pos
}

// PositionToPath is the inverse of PathToPosition: given an absolute
// position 0 <= n < t.Size(), it returns the path from the root to n.
func PositionToPath(t Term, sig *Signature, n int) []int {
	var path []int
	pos := 0
	for pos != n {
		cur := Term(t[pos:])
		childPos := pos + 1
		idx := 0
		c := cur.Args(sig)
		for {
			h := c.Head()
			if n < childPos+h.Size() {
				path = append(path, idx)
				pos = childPos
				break
			}
			childPos += h.Size()
			c = c.Rest()
			idx++
		}
	}
	return path
}

// HasVar reports whether t contains any variable occurrence.
func (t Term) HasVar() bool {
	for _, s := range t {
		if s.IsVar() {
			return true
		}
	}
	return false
}

// Vars returns the distinct variables occurring in t, in first-occurrence
// order.
func Vars(t Term) []VarID {
	var vs []VarID
	seen := make(map[VarID]struct{})
	for _, s := range t {
		if !s.IsVar() {
			continue
		}
		v := s.VarID()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		vs = append(vs, v)
	}
	return vs
}

// String renders t without a signature, naming each function symbol by
// its id, e.g. "f2(X0, f1(X1))"; Format renders declared names.
func (t Term) String() string {
	return formatTerm(t, nil)
}

// Format renders t using sig's declared names for function symbols.
func Format(t Term, sig *Signature) string {
	return formatTerm(t, sig)
}

func formatTerm(t Term, sig *Signature) string {
	if t.IsVar() {
		return fmt.Sprintf("X%d", t.VarID())
	}
	name := fmt.Sprintf("f%d", t.FuncID())
	var args TermList
	if sig != nil {
		def := sig.Def(t.FuncID())
		name = def.Name
		args = t.Args(sig)
	} else {
		args = TermList(t[1:t.Size()])
	}
	children := args.Terms()
	if len(children) == 0 {
		return name
	}
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = formatTerm(c, sig)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}
