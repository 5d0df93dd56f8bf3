package kbo

import (
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Verdict refines a Model's answer to a "does s <= t" query.
type Verdict int

const (
	// Strict means s < t is guaranteed in every ground instance
	// compatible with the model.
	Strict Verdict = iota
	// Nonstrict means s <= t holds but equality is possible (s and t
	// denote the same value under some instance compatible with M).
	Nonstrict
)

// Model fixes a total preorder on a finite set of variables, used to
// decide orientations that the universal ordering leaves Incomparable.
// Variables not mentioned by the model carry no
// information and make any comparison that depends on them return "no
// verdict" (the None case of LessIn).
//
// The preorder is represented as a sequence of equivalence classes
// ("groups"), ordered from smallest to largest; WeakenModel coarsens it by
// merging two adjacent groups.
type Model struct {
	groups  [][]term.VarID
	groupOf map[term.VarID]int
}

// ModelFromOrder builds the model that requires vs, read left to right,
// to be a strictly increasing chain of singleton classes — i.e. the
// finest model consistent with that variable order.
func ModelFromOrder(vs []term.VarID) *Model {
	m := &Model{groupOf: make(map[term.VarID]int, len(vs))}
	for i, v := range vs {
		m.groups = append(m.groups, []term.VarID{v})
		m.groupOf[v] = i
	}
	return m
}

// WeakenModel enumerates every model obtained from m by merging one pair
// of adjacent classes into a single, tied class. Completion uses this to
// shrink a counterexample model until it stops giving a useful verdict.
func WeakenModel(m *Model) []*Model {
	var out []*Model
	for i := 0; i+1 < len(m.groups); i++ {
		merged := make([][]term.VarID, 0, len(m.groups)-1)
		merged = append(merged, m.groups[:i]...)
		combined := append(append([]term.VarID{}, m.groups[i]...), m.groups[i+1]...)
		merged = append(merged, combined)
		merged = append(merged, m.groups[i+2:]...)
		groupOf := make(map[term.VarID]int, len(m.groupOf))
		for gi, g := range merged {
			for _, v := range g {
				groupOf[v] = gi
			}
		}
		out = append(out, &Model{groups: merged, groupOf: groupOf})
	}
	return out
}

// rank returns v's class index in m, if the model has an opinion about v.
func (m *Model) rank(v term.VarID) (int, bool) {
	i, ok := m.groupOf[v]
	return i, ok
}

func modelCompare(sig *term.Signature, m *Model, s, t term.Term) (Order, bool) {
	if term.Equal(s, t) {
		return Equal, true
	}
	sMin, tMin := isMinimal(sig, s), isMinimal(sig, t)
	if sMin && !tMin {
		return Less, true
	}
	if tMin && !sMin {
		return Greater, true
	}
	ws, wt := Weight(sig, s), Weight(sig, t)
	if ws < wt {
		return Less, true
	}
	if ws > wt {
		return Greater, true
	}
	switch {
	case s.IsVar() && t.IsVar():
		gi, ok1 := m.rank(s.VarID())
		gj, ok2 := m.rank(t.VarID())
		if !ok1 || !ok2 {
			return 0, false
		}
		if gi < gj {
			return Less, true
		}
		if gi > gj {
			return Greater, true
		}
		return Equal, true
	case s.IsVar() != t.IsVar():
		// Weight-tied bare variable vs. compound term: underdetermined
		// without a zero-weight symbol, which this implementation
		// excludes (see Compare). Report no verdict rather than guess.
		return 0, false
	default:
		fs, ft := s.FuncID(), t.FuncID()
		if fs != ft {
			ps, pt := sig.Def(fs).Precedence, sig.Def(ft).Precedence
			if ps < pt {
				return Less, true
			}
			return Greater, true
		}
		sargs, targs := s.Args(sig).Terms(), t.Args(sig).Terms()
		for i := range sargs {
			if term.Equal(sargs[i], targs[i]) {
				continue
			}
			return modelCompare(sig, m, sargs[i], targs[i])
		}
		return Equal, true
	}
}

// LessIn answers "does s <= t hold under m": Just(Strict) if s < t is
// forced, Just(Nonstrict) if s <= t with equality possible, or None if m
// does not decide the relation (including the case where m decides
// s > t — greater is reported as "not <=", not as a separate verdict).
func LessIn(sig *term.Signature, m *Model, s, t term.Term) (Verdict, bool) {
	o, ok := modelCompare(sig, m, s, t)
	if !ok {
		return 0, false
	}
	switch o {
	case Less:
		return Strict, true
	case Equal:
		return Nonstrict, true
	default:
		return 0, false
	}
}
