// Package kbo implements the Knuth-Bendix Ordering and its ground-extension
// models. Comparisons walk the flatterm buffer directly (weight is a sum
// over the whole symbol run) rather than recursing through a pointer tree.
package kbo

import (
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Order is the result of comparing two terms.
type Order int

const (
	Less Order = iota
	Equal
	Greater
	Incomparable
)

// varWeight is the fixed weight contributed by each variable occurrence.
// The implementation assumes every declared function symbol carries a
// strictly positive weight; this rules out the classical "unary symbol of
// weight zero" corner case of KBO, which this implementation does not
// exercise.
const varWeight = uint32(1)

// Weight returns the KBO weight of t: the sum of every symbol's weight,
// taking advantage of the flatterm layout (weight is just a fold over the
// buffer, no tree walk needed).
func Weight(sig *term.Signature, t term.Term) uint32 {
	var w uint32
	for _, s := range t {
		if s.IsVar() {
			w += varWeight
			continue
		}
		w += sig.Def(s.FuncID()).Weight
	}
	return w
}

func varCount(t term.Term, v term.VarID) int {
	n := 0
	for _, s := range t {
		if s.IsVar() && s.VarID() == v {
			n++
		}
	}
	return n
}

// varCondition reports whether, for every variable x occurring in t,
// #x(s) >= #x(t). This is necessary for s >= t to hold for every ground
// instance, since each variable contributes positive weight.
func varCondition(s, t term.Term) bool {
	for _, v := range term.Vars(t) {
		if varCount(s, v) < varCount(t, v) {
			return false
		}
	}
	return true
}

func isMinimal(sig *term.Signature, t term.Term) bool {
	if t.IsVar() {
		return false
	}
	return sig.Def(t.FuncID()).Minimal
}

// greater reports whether s is universally greater than t: s > t for
// every ground instance of both.
func greater(sig *term.Signature, s, t term.Term) bool {
	if term.Equal(s, t) {
		return false
	}
	if isMinimal(sig, t) && !isMinimal(sig, s) {
		return true
	}
	if isMinimal(sig, s) {
		return false
	}
	if !varCondition(s, t) {
		return false
	}
	ws, wt := Weight(sig, s), Weight(sig, t)
	if ws > wt {
		return true
	}
	if ws < wt {
		return false
	}
	// Equal weight: a bare variable can never be strictly greater.
	if s.IsVar() {
		return false
	}
	if t.IsVar() {
		// s is compound, weight-tied with a variable it must contain
		// (by varCondition); under the positive-weight assumption this
		// can only happen if s's own head has weight zero, which is
		// excluded — treat conservatively as not greater.
		return false
	}
	fs, ft := s.FuncID(), t.FuncID()
	if fs != ft {
		return sig.Def(fs).Precedence > sig.Def(ft).Precedence
	}
	sargs, targs := s.Args(sig).Terms(), t.Args(sig).Terms()
	for i := range sargs {
		if term.Equal(sargs[i], targs[i]) {
			continue
		}
		return greater(sig, sargs[i], targs[i])
	}
	return false
}

// Compare returns the KBO relation between s and t, universally over all
// ground instances. Incomparable covers both genuinely incomparable terms
// and terms whose relation depends on the instantiation (see Model for
// the instance-fixing alternative).
func Compare(sig *term.Signature, s, t term.Term) Order {
	if term.Equal(s, t) {
		return Equal
	}
	if greater(sig, s, t) {
		return Greater
	}
	if greater(sig, t, s) {
		return Less
	}
	return Incomparable
}

// LessEq reports whether s <= t holds universally, i.e. for every ground
// instance of s and t.
func LessEq(sig *term.Signature, s, t term.Term) bool {
	o := Compare(sig, s, t)
	return o == Less || o == Equal
}

// LessThan reports whether s < t holds universally.
func LessThan(sig *term.Signature, s, t term.Term) bool {
	return Compare(sig, s, t) == Less
}
