package subst

import (
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Unify computes a most general unifier of a and b with an occurs check,
// Robinson-style. The returned substitution is closed (idempotent); use
// UnifyTriangular to get the raw, uncomposed form.
func Unify(sig *term.Signature, a, b term.Term) (*Subst, bool) {
	s, ok := UnifyTriangular(sig, a, b)
	if !ok {
		return nil, false
	}
	return Close(sig, s), true
}

// UnifyTriangular computes a unifier and returns it without closing: later
// bindings may mention variables bound earlier in the same substitution.
func UnifyTriangular(sig *term.Signature, a, b term.Term) (*Subst, bool) {
	s := New()
	if !unifyInto(sig, s, a, b) {
		return nil, false
	}
	return s, true
}

// resolve follows a triangular chain of variable bindings in s one level
// at a time until it reaches a non-variable or an unbound variable.
func resolve(s *Subst, t term.Term) term.Term {
	for t.IsVar() {
		image, ok := s.Lookup(t.VarID())
		if !ok {
			return t
		}
		t = image
	}
	return t
}

func unifyInto(sig *term.Signature, s *Subst, a, b term.Term) bool {
	a = resolve(s, a)
	b = resolve(s, b)
	if a.IsVar() && b.IsVar() && a.VarID() == b.VarID() {
		return true
	}
	if a.IsVar() {
		if occursIn(sig, s, a.VarID(), b) {
			return false
		}
		return s.Bind(a.VarID(), b)
	}
	if b.IsVar() {
		if occursIn(sig, s, b.VarID(), a) {
			return false
		}
		return s.Bind(b.VarID(), a)
	}
	if a.FuncID() != b.FuncID() {
		return false
	}
	ac, bc := a.Args(sig).Terms(), b.Args(sig).Terms()
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !unifyInto(sig, s, ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// occursIn reports whether v occurs free in t, resolving t through s first.
// It is the occurs check that rules out cyclic bindings such as X = f(X).
func occursIn(sig *term.Signature, s *Subst, v term.VarID, t term.Term) bool {
	t = resolve(s, t)
	if t.IsVar() {
		return t.VarID() == v
	}
	for _, c := range t.Args(sig).Terms() {
		if occursIn(sig, s, v, c) {
			return true
		}
	}
	return false
}
