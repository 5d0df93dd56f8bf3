// Package subst implements substitutions and the syntactic operations
// built on them: application, matching, unification and composition. The
// builder/application style mirrors a deref/bind discipline adapted from
// a mutable ref-cell heap to this engine's immutable flatterms.
package subst

import (
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Subst maps variable ids to terms. The zero value is an empty,
// immediately usable substitution — an append-only builder representation
// that callers close into idempotent form with Close when needed.
type Subst struct {
	m map[term.VarID]term.Term
}

// New returns an empty substitution.
func New() *Subst {
	return &Subst{m: make(map[term.VarID]term.Term)}
}

// Lookup returns the term bound to v, if any.
func (s *Subst) Lookup(v term.VarID) (term.Term, bool) {
	t, ok := s.m[v]
	return t, ok
}

// Bind records v -> t. It returns false without mutating s if v is
// already bound to a syntactically different term (a conflicting binding);
// binding a variable to the same term twice is a no-op success.
func (s *Subst) Bind(v term.VarID, t term.Term) bool {
	if existing, ok := s.m[v]; ok {
		return term.Equal(existing, t)
	}
	if s.m == nil {
		s.m = make(map[term.VarID]term.Term)
	}
	s.m[v] = t
	return true
}

// Vars returns the domain of s, in no particular order.
func (s *Subst) Vars() []term.VarID {
	vs := make([]term.VarID, 0, len(s.m))
	for v := range s.m {
		vs = append(vs, v)
	}
	return vs
}

// Len returns the number of bindings in s.
func (s *Subst) Len() int { return len(s.m) }

// Clone returns an independent copy of s.
func (s *Subst) Clone() *Subst {
	c := New()
	for v, t := range s.m {
		c.m[v] = t
	}
	return c
}

// Apply performs a single substitution pass: every variable occurrence in
// t that is bound in s is replaced once by its image (spliced verbatim,
// not itself re-substituted); unbound variables are left untouched.
func Apply(sig *term.Signature, s *Subst, t term.Term) term.Term {
	b := term.NewBuilder(sig)
	applyInto(b, sig, s, t)
	return b.Term()
}

func applyInto(b *term.Builder, sig *term.Signature, s *Subst, t term.Term) {
	if t.IsVar() {
		if image, ok := s.Lookup(t.VarID()); ok {
			b.EmitSlice(image)
			return
		}
		b.EmitVar(t.VarID())
		return
	}
	f := t.FuncID()
	b.EmitFunc(f, func(b *term.Builder) {
		for _, child := range t.Args(sig).Terms() {
			applyInto(b, sig, s, child)
		}
	})
}

// ApplyIter repeatedly applies s to t until no variable in the domain of s
// remains in the result, realising a triangular substitution's closed
// form one step at a time.
//
// Substitutions produced by Unify are acyclic (the occurs check in unify.go
// guarantees it), so this always terminates.
func ApplyIter(sig *term.Signature, s *Subst, t term.Term) term.Term {
	cur := t
	for {
		if !hasBoundVar(s, cur) {
			return cur
		}
		cur = Apply(sig, s, cur)
	}
}

func hasBoundVar(s *Subst, t term.Term) bool {
	for _, v := range term.Vars(t) {
		if _, ok := s.Lookup(v); ok {
			return true
		}
	}
	return false
}

// Close collapses a triangular substitution (one whose images may
// themselves mention bound variables) into its idempotent closed form, by
// applying ApplyIter to every image.
func Close(sig *term.Signature, s *Subst) *Subst {
	closed := New()
	for v, t := range s.m {
		closed.m[v] = ApplyIter(sig, s, t)
	}
	return closed
}

// Compose builds sigma ∘ tau: applies tau to every image of sigma, then
// extends with tau's own bindings for variables not already in sigma's
// domain. If sigma and tau are each idempotent and have disjoint domains,
// the result is idempotent.
func Compose(sig *term.Signature, sigma, tau *Subst) *Subst {
	out := New()
	for v, t := range sigma.m {
		out.m[v] = Apply(sig, tau, t)
	}
	for v, t := range tau.m {
		if _, ok := out.m[v]; !ok {
			out.m[v] = t
		}
	}
	return out
}
