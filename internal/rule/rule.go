// Package rule implements rewrite rules and their four orientation modes,
// and the top-level Orient constructor that turns an equation into a rule
// using the kbo package.
package rule

import (
	"github.com/arborist-dev/kbcomplete/internal/kbo"
	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Kind distinguishes the four ways a rule can be made usable as a
// left-to-right rewrite.
type Kind int

const (
	Oriented Kind = iota
	WeaklyOriented
	Permutative
	Unoriented
)

func (k Kind) String() string {
	switch k {
	case Oriented:
		return "Oriented"
	case WeaklyOriented:
		return "WeaklyOriented"
	case Permutative:
		return "Permutative"
	case Unoriented:
		return "Unoriented"
	default:
		return "Kind(?)"
	}
}

// VarPair is a positional correspondence between a variable on the left
// and the variable occupying the same position on the right, used by
// Permutative's usability test.
type VarPair struct {
	Left, Right term.VarID
}

// Orientation is the directional usage policy attached to a Rule.
type Orientation struct {
	Kind Kind

	// WeaklyOriented fields: usable only when some variable in Vars is
	// instantiated to something other than Minimal.
	Minimal term.Term
	Vars    []term.VarID

	// Permutative fields: usable with sigma iff the first pair whose
	// images differ has the right-hand image strictly smaller.
	Pairs []VarPair
}

// Rule is an oriented (or partially oriented) equation, the output of
// Orient and the unit the active set indexes.
type Rule struct {
	LHS, RHS    term.Term
	Orientation Orientation
}

// InputError reports that an equation could not be oriented at all: an
// unbound variable in the right-hand side, or a right side that the
// ordering judges universally no smaller than the left.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// Orient turns an equation s = t into a Rule, selecting one of the four
// Orientation kinds:
//
//  1. less_eq(t,s): Oriented, or WeaklyOriented if s and t unify by a
//     substitution mapping every variable to the minimal constant.
//  2. less_eq(s,t): rejected (the caller must swap sides first).
//  3. vars(t) not subset of vars(s): rejected (unbound variable in rhs).
//  4. s and t apply the same head symbol to the same distinct variables
//     in permuted order (see permutationWitness): Permutative. This is a
//     shape check only; no model of the ordering is consulted.
//  5. otherwise: Unoriented.
func Orient(sig *term.Signature, s, t term.Term) (*Rule, error) {
	if kbo.LessEq(sig, t, s) {
		return orientDirected(sig, s, t)
	}
	if kbo.LessEq(sig, s, t) {
		return nil, &InputError{Msg: "orient: rhs >= lhs, caller must split equations first"}
	}
	if !varsSubset(term.Vars(t), term.Vars(s)) {
		return nil, &InputError{Msg: "orient: unbound variable in rhs"}
	}
	if pairs, ok := permutationWitness(sig, s, t); ok {
		return &Rule{LHS: s, RHS: t, Orientation: Orientation{Kind: Permutative, Pairs: pairs}}, nil
	}
	return &Rule{LHS: s, RHS: t, Orientation: Orientation{Kind: Unoriented}}, nil
}

// orientDirected builds the rule once less_eq(t,s) is known to hold: s is
// the bigger side and becomes the lhs, unless the pair degenerates to a
// weakly-oriented one.
func orientDirected(sig *term.Signature, s, t term.Term) (*Rule, error) {
	if minimal, ws, ok := weaklyOrientedWitness(sig, s, t); ok {
		return &Rule{LHS: s, RHS: t, Orientation: Orientation{Kind: WeaklyOriented, Minimal: minimal, Vars: ws}}, nil
	}
	return &Rule{LHS: s, RHS: t, Orientation: Orientation{Kind: Oriented}}, nil
}

func varsSubset(sub, super []term.VarID) bool {
	set := make(map[term.VarID]struct{}, len(super))
	for _, v := range super {
		set[v] = struct{}{}
	}
	for _, v := range sub {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

// weaklyOrientedWitness checks whether s and t unify by a substitution
// that maps every bound variable to the signature's minimal constant. If
// so, the rule is only safely usable when some variable of s takes a
// non-minimal value — see Eligible on Orientation.
func weaklyOrientedWitness(sig *term.Signature, s, t term.Term) (term.Term, []term.VarID, bool) {
	minimalID, ok := sig.Minimal()
	if !ok {
		return nil, nil, false
	}
	u, ok := subst.Unify(sig, s, t)
	if !ok {
		return nil, nil, false
	}
	b := term.NewBuilder(sig)
	b.EmitConst(minimalID)
	minimal := b.Term()
	for _, v := range u.Vars() {
		img, _ := u.Lookup(v)
		if !term.Equal(img, minimal) {
			return nil, nil, false
		}
	}
	return minimal, term.Vars(s), true
}

// permutationWitness detects the classical top-level-argument-permutation
// shape of a Permutative axiom (e.g. commutativity f(x,y) = f(y,x)): same
// head symbol and arity, each argument a distinct variable, and the
// argument lists are a permutation of one another. More general
// permutative witnesses (nested terms, repeated variables) are not
// constructed.
func permutationWitness(sig *term.Signature, s, t term.Term) ([]VarPair, bool) {
	if s.IsVar() || t.IsVar() {
		return nil, false
	}
	if s.FuncID() != t.FuncID() {
		return nil, false
	}
	sargs := s.Args(sig).Terms()
	targs := t.Args(sig).Terms()
	if len(sargs) != len(targs) || len(sargs) < 2 {
		return nil, false
	}
	pairs := make([]VarPair, len(sargs))
	seen := make(map[term.VarID]struct{}, len(sargs))
	tCounts := make(map[term.VarID]int)
	for _, a := range targs {
		if !a.IsVar() {
			return nil, false
		}
		tCounts[a.VarID()]++
	}
	for i, a := range sargs {
		if !a.IsVar() {
			return nil, false
		}
		v := a.VarID()
		if _, dup := seen[v]; dup {
			return nil, false
		}
		seen[v] = struct{}{}
		if tCounts[v] != 1 {
			return nil, false
		}
		pairs[i] = VarPair{Left: v, Right: targs[i].VarID()}
	}
	if term.Equal(s, t) {
		return nil, false
	}
	return pairs, true
}

// Backwards flips an Unoriented or Permutative rule's direction. It is an
// internal assertion violation to call this on an Oriented or
// WeaklyOriented rule: those directions are fixed and never flip.
func Backwards(r *Rule) *Rule {
	switch r.Orientation.Kind {
	case Unoriented:
		return &Rule{LHS: r.RHS, RHS: r.LHS, Orientation: Orientation{Kind: Unoriented}}
	case Permutative:
		pairs := make([]VarPair, len(r.Orientation.Pairs))
		for i, p := range r.Orientation.Pairs {
			pairs[i] = VarPair{Left: p.Right, Right: p.Left}
		}
		return &Rule{LHS: r.RHS, RHS: r.LHS, Orientation: Orientation{Kind: Permutative, Pairs: pairs}}
	default:
		panic("rule.Backwards: called on " + r.Orientation.Kind.String() + " rule")
	}
}

// Unorient forgets the orientation and returns the underlying equation,
// as a (lhs, rhs) pair.
func Unorient(r *Rule) (term.Term, term.Term) {
	return r.LHS, r.RHS
}

// Eligible implements the four reduction-eligibility tests, one per
// Orientation kind, for a rule used under substitution sigma.
func Eligible(sig *term.Signature, r *Rule, sigma *subst.Subst) bool {
	switch r.Orientation.Kind {
	case Oriented:
		return true
	case WeaklyOriented:
		for _, w := range r.Orientation.Vars {
			img, ok := sigma.Lookup(w)
			if !ok {
				continue
			}
			if !term.Equal(img, r.Orientation.Minimal) {
				return true
			}
		}
		return false
	case Permutative:
		for _, p := range r.Orientation.Pairs {
			u, okU := sigma.Lookup(p.Left)
			v, okV := sigma.Lookup(p.Right)
			if !okU || !okV {
				continue
			}
			if term.Equal(u, v) {
				continue
			}
			return kbo.LessThan(sig, v, u)
		}
		return false
	case Unoriented:
		rhsImg := subst.Apply(sig, sigma, r.RHS)
		lhsImg := subst.Apply(sig, sigma, r.LHS)
		if term.Equal(rhsImg, lhsImg) {
			return false
		}
		return kbo.LessThan(sig, rhsImg, lhsImg)
	default:
		panic("rule.Eligible: unknown orientation kind")
	}
}
