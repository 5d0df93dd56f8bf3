// Package rewrite implements rewrite strategies over indexed rule sets,
// the reduction proof-term algebra they build, and the fixed-point
// normaliser and simplifier built on top of them.
package rewrite

import (
	"github.com/arborist-dev/kbcomplete/internal/rule"
	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Reduction is a proof that one term rewrites to another; every
// implementation caches its resulting term at construction time so that
// comparing two reductions by their outcome is a single term.Equal call.
type Reduction interface {
	// Result is the term this reduction proves equal to its starting
	// point.
	Result() term.Term
}

// Refl is the empty reduction: t rewrites to itself.
type Refl struct {
	t term.Term
}

func (r Refl) Result() term.Term { return r.t }

// MakeRefl builds the identity reduction on t.
func MakeRefl(t term.Term) Reduction { return Refl{t: t} }

// Step is a single rewrite: lemma identifies the rule used (a caller-
// supplied id, typically the active rule's id), applied under sigma.
type Step struct {
	Lemma  int
	Rule   *rule.Rule
	Sigma  *subst.Subst
	result term.Term
}

func (s Step) Result() term.Term { return s.result }

// MakeStep builds the reduction for rewriting with r under sigma, whose
// result is sigma applied to r's right-hand side.
func MakeStep(sig *term.Signature, lemma int, r *rule.Rule, sigma *subst.Subst) Reduction {
	return Step{Lemma: lemma, Rule: r, Sigma: sigma, result: subst.Apply(sig, sigma, r.RHS)}
}

// Trans is the transitive composition of two reductions, P then Q.
type Trans struct {
	P, Q   Reduction
	result term.Term
}

func (t Trans) Result() term.Term { return t.result }

// MakeTrans composes p then q, collapsing either side if it is Refl and
// left-associating chains of Trans so Result stays O(1) to extract.
func MakeTrans(p, q Reduction) Reduction {
	if _, ok := p.(Refl); ok {
		return q
	}
	if _, ok := q.(Refl); ok {
		return p
	}
	if qt, ok := q.(Trans); ok {
		return MakeTrans(MakeTrans(p, qt.P), qt.Q)
	}
	return Trans{P: p, Q: q, result: q.Result()}
}

// Cong lifts a reduction on each child of an f-headed term into a
// reduction on the whole term.
type Cong struct {
	F        term.FuncID
	Children []Reduction
	result   term.Term
}

func (c Cong) Result() term.Term { return c.result }

// MakeCong builds the congruence reduction for f applied to children,
// collapsing to Refl if every child reduction is itself Refl.
func MakeCong(sig *term.Signature, f term.FuncID, children []Reduction) Reduction {
	allRefl := true
	for _, c := range children {
		if _, ok := c.(Refl); !ok {
			allRefl = false
			break
		}
	}
	b := term.NewBuilder(sig)
	b.EmitFunc(f, func(b *term.Builder) {
		for _, c := range children {
			b.EmitSlice(c.Result())
		}
	})
	result := b.Term()
	if allRefl {
		return Refl{t: result}
	}
	return Cong{F: f, Children: children, result: result}
}
