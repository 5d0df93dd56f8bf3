package rewrite

import (
	"github.com/arborist-dev/kbcomplete/internal/rule"
	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/internal/termindex"
)

// Strategy enumerates every reduction it offers at t's root position. The
// combinators below lift a root-only strategy into one that searches
// subterms, composes steps in parallel, or iterates to a fixed point.
type Strategy func(sig *term.Signature, t term.Term) []Reduction

// Pred filters a candidate rewrite by the rule used and the substitution
// that matched it, on top of the rule's own Eligible test.
type Pred func(r *rule.Rule, sigma *subst.Subst) bool

// Rewrite is the root strategy: for every entry idx.ApproxMatches offers,
// try to match, check rule.Eligible, then pred, and emit one Step per
// success.
func Rewrite(idx *termindex.Index, pred Pred) Strategy {
	return func(sig *term.Signature, t term.Term) []Reduction {
		var out []Reduction
		for _, e := range idx.ApproxMatches(t) {
			re, ok := e.Value.(termindex.RuleEntry)
			if !ok {
				continue
			}
			sigma, ok := subst.Match(sig, e.Pattern, t)
			if !ok {
				continue
			}
			if !rule.Eligible(sig, re.Rule, sigma) {
				continue
			}
			if pred != nil && !pred(re.Rule, sigma) {
				continue
			}
			out = append(out, MakeStep(sig, re.RuleID, re.Rule, sigma))
		}
		return out
	}
}

// Anywhere is the disjoint union of strat at every subterm position of t,
// root first.
func Anywhere(strat Strategy) Strategy {
	return func(sig *term.Signature, t term.Term) []Reduction {
		out := append([]Reduction{}, strat(sig, t)...)
		out = append(out, Nested(strat)(sig, t)...)
		return out
	}
}

// Nested applies Anywhere(strat) inside each direct child of t, but never
// at t's own root.
func Nested(strat Strategy) Strategy {
	return func(sig *term.Signature, t term.Term) []Reduction {
		if t.IsVar() {
			return nil
		}
		args := t.Args(sig).Terms()
		var out []Reduction
		for i, child := range args {
			for _, cr := range Anywhere(strat)(sig, child) {
				children := make([]Reduction, len(args))
				for j, a := range args {
					if j == i {
						children[j] = cr
					} else {
						children[j] = MakeRefl(a)
					}
				}
				out = append(out, MakeCong(sig, t.FuncID(), children))
			}
		}
		return out
	}
}

// Parallel takes the leftmost-innermost parallel step: children are
// reduced first, and the root is only tried once no child offers a
// redex; when several disjoint children each offer one, all of them are
// taken simultaneously. It returns either no reduction (nothing applies
// anywhere) or exactly one, the composed parallel step.
func Parallel(strat Strategy) Strategy {
	return func(sig *term.Signature, t term.Term) []Reduction {
		r := parallelStep(sig, strat, t)
		if _, ok := r.(Refl); ok {
			return nil
		}
		return []Reduction{r}
	}
}

func parallelStep(sig *term.Signature, strat Strategy, t term.Term) Reduction {
	if t.IsVar() {
		if reds := strat(sig, t); len(reds) > 0 {
			return reds[0]
		}
		return MakeRefl(t)
	}
	args := t.Args(sig).Terms()
	children := make([]Reduction, len(args))
	anyChild := false
	for i, a := range args {
		children[i] = parallelStep(sig, strat, a)
		if _, ok := children[i].(Refl); !ok {
			anyChild = true
		}
	}
	if anyChild {
		return MakeCong(sig, t.FuncID(), children)
	}
	if reds := strat(sig, t); len(reds) > 0 {
		return reds[0]
	}
	return MakeRefl(t)
}
