// Package cp implements critical-pair construction and joinability
// testing: the overlap search between pairs of active rules, scoring,
// and the split/join decision that either records a joinable equation
// or orients a fresh rule from an unjoinable residual.
package cp

import (
	"github.com/arborist-dev/kbcomplete/internal/kbo"
	"github.com/arborist-dev/kbcomplete/internal/rewrite"
	"github.com/arborist-dev/kbcomplete/internal/rule"
	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/internal/termindex"
)

// RuleRef is the minimal view of an active rule cp needs: enough to
// unify against and to track provenance, without depending on the
// saturation loop's own bookkeeping.
type RuleRef struct {
	ID    int
	Rule  *rule.Rule
	Depth int
}

// CriticalPair is an unjoined equation discovered by overlapping two
// rules at a non-variable position of the first one's left-hand side.
type CriticalPair struct {
	LHS, RHS   term.Term
	Top        term.Term
	Position   int
	Unifier    *subst.Subst
	Rule1, Rule2 int
	Depth      int
}

// Overlaps enumerates every critical pair between newRule and the active
// rules in rules (both directions), within maxDepth, using idx.All to
// prune which of the many existing rules can possibly unify at each
// position of newRule's left-hand side. newRule is not overlapped with
// itself: an entry of rules or idx carrying newRule.ID is skipped.
func Overlaps(sig *term.Signature, maxDepth int, idx *termindex.RuleIndex, rules map[int]RuleRef, newRule RuleRef) []CriticalPair {
	var out []CriticalPair
	out = append(out, overlapsAsR1(sig, maxDepth, idx, rules, newRule)...)
	for id, r := range rules {
		if id == newRule.ID {
			continue
		}
		out = append(out, overlapsBetween(sig, maxDepth, r, newRule)...)
	}
	return out
}

// overlapsAsR1 treats newRule as r1 and uses the index to find every
// unifiable partner at each non-variable position of its left-hand side.
// idx.All.UnifiableMatches only offsets the stored pattern (the
// partner's left-hand side); its right-hand side is offset here by the
// same delta to keep the two sides of the renamed rule consistent.
func overlapsAsR1(sig *term.Signature, maxDepth int, idx *termindex.RuleIndex, rules map[int]RuleRef, r1 RuleRef) []CriticalPair {
	var out []CriticalPair
	for _, p := range term.NonVarPositions(r1.Rule.LHS) {
		subterm := term.SubtermAt(r1.Rule.LHS, p)
		delta := subst.MaxVar(r1.Rule.LHS) + 1
		if rd := subst.MaxVar(r1.Rule.RHS) + 1; rd > delta {
			delta = rd
		}
		for _, m := range idx.All.UnifiableMatches(subterm, delta) {
			entry := m.Entry.Value.(termindex.RuleEntry)
			if entry.RuleID == r1.ID {
				continue
			}
			renamedRHS := subst.Offset(sig, entry.Rule.RHS, delta)
			r2 := RuleRef{
				ID:    entry.RuleID,
				Rule:  &rule.Rule{LHS: m.Entry.Pattern, RHS: renamedRHS, Orientation: entry.Rule.Orientation},
				Depth: rules[entry.RuleID].Depth,
			}
			if cp, ok := BuildOverlap(sig, maxDepth, r1, p, r2, m.Subst); ok {
				out = append(out, cp)
			}
		}
	}
	return out
}

// overlapsBetween treats r1 as the rule contributing positions and unifies
// each directly against r2's (offset) left-hand side.
func overlapsBetween(sig *term.Signature, maxDepth int, r1, r2 RuleRef) []CriticalPair {
	var out []CriticalPair
	delta := subst.MaxVar(r1.Rule.LHS) + 1
	if rd := subst.MaxVar(r1.Rule.RHS) + 1; rd > delta {
		delta = rd
	}
	renamedLHS := subst.Offset(sig, r2.Rule.LHS, delta)
	renamedRHS := subst.Offset(sig, r2.Rule.RHS, delta)
	renamed := RuleRef{ID: r2.ID, Rule: &rule.Rule{LHS: renamedLHS, RHS: renamedRHS, Orientation: r2.Rule.Orientation}, Depth: r2.Depth}
	for _, p := range term.NonVarPositions(r1.Rule.LHS) {
		subterm := term.SubtermAt(r1.Rule.LHS, p)
		sigma, ok := subst.Unify(sig, subterm, renamed.Rule.LHS)
		if !ok {
			continue
		}
		if cp, ok := BuildOverlap(sig, maxDepth, r1, p, renamed, sigma); ok {
			out = append(out, cp)
		}
	}
	return out
}

func BuildOverlap(sig *term.Signature, maxDepth int, r1 RuleRef, p int, r2 RuleRef, sigma *subst.Subst) (CriticalPair, bool) {
	depth := r1.Depth + 1
	if r2.Depth+1 > depth {
		depth = r2.Depth + 1
	}
	if maxDepth > 0 && depth > maxDepth {
		return CriticalPair{}, false
	}
	replaced := term.ReplaceAt(sig, r1.Rule.LHS, p, r2.Rule.RHS)
	lhs := subst.Apply(sig, sigma, replaced)
	rhs := subst.Apply(sig, sigma, r1.Rule.RHS)
	top := subst.Apply(sig, sigma, r1.Rule.LHS)
	return CriticalPair{
		LHS: lhs, RHS: rhs, Top: top, Position: p, Unifier: sigma,
		Rule1: r1.ID, Rule2: r2.ID, Depth: depth,
	}, true
}

// Score assigns an integer, smaller is better, mixing the combined term
// size of the pair with its derivation depth under caller-supplied
// weights.
func Score(cpair *CriticalPair, sizeWeight, depthWeight int) int {
	return sizeWeight*(cpair.LHS.Size()+cpair.RHS.Size()) + depthWeight*cpair.Depth
}

// decide is the join/residual decision proper, factored out of Split so
// a caller that has already normalised cpair's sides some other way (the
// saturation loop's proof-carrying normalisation, in particular) reaches
// the exact same verdict Split would, rather than a second, independently
// maintained comparison.
func decide(cpair *CriticalPair, lhsNF, rhsNF term.Term) (joinable bool, residual *CriticalPair) {
	if term.Equal(lhsNF, rhsNF) {
		return true, nil
	}
	return false, &CriticalPair{
		LHS: lhsNF, RHS: rhsNF, Top: cpair.Top, Position: cpair.Position,
		Unifier: cpair.Unifier, Rule1: cpair.Rule1, Rule2: cpair.Rule2, Depth: cpair.Depth,
	}
}

// Split normalises both sides of cpair against idx (never the rule the
// pair would itself become) and reports whether the results coincide. If
// not, it returns the single irreducible residual pair carrying the
// original provenance forward.
func Split(sig *term.Signature, idx *termindex.Index, cpair *CriticalPair) (joinable bool, residual *CriticalPair) {
	lhsNF := rewrite.Simplify(sig, idx, cpair.LHS)
	rhsNF := rewrite.Simplify(sig, idx, cpair.RHS)
	return decide(cpair, lhsNF, rhsNF)
}

// JoinResult is the outcome of JoinCriticalPair or JoinNormalized.
type JoinResult struct {
	Joinable     bool
	Residual     *CriticalPair // set when !Joinable
	WitnessModel *kbo.Model    // the model, if any, under which Residual's sides compare
}

// JoinNormalized applies JoinCriticalPair's verdict to sides the caller
// has already normalised itself. If the sides do not coincide, and a
// candidate model is supplied, it checks whether the model decides an
// orientation for the residual (used by interreduction to test a
// hypothesized model before committing to it, and by the ground-
// joinability join strategy to accept a syntactically unjoinable residual
// anyway when some variable order witnesses it).
func JoinNormalized(sig *term.Signature, model *kbo.Model, cpair *CriticalPair, lhsNF, rhsNF term.Term) JoinResult {
	joinable, residual := decide(cpair, lhsNF, rhsNF)
	if joinable {
		return JoinResult{Joinable: true}
	}
	result := JoinResult{Joinable: false, Residual: residual}
	if model != nil {
		if _, ok := kbo.LessIn(sig, model, residual.RHS, residual.LHS); ok {
			result.WitnessModel = model
		}
	}
	return result
}

// JoinCriticalPair normalises cpair via Split against idx, then applies
// JoinNormalized's model check to the result.
func JoinCriticalPair(sig *term.Signature, idx *termindex.Index, model *kbo.Model, cpair *CriticalPair) JoinResult {
	lhsNF := rewrite.Simplify(sig, idx, cpair.LHS)
	rhsNF := rewrite.Simplify(sig, idx, cpair.RHS)
	return JoinNormalized(sig, model, cpair, lhsNF, rhsNF)
}
