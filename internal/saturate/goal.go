package saturate

import (
	"github.com/arborist-dev/kbcomplete/internal/proof"
	"github.com/arborist-dev/kbcomplete/internal/rewrite"
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/internal/termindex"
)

// reachable is one normal-form-in-progress reached from a goal's LHS0 or
// RHS0: the term itself, and the reduction proving it equal to the side
// it started from.
type reachable struct {
	term term.Term
	red  rewrite.Reduction
}

// NewGoal registers a fresh, unsolved goal proving lhs=rhs.
func NewGoal(st *State, name string, lhs, rhs term.Term) *Goal {
	g := &Goal{Name: name, Number: len(st.Goals) + 1, LHS0: lhs, RHS0: rhs}
	st.Goals = append(st.Goals, g)
	return g
}

// normaliseGoals extends every unsolved goal's reachable sets by one
// closure step under the current all-rules index.
func normaliseGoals(st *State) {
	for _, g := range st.Goals {
		if g.Solved {
			continue
		}
		g.lhsReach = extendReach(st.Sig, st.RuleIndex.All, g.lhsReach, g.LHS0)
		g.rhsReach = extendReach(st.Sig, st.RuleIndex.All, g.rhsReach, g.RHS0)
	}
}

// extendReach grows reach (creating it from start if nil) by rewriting
// every member with the given index's usable rules, closing under
// whatever the index currently contains. Because the index only grows as
// completion adds rules, re-running the closure from the existing
// frontier can only discover new members, never invalidate old ones.
func extendReach(sig *term.Signature, idx *termindex.Index, reach map[string]reachable, start term.Term) map[string]reachable {
	if reach == nil {
		reach = make(map[string]reachable)
	}
	if len(reach) == 0 {
		reach[termKey(start)] = reachable{term: start, red: rewrite.MakeRefl(start)}
	}
	strat := rewrite.Anywhere(rewrite.Rewrite(idx, nil))
	worklist := make([]reachable, 0, len(reach))
	for _, r := range reach {
		worklist = append(worklist, r)
	}
	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		for _, step := range strat(sig, cur.term) {
			nt := step.Result()
			k := termKey(nt)
			if _, ok := reach[k]; ok {
				continue
			}
			nr := reachable{term: nt, red: rewrite.MakeTrans(cur.red, step)}
			reach[k] = nr
			worklist = append(worklist, nr)
		}
	}
	return reach
}

// checkGoalsSolved looks for a common member of each unsolved goal's two
// reachable sets, certifying the composed proof before accepting it.
// The first goal found solved this call halts the loop; other goals may
// still be pending on the next call.
func checkGoalsSolved(st *State) (Reason, bool) {
	for _, g := range st.Goals {
		if g.Solved {
			continue
		}
		for k, lr := range g.lhsReach {
			rr, ok := g.rhsReach[k]
			if !ok {
				continue
			}
			p := proof.NewTrans(reductionProof(st, lr.red), proof.NewSymm(reductionProof(st, rr.red)))
			if _, _, err := proof.Certify(st.Sig, st.ProofStore, p); err != nil {
				continue
			}
			g.Solved = true
			g.Proof = p
			st.emit(ProvedGoalMsg{Goal: g})
			return ReasonGoalSolved, true
		}
	}
	return Continue, false
}
