package saturate

import (
	"errors"
	"sort"

	"github.com/arborist-dev/kbcomplete/internal/cp"
	"github.com/arborist-dev/kbcomplete/internal/kbo"
	"github.com/arborist-dev/kbcomplete/internal/pqueue"
	"github.com/arborist-dev/kbcomplete/internal/proof"
	"github.com/arborist-dev/kbcomplete/internal/rewrite"
	"github.com/arborist-dev/kbcomplete/internal/rule"
	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/internal/termindex"
	"github.com/arborist-dev/kbcomplete/kberrors"
)

// Complete1 runs one iteration of the loop: check the resource bound,
// check whether any goal is now solved, dequeue the next passive, and
// feed it to consider. It returns the reason the loop should stop, or
// Continue if the caller should call Complete1 again.
func Complete1(st *State) Reason {
	if st.Aborted {
		return ReasonAborted
	}
	if st.Considered() >= st.Config.MaxCriticalPairs {
		st.emit(HaltMsg{Reason: ReasonMaxCriticalPairs})
		return ReasonMaxCriticalPairs
	}

	normaliseGoals(st)
	if reason, solved := checkGoalsSolved(st); solved {
		return reason
	}

	cpair, _, _, ok := pqueue.Dequeue(st.Sig, st.ruleRefs(), st.Config.MaxTermSize, st.Passives)
	if !ok {
		st.emit(HaltMsg{Reason: ReasonQueueEmpty})
		return ReasonQueueEmpty
	}

	st.ticker.Tick(st)
	if st.Aborted {
		return ReasonAborted
	}

	if err := consider(st, cpair, nil, nil, false); err != nil {
		st.handleFatal(err)
		return ReasonAborted
	}
	return Continue
}

// consider canonicalises nothing beyond what BuildOverlap already
// produced (its unifier is already in a fresh, disjoint variable range),
// splits cpair against joinIndex's view of the rules (the oriented rules,
// or every direction when subconnectedness is enabled), and either records a joinable
// equation or orients the residual into a fresh active.
func consider(st *State, cpair *cp.CriticalPair, axiomLHS0, axiomRHS0 term.Term, isAxiom bool) error {
	if st.Joinable.Contains(cpair.LHS, cpair.RHS) {
		return nil
	}
	joinable, residual, plhs, prhs, err := splitWithProof(st, joinIndex(st), cpair)
	if err != nil {
		return wrapLoopErr(err)
	}
	if !joinable && st.Config.Join.GroundJoinability && groundJoinable(st.Sig, residual) {
		joinable = true
	}
	if joinable {
		st.Joinable.Insert(cpair.LHS, cpair.RHS)
		st.emit(NewEquationMsg{LHS: cpair.LHS, RHS: cpair.RHS})
		return nil
	}

	overlapProof := deriveProof(st, cpair, axiomLHS0, axiomRHS0, isAxiom)
	// overlapProof proves cpair.LHS = cpair.RHS; plhs/prhs chain that
	// through splitWithProof's normalisation down to residual.LHS/residual.RHS.
	residualProof := proof.NewTrans(proof.NewTrans(proof.NewSymm(plhs), overlapProof), prhs)
	return addCP(st, residual, residualProof)
}

// splitWithProof is the proof-carrying counterpart of cp.Split: it
// normalises both sides of cpair against idx, then hands the two normal
// forms to cp.JoinNormalized so the join/residual verdict itself is made
// in exactly one place, shared with Split's non-proof-carrying callers.
func splitWithProof(st *State, idx *termindex.Index, cpair *cp.CriticalPair) (joinable bool, residual *cp.CriticalPair, plhs, prhs proof.Proof, err error) {
	lhsNF, plhs, err := normaliseWithProof(st, idx, cpair.LHS)
	if err != nil {
		return false, nil, nil, nil, err
	}
	rhsNF, prhs, err := normaliseWithProof(st, idx, cpair.RHS)
	if err != nil {
		return false, nil, nil, nil, err
	}
	result := cp.JoinNormalized(st.Sig, nil, cpair, lhsNF, rhsNF)
	return result.Joinable, result.Residual, plhs, prhs, nil
}

// joinIndex picks the rule-index view the join decision normalises
// against: Oriented alone by default, or All (every Eligible-gated
// direction of every rule, including Permutative/Unoriented instances
// that a substitution happens to make decreasing) when the subconnected
// join strategy is enabled. This is what widens joinability from plain
// rewriting to the unfailing completion literature's ordered rewrite
// relation over the whole equation set, not just its oriented subset.
func joinIndex(st *State) *termindex.Index {
	if st.Config.Join.Subconnectedness {
		return st.RuleIndex.All
	}
	return st.RuleIndex.Oriented
}

// groundJoinable is the ground-joinability join strategy: search a
// bounded sequence of KBO models, from the finest consistent with
// residual's own variables down through every weakening, for one that
// witnesses the residual's orientation. A witness model stands in for
// "true under every ground instance consistent with that variable
// order" — an approximation of true ground joinability (which would
// require checking every ground instance directly), traded for running
// in bounded time.
func groundJoinable(sig *term.Signature, residual *cp.CriticalPair) bool {
	if residual == nil {
		return false
	}
	vs := mergeVars(term.Vars(residual.LHS), term.Vars(residual.RHS))
	if len(vs) == 0 {
		return false
	}
	candidates := []*kbo.Model{kbo.ModelFromOrder(vs)}
	for i := 0; i < len(candidates); i++ {
		if cp.JoinNormalized(sig, candidates[i], residual, residual.LHS, residual.RHS).WitnessModel != nil {
			return true
		}
		candidates = append(candidates, kbo.WeakenModel(candidates[i])...)
	}
	return false
}

// mergeVars concatenates two already-deduplicated variable lists into one
// deduplicated list.
func mergeVars(a, b []term.VarID) []term.VarID {
	seen := make(map[term.VarID]bool, len(a)+len(b))
	out := make([]term.VarID, 0, len(a)+len(b))
	for _, vs := range [2][]term.VarID{a, b} {
		for _, v := range vs {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// normaliseWithProof simplifies t under idx to a fixed point, returning
// both the normal form and the proof that t equals it.
func normaliseWithProof(st *State, idx *termindex.Index, t term.Term) (term.Term, proof.Proof, error) {
	strat := rewrite.Anywhere(rewrite.Rewrite(idx, nil))
	red, err := rewrite.NormaliseWith(st.Sig, nil, strat, t)
	if err != nil {
		return nil, nil, err
	}
	return red.Result(), reductionProof(st, red), nil
}

// reductionProof converts a rewrite.Reduction into the equivalent
// proof.Proof, resolving each Step against the active rule it used.
func reductionProof(st *State, r rewrite.Reduction) proof.Proof {
	switch n := r.(type) {
	case rewrite.Refl:
		return proof.NewRefl(n.Result())
	case rewrite.Step:
		return stepProof(st, n)
	case rewrite.Trans:
		return proof.NewTrans(reductionProof(st, n.P), reductionProof(st, n.Q))
	case rewrite.Cong:
		children := make([]proof.Proof, len(n.Children))
		for i, c := range n.Children {
			children[i] = reductionProof(st, c)
		}
		return proof.NewCong(st.Sig, n.F, children)
	default:
		return proof.NewRefl(r.Result())
	}
}

// stepProof builds the proof for a single rewrite step, referencing the
// lemma of the active rule it used and flipping with Symm if the step
// matched the backward direction of a Permutative or Unoriented rule.
func stepProof(st *State, step rewrite.Step) proof.Proof {
	ar := st.ActiveRules[step.Lemma]
	if ar == nil {
		return proof.NewRefl(step.Result())
	}
	active := st.Actives[ar.ActiveID]
	lem, ok := st.ProofStore.Lemma(st.Sig, active.LemmaID, step.Sigma)
	if !ok {
		return proof.NewRefl(step.Result())
	}
	if term.Equal(step.Rule.LHS, ar.Rule.LHS) {
		return lem
	}
	return proof.NewSymm(lem)
}

// addCP orients residual's equation into a rule and installs it as a
// fresh active, flipping residualProof if orientation swapped sides.
func addCP(st *State, residual *cp.CriticalPair, residualProof proof.Proof) error {
	if st.Config.MaxCPDepth > 0 && residual.Depth > st.Config.MaxCPDepth {
		return nil
	}
	r, err := orientEquation(st.Sig, residual.LHS, residual.RHS)
	if err != nil {
		return err
	}
	activeProof := residualProof
	if !term.Equal(r.LHS, residual.LHS) {
		activeProof = proof.NewSymm(residualProof)
	}
	addActive(st, r, activeProof, residual.Top, residual.Depth)
	return nil
}

// orientEquation tries lhs=rhs, then rhs=lhs, returning whichever
// direction rule.Orient accepts. Both directions failing means the
// equation is genuinely unorientable (an unbound variable on both
// sides), a fatal input error.
func orientEquation(sig *term.Signature, lhs, rhs term.Term) (*rule.Rule, error) {
	r, err := rule.Orient(sig, lhs, rhs)
	if err == nil {
		return r, nil
	}
	var inputErr *rule.InputError
	if !errors.As(err, &inputErr) {
		return nil, &kberrors.Internal{Err: err}
	}
	r2, err2 := rule.Orient(sig, rhs, lhs)
	if err2 != nil {
		return nil, &kberrors.InputError{Err: kberrors.New(
			"orient: equation is not orientable in either direction: %v / %v", err, err2)}
	}
	return r2, nil
}

// addActive allocates a fresh active/rule id pair for r, checks
// subsumption, and if not subsumed inserts it into the index, interns
// its proof, emits NewActive, and enqueues its overlaps against every
// existing rule.
func addActive(st *State, r *rule.Rule, p proof.Proof, top term.Term, depth int) (*Active, bool) {
	if st.subsumed(r) {
		return nil, false
	}
	st.nextActiveID++
	activeID := st.nextActiveID
	st.nextRuleID++
	ruleID := st.nextRuleID

	lemmaID := st.ProofStore.Intern(p)
	active := &Active{ID: activeID, Depth: depth, Rule: r, Top: top, Proof: p, LemmaID: lemmaID}

	forward := &ActiveRule{RuleID: ruleID, ActiveID: activeID, Rule: r, NonVarPositions: term.NonVarPositions(r.LHS)}
	active.Rules = []*ActiveRule{forward}
	st.ActiveRules[ruleID] = forward
	if r.Orientation.Kind == rule.Permutative || r.Orientation.Kind == rule.Unoriented {
		back := rule.Backwards(r)
		backward := &ActiveRule{RuleID: ruleID, ActiveID: activeID, Rule: back, Backward: true, NonVarPositions: term.NonVarPositions(back.LHS)}
		active.Rules = append(active.Rules, backward)
	}

	st.Actives[activeID] = active
	st.RuleIndex.Insert(ruleID, r)
	st.emit(NewActiveMsg{Active: active})

	overlaps := cp.Overlaps(st.Sig, st.Config.MaxCPDepth, st.RuleIndex, st.ruleRefs(), cp.RuleRef{ID: ruleID, Rule: r, Depth: depth})
	passives := pqueue.MakePassives(st.Sig, st.Config.MaxCPDepth, st.Config.CriticalPairs.Size, st.Config.CriticalPairs.Depth, overlaps)
	st.Passives.Insert(ruleID, passives)
	return active, true
}

// deleteActive retires active: removes both its index directions,
// retires its owned passives, and emits DeleteActive.
func deleteActive(st *State, active *Active) {
	for _, ar := range active.Rules {
		if ar.Backward {
			continue
		}
		st.RuleIndex.Delete(ar.RuleID, active.Rule)
		st.Passives.Retire(ar.RuleID)
		delete(st.ActiveRules, ar.RuleID)
	}
	delete(st.Actives, active.ID)
	st.emit(DeleteActiveMsg{Active: active})
}

// interreduce visits every active rule and tries to join its own
// equation against the rules of every other active. A joinable result
// retires it in favour of a joinable-equation record; a result that is
// still an instance of the rule's own equation is left in place; a result
// that is neither joinable nor such an instance, but for
// which the ground-joinability strategy finds a witness model justifying
// the rule's own direction, is left in place unchanged (the "witness
// model changed, keep in place" outcome of the completion literature);
// otherwise it retires in favour of a freshly oriented replacement.
func interreduce(st *State) {
	ids := make([]int, 0, len(st.Actives))
	for id := range st.Actives {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	deleted, updated := 0, 0
	for _, id := range ids {
		active, ok := st.Actives[id]
		if !ok {
			continue
		}
		idx := joinIndexExcluding(st, active.ID)
		lhsNF, plhs, err := normaliseWithProof(st, idx, active.Rule.LHS)
		if err != nil {
			st.handleFatal(wrapLoopErr(err))
			return
		}
		rhsNF, prhs, err := normaliseWithProof(st, idx, active.Rule.RHS)
		if err != nil {
			st.handleFatal(wrapLoopErr(err))
			return
		}

		if term.Equal(lhsNF, rhsNF) {
			deleteActive(st, active)
			deleted++
			st.Joinable.Insert(lhsNF, rhsNF)
			st.emit(NewEquationMsg{LHS: lhsNF, RHS: rhsNF})
			continue
		}
		if isInstance(st.Sig, active.Rule, lhsNF, rhsNF) {
			updated++
			continue
		}
		if st.Config.Join.GroundJoinability && groundJoinable(st.Sig, &cp.CriticalPair{LHS: lhsNF, RHS: rhsNF}) {
			updated++
			continue
		}

		deleteActive(st, active)
		deleted++
		residualProof := proof.NewTrans(proof.NewTrans(proof.NewSymm(plhs), active.Proof), prhs)
		if err := addCP(st, &cp.CriticalPair{LHS: lhsNF, RHS: rhsNF, Top: active.Top, Depth: active.Depth}, residualProof); err != nil {
			st.handleFatal(err)
			return
		}
	}
	st.emit(InterreduceMsg{Deleted: deleted, Updated: updated})
}

// isInstance reports whether (lhsNF, rhsNF) is still an instance of r's
// original equation: one substitution maps r's sides onto lhsNF and
// rhsNF respectively.
func isInstance(sig *term.Signature, r *rule.Rule, lhsNF, rhsNF term.Term) bool {
	if term.Equal(lhsNF, r.LHS) && term.Equal(rhsNF, r.RHS) {
		return true
	}
	sigma, ok := subst.Match(sig, r.LHS, lhsNF)
	if !ok {
		return false
	}
	return term.Equal(subst.Apply(sig, sigma, r.RHS), rhsNF)
}

// joinIndexExcluding rebuilds the join index from every active except
// excludeID, the "all other rules" view interreduction tests each active
// against. It mirrors joinIndex's default/subconnected split: absent the
// subconnected strategy only the unconditionally-safe Oriented/
// WeaklyOriented forward direction is included; enabling it widens this
// to every direction of every active, including the reverse view of
// Permutative and Unoriented rules, each still gated by rule.Eligible
// when actually used to rewrite.
func joinIndexExcluding(st *State, excludeID int) *termindex.Index {
	idx := termindex.New(st.Sig)
	for id, a := range st.Actives {
		if id == excludeID {
			continue
		}
		for _, ar := range a.Rules {
			if !st.Config.Join.Subconnectedness {
				if ar.Backward {
					continue
				}
				if a.Rule.Orientation.Kind != rule.Oriented && a.Rule.Orientation.Kind != rule.WeaklyOriented {
					continue
				}
			}
			side := termindex.Forward
			if ar.Backward {
				side = termindex.Backward
			}
			idx.Insert(ar.Rule.LHS, termindex.RuleEntry{RuleID: ar.RuleID, Rule: ar.Rule, Side: side})
		}
	}
	return idx
}

// simplifyQueue rescoreds every live passive against the current rule
// set, dropping stale orphans, and reports how many were dropped.
func simplifyQueue(st *State) {
	before := st.Passives.Len()
	pqueue.SimplifyQueue(st.Sig, st.ruleRefs(), st.Config.CriticalPairs.Size, st.Config.CriticalPairs.Depth, st.Passives)
	st.emit(SimplifyQueueMsg{Dropped: before - st.Passives.Len()})
}

// wrapLoopErr classifies a rewrite-package error into the matching
// kberrors kind.
func wrapLoopErr(err error) error {
	if errors.Is(err, rewrite.ErrLoopDiagnostic) {
		return &kberrors.LoopDiagnostic{Err: err}
	}
	return &kberrors.Internal{Err: err}
}
