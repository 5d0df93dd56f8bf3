package saturate_test

import (
	"errors"
	"testing"

	"github.com/arborist-dev/kbcomplete/config"
	"github.com/arborist-dev/kbcomplete/internal/proof"
	"github.com/arborist-dev/kbcomplete/internal/saturate"
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/kberrors"
)

// mk builds a term rooted at f applied to args, over sig.
func mk(sig *term.Signature, f term.FuncID, args ...term.Term) term.Term {
	b := term.NewBuilder(sig)
	b.EmitFunc(f, func(b *term.Builder) {
		for _, a := range args {
			b.EmitSlice(a)
		}
	})
	return b.Term()
}

func v(n term.VarID) term.Term {
	return term.Term{term.MakeVarSymbol(n)}
}

// runToHalt drives st to completion (or a resource bound, or a fatal
// error), returning the final Reason. It never blocks: every branch of
// spec.md's complete1 loop terminates or trips a hard iteration cap that
// signals a test bug, not real non-termination, on the scale of these
// scenarios.
func runToHalt(t *testing.T, st *saturate.State) saturate.Reason {
	t.Helper()
	for i := 0; i < 100000; i++ {
		reason := saturate.Complete1(st)
		if reason != saturate.Continue {
			return reason
		}
	}
	t.Fatalf("runToHalt: exceeded iteration cap without halting")
	return saturate.Continue
}

func groupSig() (sig *term.Signature, one, zero term.FuncID) {
	sig = term.NewSignature()
	zero = sig.Declare("0", 0, 1)
	sig.SetMinimal(zero)
	one = sig.Declare("1", 2, 1)
	return sig, one, zero
}

// S1: 1(x,0)=x, 1(0,x)=x proves 1(1(0,x),0)=x.
func TestS1_LeftRightIdentity(t *testing.T) {
	sig, one, zero := groupSig()
	zeroT := mk(sig, zero)

	st := saturate.New(sig, config.Default())
	axiom := func(lhs, rhs term.Term) {
		if err := saturate.LoadAxiom(st, saturate.Equation{LHS: lhs, RHS: rhs}); err != nil {
			t.Fatalf("LoadAxiom: %v", err)
		}
	}
	axiom(mk(sig, one, v(0), zeroT), v(0))
	axiom(mk(sig, one, zeroT, v(0)), v(0))

	goal := saturate.LoadGoal(st, "s1", saturate.Equation{
		LHS: mk(sig, one, mk(sig, one, zeroT, v(0)), zeroT),
		RHS: v(0),
	})

	reason := runToHalt(t, st)
	if reason != saturate.ReasonGoalSolved {
		t.Fatalf("reason = %v, want ReasonGoalSolved", reason)
	}
	if !goal.Solved {
		t.Fatalf("goal not marked solved")
	}
	if _, _, err := proof.Certify(sig, st.ProofStore, goal.Proof); err != nil {
		t.Fatalf("Certify: %v", err)
	}
}

// S2: commutativity 1(x,y)=1(y,x) proves 1(a,b)=1(b,a) via a Permutative
// rule, exercising the KBO precedence between the two constants.
func TestS2_Commutativity(t *testing.T) {
	sig := term.NewSignature()
	one := sig.Declare("1", 2, 1)
	a := sig.Declare("a", 0, 1)
	b := sig.Declare("b", 0, 1)
	aT, bT := mk(sig, a), mk(sig, b)

	st := saturate.New(sig, config.Default())
	if err := saturate.LoadAxiom(st, saturate.Equation{
		LHS: mk(sig, one, v(0), v(1)),
		RHS: mk(sig, one, v(1), v(0)),
	}); err != nil {
		t.Fatalf("LoadAxiom: %v", err)
	}
	goal := saturate.LoadGoal(st, "s2", saturate.Equation{
		LHS: mk(sig, one, aT, bT),
		RHS: mk(sig, one, bT, aT),
	})

	reason := runToHalt(t, st)
	if reason != saturate.ReasonGoalSolved {
		t.Fatalf("reason = %v, want ReasonGoalSolved", reason)
	}
	if !goal.Solved {
		t.Fatalf("goal not marked solved")
	}
}

// S3: associativity alone is already confluent; completion adds no rule
// beyond the one the axiom orients into.
func TestS3_AssociativityConfluent(t *testing.T) {
	sig, one, _ := groupSig2()
	st := saturate.New(sig, config.Default())
	if err := saturate.LoadAxiom(st, saturate.Equation{
		LHS: mk(sig, one, mk(sig, one, v(0), v(1)), v(2)),
		RHS: mk(sig, one, v(0), mk(sig, one, v(1), v(2))),
	}); err != nil {
		t.Fatalf("LoadAxiom: %v", err)
	}

	reason := runToHalt(t, st)
	if reason != saturate.ReasonQueueEmpty {
		t.Fatalf("reason = %v, want ReasonQueueEmpty", reason)
	}
	if len(st.Actives) != 1 {
		t.Fatalf("len(Actives) = %d, want 1 (no new rule beyond the axiom)", len(st.Actives))
	}
}

// groupSig2 is a signature with only a binary "1", no constant, for
// axioms that never mention identity or inverse.
func groupSig2() (sig *term.Signature, one term.FuncID, _ term.FuncID) {
	sig = term.NewSignature()
	one = sig.Declare("1", 2, 1)
	return sig, one, 0
}

// S4: group axioms (left identity, left inverse, associativity) derive
// the right-identity law as a consequence.
func TestS4_GroupRightIdentity(t *testing.T) {
	sig := term.NewSignature()
	e := sig.Declare("e", 0, 1)
	sig.SetMinimal(e)
	i := sig.Declare("i", 1, 1)
	one := sig.Declare("1", 2, 1)
	eT := mk(sig, e)

	st := saturate.New(sig, config.Default())
	axiom := func(lhs, rhs term.Term) {
		if err := saturate.LoadAxiom(st, saturate.Equation{LHS: lhs, RHS: rhs}); err != nil {
			t.Fatalf("LoadAxiom: %v", err)
		}
	}
	// 1(e,x) = x
	axiom(mk(sig, one, eT, v(0)), v(0))
	// 1(i(x),x) = e
	axiom(mk(sig, one, mk(sig, i, v(0)), v(0)), eT)
	// 1(1(x,y),z) = 1(x,1(y,z))
	axiom(
		mk(sig, one, mk(sig, one, v(0), v(1)), v(2)),
		mk(sig, one, v(0), mk(sig, one, v(1), v(2))),
	)

	goal := saturate.LoadGoal(st, "s4", saturate.Equation{
		LHS: mk(sig, one, v(0), eT),
		RHS: v(0),
	})

	reason := runToHalt(t, st)
	if reason != saturate.ReasonGoalSolved {
		t.Fatalf("reason = %v, want ReasonGoalSolved", reason)
	}
	if !goal.Solved {
		t.Fatalf("goal not marked solved")
	}
	if _, _, err := proof.Certify(sig, st.ProofStore, goal.Proof); err != nil {
		t.Fatalf("Certify: %v", err)
	}
}

// S5: a zero critical-pair budget halts on the very first call, with no
// active rule beyond the loaded axiom and no progress.
func TestS5_ZeroCriticalPairBudget(t *testing.T) {
	sig, one, zero := groupSig()
	cfg := config.Default()
	cfg.MaxCriticalPairs = 0

	st := saturate.New(sig, cfg)
	if err := saturate.LoadAxiom(st, saturate.Equation{
		LHS: mk(sig, one, v(0), mk(sig, zero)),
		RHS: v(0),
	}); err != nil {
		t.Fatalf("LoadAxiom: %v", err)
	}

	reason := saturate.Complete1(st)
	if reason != saturate.ReasonMaxCriticalPairs {
		t.Fatalf("reason = %v, want ReasonMaxCriticalPairs", reason)
	}
	if len(st.Actives) != 1 {
		t.Fatalf("len(Actives) = %d, want 1 (only the axiom loaded before the bound was checked)", len(st.Actives))
	}
}

// S6: f(x) = g(y) is unorientable in either direction: each side carries
// a variable the other side never mentions, so neither ever dominates
// the other for every ground instance, and flipping the equation just
// swaps which side has the unbound variable. Loading it is a fatal
// input error.
func TestS6_UnorientableEquation(t *testing.T) {
	sig := term.NewSignature()
	f := sig.Declare("f", 1, 1)
	g := sig.Declare("g", 1, 1)
	st := saturate.New(sig, config.Default())

	err := saturate.LoadAxiom(st, saturate.Equation{
		LHS: mk(sig, f, v(0)),
		RHS: mk(sig, g, v(1)),
	})
	if err == nil {
		t.Fatalf("LoadAxiom: expected an error, got nil")
	}
	var inputErr *kberrors.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("LoadAxiom error = %v, want *kberrors.InputError", err)
	}
}
