package termindex

import (
	"testing"

	"github.com/arborist-dev/kbcomplete/internal/rule"
)

func TestRuleIndexOrientedOnlyForwardDirection(t *testing.T) {
	sig := testSig()
	x := varTerm(0)
	r, err := rule.Orient(sig, fTerm(sig, "g", x), x)
	if err != nil {
		t.Fatalf("Orient failed: %v", err)
	}

	ri := NewRuleIndex(sig)
	ri.Insert(1, r)

	if ri.Oriented.Len() != 1 {
		t.Errorf("Oriented.Len() = %d, want 1", ri.Oriented.Len())
	}
	if ri.All.Len() != 1 {
		t.Errorf("All.Len() = %d, want 1", ri.All.Len())
	}
}

func TestRuleIndexUnorientedBothDirections(t *testing.T) {
	sig := testSig()
	lhs, rhs := varTerm(0), varTerm(1)
	r := &rule.Rule{LHS: lhs, RHS: rhs, Orientation: rule.Orientation{Kind: rule.Unoriented}}

	ri := NewRuleIndex(sig)
	ri.Insert(7, r)

	if ri.Oriented.Len() != 0 {
		t.Errorf("Oriented.Len() = %d, want 0 for an Unoriented rule", ri.Oriented.Len())
	}
	if ri.All.Len() != 2 {
		t.Errorf("All.Len() = %d, want 2 (both directions)", ri.All.Len())
	}

	ri.Delete(7, r)
	if ri.All.Len() != 0 {
		t.Errorf("All.Len() = %d after delete, want 0", ri.All.Len())
	}
}
