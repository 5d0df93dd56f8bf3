package pqueue

import (
	"testing"

	"github.com/arborist-dev/kbcomplete/internal/cp"
	"github.com/arborist-dev/kbcomplete/internal/rule"
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/internal/termindex"
)

func testSig() *term.Signature {
	sig := term.NewSignature()
	e := sig.Declare("e", 0, 1)
	sig.SetMinimal(e)
	sig.Declare("a", 0, 1)
	sig.Declare("m", 2, 1)
	return sig
}

func mustFunc(sig *term.Signature, name string) term.FuncID {
	id, ok := sig.Lookup(name)
	if !ok {
		panic("no such func: " + name)
	}
	return id
}

func varTerm(v term.VarID) term.Term { return term.Term{term.MakeVarSymbol(v)} }

func constTerm(sig *term.Signature, name string) term.Term {
	b := term.NewBuilder(sig)
	b.EmitConst(mustFunc(sig, name))
	return b.Term()
}

func fTerm(sig *term.Signature, name string, args ...term.Term) term.Term {
	b := term.NewBuilder(sig)
	b.EmitFunc(mustFunc(sig, name), func(b *term.Builder) {
		for _, a := range args {
			b.EmitSlice(a)
		}
	})
	return b.Term()
}

func identityRules(t *testing.T, sig *term.Signature) (r1, r2 *rule.Rule) {
	x := varTerm(0)
	e := constTerm(sig, "e")
	var err error
	r1, err = rule.Orient(sig, fTerm(sig, "m", x, e), x)
	if err != nil {
		t.Fatalf("Orient(m(x,e),x) failed: %v", err)
	}
	r2, err = rule.Orient(sig, fTerm(sig, "m", e, x), x)
	if err != nil {
		t.Fatalf("Orient(m(e,x),x) failed: %v", err)
	}
	return r1, r2
}

func TestQueueOrdersByScoreThenID(t *testing.T) {
	q := New()
	// Position tags each entry with its insertion order; the two score-3
	// entries must come out in the order they were inserted.
	q.Insert(1, []*Passive{{Score: 5, Position: 0}, {Score: 1, Position: 1}, {Score: 3, Position: 2}, {Score: 3, Position: 3}})
	var scores, order []int
	for {
		p, ok := q.RemoveMin()
		if !ok {
			break
		}
		scores = append(scores, p.Score)
		order = append(order, p.Position)
	}
	want := []int{1, 3, 3, 5}
	wantOrder := []int{1, 2, 3, 0}
	if len(scores) != len(want) {
		t.Fatalf("got %v, want %v", scores, want)
	}
	for i := range want {
		if scores[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, scores[i], want[i])
		}
		if order[i] != wantOrder[i] {
			t.Errorf("position %d: got entry %d, want entry %d", i, order[i], wantOrder[i])
		}
	}
}

func TestRetireOrphansSkippedOnDequeue(t *testing.T) {
	sig := testSig()
	r1, r2 := identityRules(t, sig)

	idx := termindex.NewRuleIndex(sig)
	idx.Insert(2, r2)
	rules := map[int]cp.RuleRef{
		1: {ID: 1, Rule: r1, Depth: 0},
		2: {ID: 2, Rule: r2, Depth: 0},
	}

	overlaps := cp.Overlaps(sig, 10, idx, rules, rules[1])
	if len(overlaps) == 0 {
		t.Fatalf("expected at least one overlap between the two identity rules")
	}
	q := New()
	q.Insert(1, MakePassives(sig, 10, 1, 1, overlaps))

	// Retire rule 2: every passive referencing it should become unreachable.
	delete(rules, 2)
	q.Retire(2)

	_, _, _, ok := Dequeue(sig, rules, 0, q)
	if ok {
		t.Fatalf("Dequeue returned a critical pair whose parent rule was retired")
	}
	if q.Considered == 0 {
		t.Errorf("Considered should count the skipped orphan")
	}
}

func TestDequeueRecomputesLiveOverlap(t *testing.T) {
	sig := testSig()
	r1, r2 := identityRules(t, sig)

	idx := termindex.NewRuleIndex(sig)
	idx.Insert(2, r2)
	rules := map[int]cp.RuleRef{
		1: {ID: 1, Rule: r1, Depth: 0},
		2: {ID: 2, Rule: r2, Depth: 0},
	}

	overlaps := cp.Overlaps(sig, 10, idx, rules, rules[1])
	if len(overlaps) == 0 {
		t.Fatalf("expected at least one overlap")
	}
	q := New()
	q.Insert(1, MakePassives(sig, 10, 1, 1, overlaps))

	cpair, r1id, r2id, ok := Dequeue(sig, rules, 0, q)
	if !ok {
		t.Fatalf("Dequeue found nothing, want a live critical pair")
	}
	if r1id != 1 && r2id != 1 {
		t.Errorf("dequeued pair does not reference rule 1: %d/%d", r1id, r2id)
	}
	if cpair == nil {
		t.Fatalf("Dequeue returned ok=true with a nil pair")
	}
}

func TestSimplifyQueueDropsStaleEntries(t *testing.T) {
	sig := testSig()
	r1, r2 := identityRules(t, sig)

	idx := termindex.NewRuleIndex(sig)
	idx.Insert(2, r2)
	rules := map[int]cp.RuleRef{
		1: {ID: 1, Rule: r1, Depth: 0},
		2: {ID: 2, Rule: r2, Depth: 0},
	}
	overlaps := cp.Overlaps(sig, 10, idx, rules, rules[1])
	q := New()
	q.Insert(1, MakePassives(sig, 10, 1, 1, overlaps))
	before := q.Len()

	delete(rules, 2)
	SimplifyQueue(sig, rules, 1, 1, q)

	if q.Len() != 0 {
		t.Errorf("SimplifyQueue left %d entries (of %d) after their partner rule vanished, want 0", q.Len(), before)
	}
}
