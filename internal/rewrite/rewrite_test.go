package rewrite

import (
	"testing"

	"github.com/arborist-dev/kbcomplete/internal/rule"
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/internal/termindex"
)

func testSig() *term.Signature {
	sig := term.NewSignature()
	e := sig.Declare("e", 0, 1)
	sig.SetMinimal(e)
	sig.Declare("a", 0, 1)
	sig.Declare("f", 1, 1)
	sig.Declare("g", 2, 1)
	sig.Declare("h", 2, 1)
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

// buildIndex orients f(x) -> a and inserts it into a fresh RuleIndex.
func buildIndex(t *testing.T, sig *term.Signature) *termindex.RuleIndex {
	t.Helper()
	x := varTerm(0)
	r, err := rule.Orient(sig, fTerm(sig, "f", x), constTerm(sig, "a"))
	if err != nil {
		t.Fatalf("Orient(f(x), a) failed: %v", err)
	}
	if r.Orientation.Kind != rule.Oriented {
		t.Fatalf("kind = %v, want Oriented", r.Orientation.Kind)
	}
	ri := termindex.NewRuleIndex(sig)
	ri.Insert(1, r)
	return ri
}

func TestRewriteRootMatch(t *testing.T) {
	sig := testSig()
	ri := buildIndex(t, sig)
	a := constTerm(sig, "a")
	fa := fTerm(sig, "f", a)

	reds := Rewrite(ri.Oriented, nil)(sig, fa)
	if len(reds) != 1 {
		t.Fatalf("Rewrite at root = %d reductions, want 1", len(reds))
	}
	if !term.Equal(reds[0].Result(), a) {
		t.Errorf("Result = %v, want %v", reds[0].Result(), a)
	}
}

func TestRewriteNoMatchAtWrongHead(t *testing.T) {
	sig := testSig()
	ri := buildIndex(t, sig)
	a := constTerm(sig, "a")
	ga := fTerm(sig, "g", a, a)
	reds := Rewrite(ri.Oriented, nil)(sig, ga)
	if len(reds) != 0 {
		t.Fatalf("Rewrite(g(a,a)) = %d reductions, want 0", len(reds))
	}
}

func TestAnywhereFindsNestedRedex(t *testing.T) {
	sig := testSig()
	ri := buildIndex(t, sig)
	a := constTerm(sig, "a")
	fa := fTerm(sig, "f", a)
	term_ := fTerm(sig, "g", fa, a) // g(f(a), a): root g does not match, child0 does

	rootReds := Rewrite(ri.Oriented, nil)(sig, term_)
	if len(rootReds) != 0 {
		t.Fatalf("root strategy found %d reductions on g(f(a),a), want 0", len(rootReds))
	}

	anyReds := Anywhere(Rewrite(ri.Oriented, nil))(sig, term_)
	if len(anyReds) != 1 {
		t.Fatalf("Anywhere found %d reductions, want 1", len(anyReds))
	}
	want := fTerm(sig, "g", a, a)
	if !term.Equal(anyReds[0].Result(), want) {
		t.Errorf("Result = %v, want %v", anyReds[0].Result(), want)
	}
}

func TestParallelAppliesDisjointRedexesSimultaneously(t *testing.T) {
	sig := testSig()
	ri := buildIndex(t, sig)
	a := constTerm(sig, "a")
	fa := fTerm(sig, "f", a)
	term_ := fTerm(sig, "h", fa, fa) // h(f(a), f(a)): two independent redexes

	reds := Parallel(Anywhere(Rewrite(ri.Oriented, nil)))(sig, term_)
	if len(reds) != 1 {
		t.Fatalf("Parallel = %d reductions, want 1 composed step", len(reds))
	}
	want := fTerm(sig, "h", a, a)
	if !term.Equal(reds[0].Result(), want) {
		t.Errorf("Result = %v, want %v", reds[0].Result(), want)
	}
	if _, ok := reds[0].(Cong); !ok {
		t.Errorf("expected the composed step to be a Cong wrapping both child steps, got %T", reds[0])
	}
}

func TestNormaliseWithReachesFixedPoint(t *testing.T) {
	sig := testSig()
	ri := buildIndex(t, sig)
	a := constTerm(sig, "a")
	fa := fTerm(sig, "f", a)
	term_ := fTerm(sig, "h", fa, fa)

	strat := Anywhere(Rewrite(ri.Oriented, nil))
	red, err := NormaliseWith(sig, nil, strat, term_)
	if err != nil {
		t.Fatalf("NormaliseWith failed: %v", err)
	}
	want := fTerm(sig, "h", a, a)
	if !term.Equal(red.Result(), want) {
		t.Errorf("Result = %v, want %v", red.Result(), want)
	}
	if more := strat(sig, red.Result()); len(more) != 0 {
		t.Errorf("result is not a fixed point: %d more reductions available", len(more))
	}
}

func TestSimplify(t *testing.T) {
	sig := testSig()
	ri := buildIndex(t, sig)
	a := constTerm(sig, "a")
	fa := fTerm(sig, "f", a)
	ffa := fTerm(sig, "f", fa)

	got := Simplify(sig, ri.Oriented, ffa)
	if !term.Equal(got, a) {
		t.Errorf("Simplify(f(f(a))) = %v, want %v", got, a)
	}
}

func TestNormalFormsAndSuccessors(t *testing.T) {
	sig := testSig()
	ri := buildIndex(t, sig)
	a := constTerm(sig, "a")
	fa := fTerm(sig, "f", a)

	strat := Anywhere(Rewrite(ri.Oriented, nil))
	succ := Successors(sig, strat, []term.Term{fa})
	if len(succ) != 2 {
		t.Fatalf("Successors(f(a)) = %d terms, want 2 (f(a) and a)", len(succ))
	}
	nf := NormalForms(sig, strat, []term.Term{fa})
	if len(nf) != 1 || !term.Equal(nf[0], a) {
		t.Fatalf("NormalForms(f(a)) = %v, want [a]", nf)
	}
}
