package kbo

import (
	"testing"

	"github.com/arborist-dev/kbcomplete/internal/term"
)

func testSig() *term.Signature {
	sig := term.NewSignature()
	e := sig.Declare("e", 0, 1)
	sig.SetMinimal(e)
	sig.Declare("a", 0, 1)
	sig.Declare("b", 0, 1)
	sig.Declare("f", 2, 1)
	sig.Declare("g", 1, 1)
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

var sampleTerms = func(sig *term.Signature) []term.Term {
	return []term.Term{
		varTerm(0),
		varTerm(1),
		constTerm(sig, "e"),
		constTerm(sig, "a"),
		constTerm(sig, "b"),
		fTerm(sig, "g", constTerm(sig, "a")),
		fTerm(sig, "f", constTerm(sig, "a"), constTerm(sig, "b")),
		fTerm(sig, "f", varTerm(0), constTerm(sig, "b")),
	}
}

func TestKBOReflexiveIrreflexive(t *testing.T) {
	sig := testSig()
	for _, term := range sampleTerms(sig) {
		if !LessEq(sig, term, term) {
			t.Errorf("LessEq(%v, %v) = false, want true", term, term)
		}
		if LessThan(sig, term, term) {
			t.Errorf("LessThan(%v, %v) = true, want false", term, term)
		}
	}
}

func TestKBOAntisymmetric(t *testing.T) {
	sig := testSig()
	terms := sampleTerms(sig)
	for i, s := range terms {
		for j, u := range terms {
			if i == j {
				continue
			}
			if LessEq(sig, s, u) && LessEq(sig, u, s) {
				t.Errorf("LessEq(%v,%v) and LessEq(%v,%v) both hold for distinct terms", s, u, u, s)
			}
			if LessThan(sig, s, u) && LessEq(sig, u, s) {
				t.Errorf("LessThan(%v,%v) and LessEq(%v,%v) both hold", s, u, u, s)
			}
		}
	}
}

func TestMinimalConstantSmallest(t *testing.T) {
	sig := testSig()
	e := constTerm(sig, "e")
	a := constTerm(sig, "a")
	if !LessThan(sig, e, a) {
		t.Errorf("minimal constant should be less than any other ground term")
	}
}

func TestModelConsistency(t *testing.T) {
	sig := testSig()
	terms := sampleTerms(sig)
	models := []*Model{
		ModelFromOrder([]term.VarID{0, 1}),
		ModelFromOrder([]term.VarID{1, 0}),
	}
	for _, m := range models {
		for _, s := range terms {
			for _, u := range terms {
				vst, okst := LessIn(sig, m, s, u)
				_, okts := LessIn(sig, m, u, s)
				if okst && vst == Strict && okts {
					t.Errorf("model %+v: LessIn(s,u)=Strict and LessIn(u,s) both defined for s=%v u=%v", m, s, u)
				}
			}
		}
	}
}

func TestWeakenModelProducesCoarserModels(t *testing.T) {
	m := ModelFromOrder([]term.VarID{0, 1, 2})
	weaker := WeakenModel(m)
	if len(weaker) != 2 {
		t.Fatalf("len(WeakenModel) = %d, want 2", len(weaker))
	}
	for _, w := range weaker {
		if len(w.groups) != 2 {
			t.Errorf("weakened model has %d groups, want 2", len(w.groups))
		}
	}
}
