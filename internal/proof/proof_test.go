package proof

import (
	"testing"

	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

func testSig() *term.Signature {
	sig := term.NewSignature()
	e := sig.Declare("e", 0, 1)
	sig.SetMinimal(e)
	sig.Declare("a", 0, 1)
	sig.Declare("f", 1, 1)
	return sig
}

func mustFunc(sig *term.Signature, name string) term.FuncID {
	id, ok := sig.Lookup(name)
	if !ok {
		panic("no such func: " + name)
	}
	return id
}

func constTerm(sig *term.Signature, name string) term.Term {
	b := term.NewBuilder(sig)
	b.EmitConst(mustFunc(sig, name))
	return b.Term()
}

func fTerm(sig *term.Signature, name string, arg term.Term) term.Term {
	b := term.NewBuilder(sig)
	b.EmitFunc(mustFunc(sig, name), func(b *term.Builder) { b.EmitSlice(arg) })
	return b.Term()
}

func TestCertifyAxiom(t *testing.T) {
	sig := testSig()
	e, a := constTerm(sig, "e"), constTerm(sig, "a")
	ax := NewAxiom(sig, e, a, subst.New())
	lhs, rhs, err := Certify(sig, NewStore(sig), ax)
	if err != nil {
		t.Fatalf("Certify(axiom) error: %v", err)
	}
	if !term.Equal(lhs, e) || !term.Equal(rhs, a) {
		t.Errorf("Certify(axiom) = %v=%v, want e=a", lhs, rhs)
	}
}

func TestCertifyTransChains(t *testing.T) {
	sig := testSig()
	e, a := constTerm(sig, "e"), constTerm(sig, "a")
	fe, fa := fTerm(sig, "f", e), fTerm(sig, "f", a)

	p := NewAxiom(sig, e, a, subst.New())   // e=a
	q := NewAxiom(sig, fa, fe, subst.New()) // f(a)=f(e)
	// Lift p into f(e)=f(a) with Cong, then chain
	// f(e)=f(a), f(a)=f(e), f(e)=f(a) through two Trans nodes.
	cong := NewCong(sig, mustFunc(sig, "f"), []Proof{p})
	chained := NewTrans(NewTrans(cong, q), cong)

	lhs, rhs, err := Certify(sig, NewStore(sig), chained)
	if err != nil {
		t.Fatalf("Certify(trans) error: %v", err)
	}
	if !term.Equal(lhs, fe) || !term.Equal(rhs, fa) {
		t.Errorf("Certify(trans) = %v=%v, want f(e)=f(a)", lhs, rhs)
	}
}

func TestCertifySymmReverses(t *testing.T) {
	sig := testSig()
	e, a := constTerm(sig, "e"), constTerm(sig, "a")
	p := NewAxiom(sig, e, a, subst.New())
	rev := NewSymm(p)
	lhs, rhs, err := Certify(sig, NewStore(sig), rev)
	if err != nil {
		t.Fatalf("Certify(symm) error: %v", err)
	}
	if !term.Equal(lhs, a) || !term.Equal(rhs, e) {
		t.Errorf("Certify(symm) = %v=%v, want a=e", lhs, rhs)
	}
}

func TestCertifyLemmaReuse(t *testing.T) {
	sig := testSig()
	e, a := constTerm(sig, "e"), constTerm(sig, "a")
	store := NewStore(sig)
	base := NewAxiom(sig, e, a, subst.New())
	id := store.Intern(base)

	lemma, ok := store.Lemma(sig, id, subst.New())
	if !ok {
		t.Fatalf("Lemma lookup failed for freshly interned id %d", id)
	}
	lhs, rhs, err := Certify(sig, store, lemma)
	if err != nil {
		t.Fatalf("Certify(lemma) error: %v", err)
	}
	if !term.Equal(lhs, e) || !term.Equal(rhs, a) {
		t.Errorf("Certify(lemma) = %v=%v, want e=a", lhs, rhs)
	}

	// Interning the same equation twice returns the same id.
	if again := store.Intern(NewAxiom(sig, e, a, subst.New())); again != id {
		t.Errorf("Intern did not dedup an equal proof: got id %d, want %d", again, id)
	}
}

func TestCertifyRejectsBrokenTrans(t *testing.T) {
	sig := testSig()
	e, a := constTerm(sig, "e"), constTerm(sig, "a")
	p := NewAxiom(sig, e, a, subst.New())   // e=a
	q := NewAxiom(sig, e, a, subst.New())   // e=a again, does not chain onto a
	broken := Trans{P: p, Q: q, lhs: e, rhs: a}

	if _, _, err := Certify(sig, NewStore(sig), broken); err == nil {
		t.Fatalf("Certify accepted a Trans whose premises do not chain")
	}
}
