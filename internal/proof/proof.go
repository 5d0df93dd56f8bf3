// Package proof implements the equational-derivation DAG that backs a
// ProvedGoal: a small node algebra (Axiom, Refl, Lemma, Trans, Cong,
// Symm) plus a checker that walks a proof and confirms every node's
// claimed endpoints actually follow from its premises.
package proof

import (
	"fmt"

	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Proof witnesses an equation between two terms. Every node caches its
// two endpoints at construction so composing and comparing proofs never
// re-walks a subproof just to learn what it proves.
type Proof interface {
	Endpoints() (lhs, rhs term.Term)
}

// Axiom is a ground instance of an input equation: sigma applied to
// lhs0=rhs0.
type Axiom struct {
	LHS0, RHS0 term.Term
	Sigma      *subst.Subst
	lhs, rhs   term.Term
}

func (a Axiom) Endpoints() (term.Term, term.Term) { return a.lhs, a.rhs }

// NewAxiom instantiates the axiom equation lhs0=rhs0 under sigma.
func NewAxiom(sig *term.Signature, lhs0, rhs0 term.Term, sigma *subst.Subst) Proof {
	return Axiom{
		LHS0: lhs0, RHS0: rhs0, Sigma: sigma,
		lhs: subst.Apply(sig, sigma, lhs0),
		rhs: subst.Apply(sig, sigma, rhs0),
	}
}

// Refl is the trivial proof that t equals itself.
type Refl struct {
	t term.Term
}

func (r Refl) Endpoints() (term.Term, term.Term) { return r.t, r.t }

// NewRefl builds the identity proof on t.
func NewRefl(t term.Term) Proof { return Refl{t: t} }

// Lemma refers to a previously certified proof by id, instantiated under
// sigma. Reusing a lemma id avoids duplicating the referenced proof's
// substructure every time the same derivation is needed again.
type Lemma struct {
	ID       int
	Sigma    *subst.Subst
	lhs, rhs term.Term
}

func (l Lemma) Endpoints() (term.Term, term.Term) { return l.lhs, l.rhs }

// Trans is the transitive composition of p (u=v) and q (v=w), proving
// u=w.
type Trans struct {
	P, Q     Proof
	lhs, rhs term.Term
}

func (t Trans) Endpoints() (term.Term, term.Term) { return t.lhs, t.rhs }

// NewTrans composes p then q, collapsing either operand if it is Refl
// and left-associating chains of Trans so Endpoints stays O(1).
// MismatchError-returning validation happens in Certify, not here: NewTrans
// trusts its caller to have already checked p's rhs equals q's lhs.
func NewTrans(p, q Proof) Proof {
	if _, ok := p.(Refl); ok {
		return q
	}
	if _, ok := q.(Refl); ok {
		return p
	}
	if qt, ok := q.(Trans); ok {
		return NewTrans(NewTrans(p, qt.P), qt.Q)
	}
	pl, _ := p.Endpoints()
	_, qr := q.Endpoints()
	return Trans{P: p, Q: q, lhs: pl, rhs: qr}
}

// Cong lifts one proof per argument of an f-headed term into a proof
// that the two f-applications are equal.
type Cong struct {
	F        term.FuncID
	Children []Proof
	lhs, rhs term.Term
}

func (c Cong) Endpoints() (term.Term, term.Term) { return c.lhs, c.rhs }

// NewCong builds the congruence proof for f applied to children,
// collapsing to Refl if every child is itself Refl.
func NewCong(sig *term.Signature, f term.FuncID, children []Proof) Proof {
	allRefl := true
	lb := term.NewBuilder(sig)
	rb := term.NewBuilder(sig)
	lb.EmitFunc(f, func(b *term.Builder) {
		for _, c := range children {
			l, _ := c.Endpoints()
			b.EmitSlice(l)
			if _, ok := c.(Refl); !ok {
				allRefl = false
			}
		}
	})
	rb.EmitFunc(f, func(b *term.Builder) {
		for _, c := range children {
			_, r := c.Endpoints()
			b.EmitSlice(r)
		}
	})
	lhs, rhs := lb.Term(), rb.Term()
	if allRefl {
		return Refl{t: lhs}
	}
	return Cong{F: f, Children: children, lhs: lhs, rhs: rhs}
}

// Symm reverses a proof: p proves u=v, Symm(p) proves v=u.
type Symm struct {
	P Proof
}

func (s Symm) Endpoints() (term.Term, term.Term) {
	l, r := s.P.Endpoints()
	return r, l
}

// NewSymm reverses p, collapsing a double Symm back to the original
// proof rather than nesting indefinitely.
func NewSymm(p Proof) Proof {
	if s, ok := p.(Symm); ok {
		return s.P
	}
	return Symm{P: p}
}

// MismatchError reports a proof node whose premises do not actually
// compose into its claimed conclusion.
type MismatchError struct {
	Msg string
}

func (e *MismatchError) Error() string { return e.Msg }

// Certify walks p and confirms every composite node's endpoints are the
// true composition of its premises' endpoints, resolving Lemma nodes
// against store. It returns the certified equation on success.
func Certify(sig *term.Signature, store *Store, p Proof) (lhs, rhs term.Term, err error) {
	switch n := p.(type) {
	case Axiom:
		return n.lhs, n.rhs, nil
	case Refl:
		return n.t, n.t, nil
	case Lemma:
		generic, ok := store.Lookup(n.ID)
		if !ok {
			return nil, nil, &MismatchError{Msg: fmt.Sprintf("certify: unknown lemma id %d", n.ID)}
		}
		gl, gr := generic.Endpoints()
		wantL := subst.Apply(sig, n.Sigma, gl)
		wantR := subst.Apply(sig, n.Sigma, gr)
		if !term.Equal(wantL, n.lhs) || !term.Equal(wantR, n.rhs) {
			return nil, nil, &MismatchError{Msg: fmt.Sprintf("certify: lemma %d instantiation does not match cached endpoints", n.ID)}
		}
		return n.lhs, n.rhs, nil
	case Trans:
		pl, pr, err := Certify(sig, store, n.P)
		if err != nil {
			return nil, nil, err
		}
		ql, qr, err := Certify(sig, store, n.Q)
		if err != nil {
			return nil, nil, err
		}
		if !term.Equal(pr, ql) {
			return nil, nil, &MismatchError{Msg: "certify: Trans premises do not chain"}
		}
		if !term.Equal(pl, n.lhs) || !term.Equal(qr, n.rhs) {
			return nil, nil, &MismatchError{Msg: "certify: Trans endpoints do not match its premises"}
		}
		return n.lhs, n.rhs, nil
	case Cong:
		lb := term.NewBuilder(sig)
		rb := term.NewBuilder(sig)
		lb.EmitFunc(n.F, func(b *term.Builder) {
			for _, c := range n.Children {
				cl, _, err2 := Certify(sig, store, c)
				if err2 != nil {
					err = err2
					return
				}
				b.EmitSlice(cl)
			}
		})
		if err != nil {
			return nil, nil, err
		}
		rb.EmitFunc(n.F, func(b *term.Builder) {
			for _, c := range n.Children {
				_, cr, err2 := Certify(sig, store, c)
				if err2 != nil {
					err = err2
					return
				}
				b.EmitSlice(cr)
			}
		})
		if err != nil {
			return nil, nil, err
		}
		lhs, rhs := lb.Term(), rb.Term()
		if !term.Equal(lhs, n.lhs) || !term.Equal(rhs, n.rhs) {
			return nil, nil, &MismatchError{Msg: "certify: Cong endpoints do not match its children"}
		}
		return n.lhs, n.rhs, nil
	case Symm:
		pl, pr, err := Certify(sig, store, n.P)
		if err != nil {
			return nil, nil, err
		}
		return pr, pl, nil
	default:
		return nil, nil, &MismatchError{Msg: "certify: unknown proof node type"}
	}
}
