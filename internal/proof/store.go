package proof

import (
	"encoding/binary"

	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Store interns proofs by the content of their endpoints so that a rule
// derived and reused many times keeps a single underlying proof,
// referenced everywhere else by a Lemma node.
type Store struct {
	sig    *term.Signature
	byID   map[int]Proof
	byKey  map[string]int
	nextID int
}

// NewStore returns an empty lemma store.
func NewStore(sig *term.Signature) *Store {
	return &Store{sig: sig, byID: make(map[int]Proof), byKey: make(map[string]int)}
}

// Intern registers p under its endpoint-content key, returning the
// existing id if a proof of the same equation (same endpoints) was
// already stored.
func (st *Store) Intern(p Proof) int {
	lhs, rhs := p.Endpoints()
	k := key(lhs, rhs)
	if id, ok := st.byKey[k]; ok {
		return id
	}
	st.nextID++
	id := st.nextID
	st.byID[id] = p
	st.byKey[k] = id
	return id
}

// Lookup returns the generic proof registered under id.
func (st *Store) Lookup(id int) (Proof, bool) {
	p, ok := st.byID[id]
	return p, ok
}

// Lemma builds a Lemma node referencing id, instantiated under sigma,
// with its endpoints computed now so Endpoints stays O(1) thereafter.
func (st *Store) Lemma(sig *term.Signature, id int, sigma *subst.Subst) (Proof, bool) {
	generic, ok := st.byID[id]
	if !ok {
		return nil, false
	}
	gl, gr := generic.Endpoints()
	return Lemma{ID: id, Sigma: sigma, lhs: subst.Apply(sig, sigma, gl), rhs: subst.Apply(sig, sigma, gr)}, true
}

func key(lhs, rhs term.Term) string {
	buf := make([]byte, 0, 8*(len(lhs)+len(rhs))+8)
	buf = appendTerm(buf, lhs)
	buf = appendTerm(buf, rhs)
	return string(buf)
}

func appendTerm(buf []byte, t term.Term) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(len(t)))
	buf = append(buf, tmp[:]...)
	for _, sym := range t {
		binary.LittleEndian.PutUint64(tmp[:], uint64(sym))
		buf = append(buf, tmp[:]...)
	}
	return buf
}
