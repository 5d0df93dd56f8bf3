package saturate

import (
	"encoding/binary"

	"github.com/arborist-dev/kbcomplete/internal/term"
)

// joinableSet is the subsumption index of spec.md's st_joinable: equations
// already known joinable, keyed order-independently so a = b and b = a
// hit the same entry.
type joinableSet struct {
	keys map[string]struct{}
}

func newJoinableSet() *joinableSet {
	return &joinableSet{keys: make(map[string]struct{})}
}

func termKey(t term.Term) string {
	buf := make([]byte, 8, 8+8*len(t))
	binary.LittleEndian.PutUint64(buf, uint64(len(t)))
	var tmp [8]byte
	for _, s := range t {
		binary.LittleEndian.PutUint64(tmp[:], uint64(s))
		buf = append(buf, tmp[:]...)
	}
	return string(buf)
}

func pairKey(a, b term.Term) string {
	ka, kb := termKey(a), termKey(b)
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

// Insert records that a and b are known joinable.
func (j *joinableSet) Insert(a, b term.Term) {
	j.keys[pairKey(a, b)] = struct{}{}
}

// Contains reports whether a and b were previously recorded as joinable.
func (j *joinableSet) Contains(a, b term.Term) bool {
	_, ok := j.keys[pairKey(a, b)]
	return ok
}

// Len reports how many joinable equations are recorded.
func (j *joinableSet) Len() int { return len(j.keys) }
