package rewrite

import (
	"errors"

	"github.com/arborist-dev/kbcomplete/internal/term"
)

// maxParallelRounds bounds normaliseWith's iteration count. Exceeding it
// means the rule set is effectively non-terminating, which is a developer-
// visible bug rather than a normal outcome, so it is reported as an error
// rather than silently truncated.
const maxParallelRounds = 1000

// ErrLoopDiagnostic is returned by NormaliseWith when a term fails to
// reach a fixed point within maxParallelRounds parallel steps.
var ErrLoopDiagnostic = errors.New("rewrite: exceeded parallel-step round limit, rewrite system is non-terminating")

// TermPred inspects a candidate next term during normalisation and
// decides whether normalisation should continue past it.
type TermPred func(t term.Term) bool

// NormaliseWith iterates Parallel(strat) from t, composing every step
// into a single reduction, until no step applies or pred rejects the
// next term. It reports ErrLoopDiagnostic if neither happens within
// maxParallelRounds rounds.
func NormaliseWith(sig *term.Signature, pred TermPred, strat Strategy, t term.Term) (Reduction, error) {
	par := Parallel(strat)
	acc := MakeRefl(t)
	cur := t
	for round := 0; round < maxParallelRounds; round++ {
		reds := par(sig, cur)
		if len(reds) == 0 {
			return acc, nil
		}
		next := reds[0].Result()
		if pred != nil && !pred(next) {
			return acc, nil
		}
		acc = MakeTrans(acc, reds[0])
		cur = next
	}
	return acc, ErrLoopDiagnostic
}

func keyOf(t term.Term) string {
	buf := make([]byte, len(t)*8)
	for i, s := range t {
		v := uint64(s)
		for b := 0; b < 8; b++ {
			buf[i*8+b] = byte(v >> (8 * b))
		}
	}
	return string(buf)
}

// Successors computes every term reachable from ts by repeatedly applying
// strat, deduplicated by resulting term, as a worklist closure.
func Successors(sig *term.Signature, strat Strategy, ts []term.Term) []term.Term {
	seen := make(map[string]term.Term)
	var worklist []term.Term
	for _, t := range ts {
		k := keyOf(t)
		if _, ok := seen[k]; !ok {
			seen[k] = t
			worklist = append(worklist, t)
		}
	}
	for len(worklist) > 0 {
		t := worklist[0]
		worklist = worklist[1:]
		for _, r := range strat(sig, t) {
			nt := r.Result()
			k := keyOf(nt)
			if _, ok := seen[k]; !ok {
				seen[k] = nt
				worklist = append(worklist, nt)
			}
		}
	}
	out := make([]term.Term, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	return out
}

// NormalForms returns the subset of Successors(sig, strat, ts) that strat
// offers no further reduction for: the irreducible descendants of ts.
func NormalForms(sig *term.Signature, strat Strategy, ts []term.Term) []term.Term {
	var nf []term.Term
	for _, t := range Successors(sig, strat, ts) {
		if len(strat(sig, t)) == 0 {
			nf = append(nf, t)
		}
	}
	return nf
}
