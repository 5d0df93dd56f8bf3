// Package termindex implements approximate-match retrieval keyed on a
// pattern's skeleton, refined to exact matches by the caller via
// subst.Match.
//
// The skeleton key used here is the pattern's root symbol alone (function
// id, or "is a variable"): every pattern whose root could possibly match a
// given query is returned, and no pattern that could match is ever
// missed, because subst.Match itself requires functor equality at the
// root (or a bare variable pattern) — so bucketing on the root symbol is
// a sound over-approximation without walking a full multi-level trie.
package termindex

import (
	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Entry pairs a stored pattern with its caller-supplied value (typically a
// rule id).
type Entry struct {
	Pattern term.Term
	Value   interface{}
}

type bucketKey struct {
	isVar bool
	f     term.FuncID
}

func rootBucket(t term.Term) bucketKey {
	if t.IsVar() {
		return bucketKey{isVar: true}
	}
	return bucketKey{f: t.FuncID()}
}

// Index is an approximate-match lookup structure over a set of terms.
type Index struct {
	sig     *term.Signature
	buckets map[bucketKey][]Entry
}

// New returns an empty index over sig.
func New(sig *term.Signature) *Index {
	return &Index{sig: sig, buckets: make(map[bucketKey][]Entry)}
}

// Insert adds pattern -> value to the index.
func (ix *Index) Insert(pattern term.Term, value interface{}) {
	k := rootBucket(pattern)
	ix.buckets[k] = append(ix.buckets[k], Entry{Pattern: pattern, Value: value})
}

// Delete removes the first (pattern, value) entry equal to the given pair,
// comparing patterns structurally and values with ==. It reports whether
// an entry was removed.
func (ix *Index) Delete(pattern term.Term, value interface{}) bool {
	return ix.DeleteMatching(pattern, func(v interface{}) bool { return v == value })
}

// DeleteMatching removes the first entry filed under pattern's bucket
// whose value satisfies match. Useful when the stored value is not
// directly comparable with == (e.g. it embeds a pointer that gets
// reconstructed between calls).
func (ix *Index) DeleteMatching(pattern term.Term, match func(interface{}) bool) bool {
	k := rootBucket(pattern)
	entries := ix.buckets[k]
	for i, e := range entries {
		if term.Equal(e.Pattern, pattern) && match(e.Value) {
			ix.buckets[k] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// ApproxMatches enumerates every stored entry whose pattern could possibly
// match t: entries rooted at the same function as t (if t is not a
// variable) plus every variable-rooted entry. The result may contain
// entries that do not actually match; callers filter with subst.Match or
// subst.Unify. Iteration order is stable for a fixed index state but
// otherwise unspecified.
func (ix *Index) ApproxMatches(t term.Term) []Entry {
	var out []Entry
	out = append(out, ix.buckets[bucketKey{isVar: true}]...)
	if !t.IsVar() {
		out = append(out, ix.buckets[bucketKey{f: t.FuncID()}]...)
	}
	return out
}

// MatchResult pairs a successful exact match with the substitution that
// witnesses it.
type MatchResult struct {
	Subst *subst.Subst
	Entry Entry
}

// Matches returns every stored (sigma, pattern) pair with sigma(pattern) =
// t — the exact-match refinement of ApproxMatches.
func (ix *Index) Matches(t term.Term) []MatchResult {
	var out []MatchResult
	for _, e := range ix.ApproxMatches(t) {
		if s, ok := subst.Match(ix.sig, e.Pattern, t); ok {
			out = append(out, MatchResult{Subst: s, Entry: e})
		}
	}
	return out
}

// UnifiableMatches returns every stored entry whose (freshly offset)
// pattern unifies with t, together with the unifier. delta is added to
// every variable id in the stored pattern before unifying, so that
// callers can keep the query's and the index's variables in disjoint
// ranges — the same convention subst.Offset uses for critical pairs.
func (ix *Index) UnifiableMatches(t term.Term, delta term.VarID) []MatchResult {
	var out []MatchResult
	candidates := ix.ApproxMatches(t)
	if t.IsVar() {
		// A variable query unifies with patterns of every root symbol.
		candidates = nil
		for _, es := range ix.buckets {
			candidates = append(candidates, es...)
		}
	}
	for _, e := range candidates {
		renamed := subst.Offset(ix.sig, e.Pattern, delta)
		if s, ok := subst.Unify(ix.sig, renamed, t); ok {
			out = append(out, MatchResult{Subst: s, Entry: Entry{Pattern: renamed, Value: e.Value}})
		}
	}
	return out
}

// Len returns the number of entries currently stored.
func (ix *Index) Len() int {
	n := 0
	for _, es := range ix.buckets {
		n += len(es)
	}
	return n
}
