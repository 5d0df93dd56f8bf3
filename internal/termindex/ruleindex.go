package termindex

import (
	"github.com/arborist-dev/kbcomplete/internal/rule"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Side names which half of a rule's possible usage direction an entry
// came from. Oriented and WeaklyOriented rules only ever contribute
// Forward; Permutative and Unoriented rules contribute both directions,
// since either side may become the matched-against pattern.
type Side int

const (
	Forward Side = iota
	Backward
)

// RuleEntry is what RuleIndex stores alongside a rule id: Rule is always
// oriented so that its LHS is the pattern this entry was filed under and
// its RHS the corresponding replacement — for a Backward entry this is
// rule.Backwards(the original), not the original itself.
type RuleEntry struct {
	RuleID int
	Rule   *rule.Rule
	Side   Side
}

// RuleIndex keeps two term indices side by side over the same set of
// active rules: Oriented covers only the left-hand sides usable without
// further justification (Oriented and WeaklyOriented rules, forward
// direction only), and All additionally covers the reverse direction of
// every Permutative and Unoriented rule. The rewriter's hot path
// (Simplifier) only ever consults Oriented; critical-pair search and
// general rewriting consult All.
type RuleIndex struct {
	sig      *term.Signature
	Oriented *Index
	All      *Index
}

// NewRuleIndex returns an empty RuleIndex over sig.
func NewRuleIndex(sig *term.Signature) *RuleIndex {
	return &RuleIndex{sig: sig, Oriented: New(sig), All: New(sig)}
}

// Insert adds every applicable direction of r (identified by id) to the
// index.
func (ri *RuleIndex) Insert(id int, r *rule.Rule) {
	switch r.Orientation.Kind {
	case rule.Oriented, rule.WeaklyOriented:
		ri.Oriented.Insert(r.LHS, RuleEntry{RuleID: id, Rule: r, Side: Forward})
		ri.All.Insert(r.LHS, RuleEntry{RuleID: id, Rule: r, Side: Forward})
	case rule.Permutative, rule.Unoriented:
		ri.All.Insert(r.LHS, RuleEntry{RuleID: id, Rule: r, Side: Forward})
		back := rule.Backwards(r)
		ri.All.Insert(back.LHS, RuleEntry{RuleID: id, Rule: back, Side: Backward})
	}
}

// Delete removes every applicable direction of r (identified by id) from
// the index.
func (ri *RuleIndex) Delete(id int, r *rule.Rule) {
	bySide := func(side Side) func(interface{}) bool {
		return func(v interface{}) bool {
			e := v.(RuleEntry)
			return e.RuleID == id && e.Side == side
		}
	}
	switch r.Orientation.Kind {
	case rule.Oriented, rule.WeaklyOriented:
		ri.Oriented.DeleteMatching(r.LHS, bySide(Forward))
		ri.All.DeleteMatching(r.LHS, bySide(Forward))
	case rule.Permutative, rule.Unoriented:
		ri.All.DeleteMatching(r.LHS, bySide(Forward))
		back := rule.Backwards(r)
		ri.All.DeleteMatching(back.LHS, bySide(Backward))
	}
}
