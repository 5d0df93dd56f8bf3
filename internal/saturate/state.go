// Package saturate implements the main completion loop: the active set,
// the goal list, and the dequeue/normalise/orient/enqueue cycle that
// drives passives from the queue into rules or joinable equations.
package saturate

import (
	"github.com/arborist-dev/kbcomplete/config"
	"github.com/arborist-dev/kbcomplete/internal/cp"
	"github.com/arborist-dev/kbcomplete/internal/pqueue"
	"github.com/arborist-dev/kbcomplete/internal/proof"
	"github.com/arborist-dev/kbcomplete/internal/rule"
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/internal/termindex"
)

// ActiveRule is one usable direction of an Active rule as filed in the
// rule index. Oriented and WeaklyOriented actives get exactly one;
// Permutative and Unoriented actives get a second, backward-facing view
// whose Rule is rule.Backwards of the first. Both views share the same
// RuleID: the index files them side by side (see termindex.RuleIndex)
// distinguished by termindex.Side rather than by a second id — overlap
// search always treats the forward view as the position-contributing
// side (see DESIGN.md, "one rule id per active").
type ActiveRule struct {
	RuleID          int
	ActiveID        int
	Rule            *rule.Rule
	Backward        bool
	NonVarPositions []int
}

// Active is a rewrite rule as inserted into the engine. Rules[0] is
// always the canonical, forward-facing view (the one filed under this
// active's shared RuleID in State.ActiveRules); a second, backward view
// is appended for Permutative and Unoriented rules.
type Active struct {
	ID      int
	Depth   int
	Rule    *rule.Rule
	Top     term.Term // the originating overlap's top term, for multi-step proofs
	Proof   proof.Proof
	LemmaID int // this active's derivation, interned in the proof store
	Rules   []*ActiveRule
}

// Goal tracks the two independently-growing sets of normal forms reached
// from each side of an equation the caller wants proved.
type Goal struct {
	Name       string
	Number     int
	LHS0, RHS0 term.Term
	Solved     bool
	Proof      proof.Proof

	lhsReach map[string]reachable
	rhsReach map[string]reachable
}

// State is the tuple threaded through every step of the loop.
type State struct {
	Sig       *term.Signature
	Config    config.Config
	RuleIndex *termindex.RuleIndex

	Actives     map[int]*Active
	ActiveRules map[int]*ActiveRule
	Joinable    *joinableSet
	Goals       []*Goal
	Passives    *pqueue.Queue
	ProofStore  *proof.Store

	nextActiveID int
	nextRuleID   int

	ticker *Ticker

	Messages []Message
	Aborted  bool
	Err      error // set when Complete1 aborts on a fatal (non-resource-bound) error
}

// New returns an empty saturation state over sig, configured by cfg.
func New(sig *term.Signature, cfg config.Config) *State {
	st := &State{
		Sig:         sig,
		Config:      cfg,
		RuleIndex:   termindex.NewRuleIndex(sig),
		Actives:     make(map[int]*Active),
		ActiveRules: make(map[int]*ActiveRule),
		Joinable:    newJoinableSet(),
		Passives:    pqueue.New(),
		ProofStore:  proof.NewStore(sig),
	}
	st.ticker = newTicker(cfg)
	return st
}

// emit appends msg to the message stream and applies any ambient side
// effect (currently none beyond buffering; embedders drain Messages or
// use Run's channel, see engine.go).
func (st *State) emit(msg Message) {
	st.Messages = append(st.Messages, msg)
}

// ruleRefs projects ActiveRules into the map shape internal/cp expects:
// one entry per rule id (one per active), holding its canonical (forward) direction and
// the depth of the active it belongs to.
func (st *State) ruleRefs() map[int]cp.RuleRef {
	out := make(map[int]cp.RuleRef, len(st.ActiveRules))
	for id, ar := range st.ActiveRules {
		if ar.Backward {
			continue
		}
		out[id] = cp.RuleRef{ID: id, Rule: ar.Rule, Depth: st.Actives[ar.ActiveID].Depth}
	}
	return out
}

// Considered reports how many critical pairs have been dequeued so far,
// the counter the max_critical_pairs bound is checked against.
func (st *State) Considered() int { return st.Passives.Considered }

// subsumed reports whether r's equation is already known joinable or
// already present as some active's equation, in either direction. This
// is a syntactic-equality approximation of subsumption: it never rejects
// a genuinely new rule, but does not catch rules that are subsumed only
// up to matching against an existing one (see DESIGN.md).
func (st *State) subsumed(r *rule.Rule) bool {
	if st.Joinable.Contains(r.LHS, r.RHS) {
		return true
	}
	for _, a := range st.Actives {
		if term.Equal(a.Rule.LHS, r.LHS) && term.Equal(a.Rule.RHS, r.RHS) {
			return true
		}
		if term.Equal(a.Rule.LHS, r.RHS) && term.Equal(a.Rule.RHS, r.LHS) {
			return true
		}
	}
	return false
}

// handleFatal records a non-recoverable error (input rejection, internal
// assertion, or loop diagnostic) and halts the loop.
func (st *State) handleFatal(err error) {
	st.Err = err
	st.Aborted = true
	st.emit(HaltMsg{Reason: ReasonAborted})
}
