package saturate

import (
	"github.com/arborist-dev/kbcomplete/internal/cp"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Equation is one input axiom or goal: an equality between two terms
// over the state's signature.
type Equation struct {
	LHS, RHS term.Term
}

// LoadAxiom seeds the loop with an axiom, entering it as a depth-0
// critical pair exactly as spec.md's lifecycle describes: axioms become
// CriticalPairs on load. Its provenance is recorded as an Axiom node,
// not a composition of parent rules.
func LoadAxiom(st *State, eq Equation) error {
	cpair := &cp.CriticalPair{LHS: eq.LHS, RHS: eq.RHS, Depth: 0}
	return consider(st, cpair, eq.LHS, eq.RHS, true)
}

// LoadGoal registers eq as a named goal to be proved by the loop.
func LoadGoal(st *State, name string, eq Equation) *Goal {
	return NewGoal(st, name, eq.LHS, eq.RHS)
}
