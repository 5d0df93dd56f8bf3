package saturate

import "github.com/arborist-dev/kbcomplete/internal/term"

// Message is one entry of the output stream of spec.md §6: an ordered
// record of everything that happened to the active set, the queue, or a
// goal during one or more calls to Complete1.
type Message interface {
	isMessage()
}

// NewActiveMsg reports a rule joining the active set.
type NewActiveMsg struct{ Active *Active }

// NewEquationMsg reports a joinable equation being recorded.
type NewEquationMsg struct{ LHS, RHS term.Term }

// DeleteActiveMsg reports a rule retired by interreduction.
type DeleteActiveMsg struct{ Active *Active }

// SimplifyQueueMsg marks a queue-simplification maintenance pass.
type SimplifyQueueMsg struct{ Dropped int }

// InterreduceMsg marks an interreduction maintenance pass.
type InterreduceMsg struct{ Deleted, Updated int }

// ProvedGoalMsg reports a solved goal and its certified proof.
type ProvedGoalMsg struct{ Goal *Goal }

// HaltMsg reports why Complete1 stopped making progress.
type HaltMsg struct{ Reason Reason }

func (NewActiveMsg) isMessage()      {}
func (NewEquationMsg) isMessage()    {}
func (DeleteActiveMsg) isMessage()   {}
func (SimplifyQueueMsg) isMessage()  {}
func (InterreduceMsg) isMessage()    {}
func (ProvedGoalMsg) isMessage()     {}
func (HaltMsg) isMessage()           {}

// Reason distinguishes the ways Complete1 can stop making progress.
type Reason int

const (
	// Continue means Complete1 processed a passive; the loop should
	// call it again.
	Continue Reason = iota
	ReasonMaxCriticalPairs
	ReasonGoalSolved
	ReasonQueueEmpty
	ReasonAborted
)

func (r Reason) String() string {
	switch r {
	case Continue:
		return "continue"
	case ReasonMaxCriticalPairs:
		return "max_critical_pairs reached"
	case ReasonGoalSolved:
		return "goal solved"
	case ReasonQueueEmpty:
		return "queue empty"
	case ReasonAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
