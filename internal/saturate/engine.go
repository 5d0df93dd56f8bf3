package saturate

import (
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/kbolog"
)

// Result is one message emitted by Run, alongside the error that ended
// the stream if it did not end in ReasonQueueEmpty or ReasonGoalSolved.
type Result struct {
	Message Message
	Halt    *HaltMsg
	Err     error
}

// Run drives st's loop to completion (or to the goal being solved, or to
// a resource bound, or to a fatal error) off the caller's goroutine,
// streaming every emitted Message and logging it through kbolog. The
// returned cancel func aborts the run early; callers that read Run to
// exhaustion never need to call it.
func Run(st *State) (<-chan Result, func()) {
	stream := make(chan Result)
	abort := make(chan struct{})
	cancel := func() {
		select {
		case <-abort:
		default:
			close(abort)
		}
	}

	go func() {
		defer close(stream)
		sent := 0
		for {
			select {
			case <-abort:
				st.Aborted = true
				return
			default:
			}

			reason := Complete1(st)
			for ; sent < len(st.Messages); sent++ {
				logMessage(st, st.Messages[sent])
				stream <- Result{Message: st.Messages[sent]}
			}
			if reason == Continue {
				continue
			}

			var halt *HaltMsg
			for i := len(st.Messages) - 1; i >= 0; i-- {
				if h, ok := st.Messages[i].(HaltMsg); ok {
					halt = &h
					break
				}
			}
			kbolog.Halt(reason.String())
			stream <- Result{Halt: halt, Err: st.Err}
			return
		}
	}()
	return stream, cancel
}

// logMessage forwards one emitted message to kbolog under the log call
// matching its kind.
func logMessage(st *State, msg Message) {
	switch m := msg.(type) {
	case NewActiveMsg:
		kbolog.NewActive(m.Active.ID, term.Format(m.Active.Rule.LHS, st.Sig), term.Format(m.Active.Rule.RHS, st.Sig))
	case NewEquationMsg:
		kbolog.NewEquation(term.Format(m.LHS, st.Sig), term.Format(m.RHS, st.Sig))
	case DeleteActiveMsg:
		kbolog.DeleteActive(m.Active.ID)
	case SimplifyQueueMsg:
		kbolog.SimplifyQueue(m.Dropped)
	case InterreduceMsg:
		kbolog.Interreduce(m.Deleted, m.Updated)
	case ProvedGoalMsg:
		kbolog.ProvedGoal(m.Goal.Name)
	case HaltMsg:
		// logged once, after the loop actually stops; see Run.
	}
}
