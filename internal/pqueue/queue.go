// Package pqueue implements the passive-critical-pair priority queue: a
// min-heap ordered by score, with stale-entry detection so a retired
// rule's unconsidered overlaps can be dropped or re-derived rather than
// acted on.
package pqueue

import (
	"container/heap"

	"github.com/arborist-dev/kbcomplete/internal/cp"
	"github.com/arborist-dev/kbcomplete/internal/rule"
	"github.com/arborist-dev/kbcomplete/internal/subst"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Passive is a queued overlap, identified by its two parent rule ids and
// the position within the first one's left-hand side — enough to
// re-derive the actual critical pair on demand rather than keeping a
// potentially stale copy of it around.
type Passive struct {
	id       int
	Score    int
	OwnerID  int
	Rule1ID  int
	Rule2ID  int
	Position int
	retired  bool
}

type passiveHeap []*Passive

func (h passiveHeap) Len() int { return len(h) }
func (h passiveHeap) Less(i, j int) bool {
	if h[i].Score == h[j].Score {
		return h[i].id < h[j].id
	}
	return h[i].Score < h[j].Score
}
func (h passiveHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *passiveHeap) Push(x any)   { *h = append(*h, x.(*Passive)) }
func (h *passiveHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue is the passive set: a min-heap plus the considered-CP counter
// the saturation loop's halting condition reads.
type Queue struct {
	heap       passiveHeap
	nextID     int
	Considered int
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Len reports how many passives (including any not-yet-pruned orphans)
// are currently queued.
func (q *Queue) Len() int { return len(q.heap) }

// Insert attaches every passive in ps to ownerID (the rule that produced
// them) and pushes them onto the heap.
func (q *Queue) Insert(ownerID int, ps []*Passive) {
	for _, p := range ps {
		q.nextID++
		p.id = q.nextID
		p.OwnerID = ownerID
		heap.Push(&q.heap, p)
	}
}

// RemoveMin pops the lowest-score passive, with no orphan filtering.
func (q *Queue) RemoveMin() (*Passive, bool) {
	if q.heap.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.heap).(*Passive), true
}

// Retire marks every passive owned by ruleID, or naming it as Rule1ID or
// Rule2ID, as an orphan, to be dropped
// the next time it is popped or the queue is simplified.
func (q *Queue) Retire(ruleID int) {
	for _, p := range q.heap {
		if p.OwnerID == ruleID || p.Rule1ID == ruleID || p.Rule2ID == ruleID {
			p.retired = true
		}
	}
}

// MapMaybe applies f to every live passive, dropping it if f returns nil,
// and rebuilds the heap from what remains.
func (q *Queue) MapMaybe(f func(*Passive) *Passive) {
	var kept passiveHeap
	for _, p := range q.heap {
		if p.retired {
			continue
		}
		np := f(p)
		if np == nil {
			continue
		}
		kept = append(kept, np)
	}
	q.heap = kept
	heap.Init(&q.heap)
}

// MakePassives computes overlap scores for every critical pair between
// rule and the current active set, producing one Passive per overlap.
// The overlap's own term data is intentionally discarded: only the two
// rule ids and position are kept, so simplify_passive-style re-derivation
// always reflects the rules currently active.
func MakePassives(sig *term.Signature, maxDepth int, sizeWeight, depthWeight int, overlaps []cp.CriticalPair) []*Passive {
	out := make([]*Passive, 0, len(overlaps))
	for i := range overlaps {
		c := &overlaps[i]
		out = append(out, &Passive{
			Score:    cp.Score(c, sizeWeight, depthWeight),
			Rule1ID:  c.Rule1,
			Rule2ID:  c.Rule2,
			Position: c.Position,
		})
	}
	return out
}

// RecomputeOverlap re-derives the critical pair a passive refers to from
// the current rule set. It fails if either parent rule has been retired,
// the recorded position no longer exists, or the two sides no longer
// unify there.
func RecomputeOverlap(sig *term.Signature, rules map[int]cp.RuleRef, p *Passive) (*cp.CriticalPair, bool) {
	r1, ok1 := rules[p.Rule1ID]
	r2, ok2 := rules[p.Rule2ID]
	if !ok1 || !ok2 {
		return nil, false
	}
	if p.Position < 0 || p.Position >= r1.Rule.LHS.Size() {
		return nil, false
	}
	subterm := term.SubtermAt(r1.Rule.LHS, p.Position)
	if subterm.IsVar() {
		return nil, false
	}
	delta := subst.MaxVar(r1.Rule.LHS) + 1
	if rd := subst.MaxVar(r1.Rule.RHS) + 1; rd > delta {
		delta = rd
	}
	renamedLHS := subst.Offset(sig, r2.Rule.LHS, delta)
	renamedRHS := subst.Offset(sig, r2.Rule.RHS, delta)
	sigma, ok := subst.Unify(sig, subterm, renamedLHS)
	if !ok {
		return nil, false
	}
	renamed := cp.RuleRef{
		ID:    r2.ID,
		Rule:  &rule.Rule{LHS: renamedLHS, RHS: renamedRHS, Orientation: r2.Rule.Orientation},
		Depth: r2.Depth,
	}
	cpair, ok := cp.BuildOverlap(sig, 0, r1, p.Position, renamed, sigma)
	if !ok {
		return nil, false
	}
	return &cpair, true
}

// SimplifyPassive re-derives p's overlap and recomputes its score,
// returning nil if the overlap no longer exists (a stale orphan).
func SimplifyPassive(sig *term.Signature, rules map[int]cp.RuleRef, sizeWeight, depthWeight int, p *Passive) *Passive {
	cpair, ok := RecomputeOverlap(sig, rules, p)
	if !ok {
		return nil
	}
	return &Passive{
		id: p.id, OwnerID: p.OwnerID,
		Score: cp.Score(cpair, sizeWeight, depthWeight),
		Rule1ID: p.Rule1ID, Rule2ID: p.Rule2ID, Position: p.Position,
	}
}

// SimplifyQueue maps SimplifyPassive across every live entry, silently
// dropping stale orphans.
func SimplifyQueue(sig *term.Signature, rules map[int]cp.RuleRef, sizeWeight, depthWeight int, q *Queue) {
	q.MapMaybe(func(p *Passive) *Passive {
		return SimplifyPassive(sig, rules, sizeWeight, depthWeight, p)
	})
}

// Dequeue pops passives until it finds one whose overlap still exists
// and whose critical-pair terms do not exceed maxTermSize, counting
// every skipped orphan or oversized entry against Considered. It
// returns the live critical pair and its two parent rule ids, or false
// if the queue ran dry first.
func Dequeue(sig *term.Signature, rules map[int]cp.RuleRef, maxTermSize int, q *Queue) (*cp.CriticalPair, int, int, bool) {
	for {
		p, ok := q.RemoveMin()
		if !ok {
			return nil, 0, 0, false
		}
		q.Considered++
		if p.retired {
			continue
		}
		cpair, ok := RecomputeOverlap(sig, rules, p)
		if !ok {
			continue
		}
		if maxTermSize > 0 && (cpair.LHS.Size() > maxTermSize || cpair.RHS.Size() > maxTermSize) {
			continue
		}
		return cpair, p.Rule1ID, p.Rule2ID, true
	}
}
