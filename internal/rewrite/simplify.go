package rewrite

import (
	"github.com/arborist-dev/kbcomplete/internal/term"
	"github.com/arborist-dev/kbcomplete/internal/termindex"
)

// Simplify normalises t using only oriented (never WeaklyOriented-turned-
// ineligible) rewrites, taking the leftmost applicable redex at each
// step until none remain. It is the hot path: pure normalisation with no
// proof object kept around.
func Simplify(sig *term.Signature, oriented *termindex.Index, t term.Term) term.Term {
	strat := Anywhere(Rewrite(oriented, nil))
	cur := t
	for {
		reds := strat(sig, cur)
		if len(reds) == 0 {
			return cur
		}
		cur = reds[0].Result()
	}
}
