package subst

import (
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Offset returns a copy of t with every variable id shifted up by delta.
// Critical-pair construction uses this to make a variable-renamed copy of
// a rule before unifying it against another, the standard trick of
// partitioning variable ids into disjoint ranges rather than generating
// genuinely fresh names.
func Offset(sig *term.Signature, t term.Term, delta term.VarID) term.Term {
	b := term.NewBuilder(sig)
	offsetInto(b, sig, t, delta)
	return b.Term()
}

func offsetInto(b *term.Builder, sig *term.Signature, t term.Term, delta term.VarID) {
	if t.IsVar() {
		b.EmitVar(t.VarID() + delta)
		return
	}
	f := t.FuncID()
	b.EmitFunc(f, func(b *term.Builder) {
		for _, c := range t.Args(sig).Terms() {
			offsetInto(b, sig, c, delta)
		}
	})
}

// MaxVar returns the largest variable id occurring in t, plus one, or 0 if
// t is ground. Useful for picking a disjoint Offset delta.
func MaxVar(t term.Term) term.VarID {
	var max term.VarID
	for _, v := range term.Vars(t) {
		if v+1 > max {
			max = v + 1
		}
	}
	return max
}
