package term

// ReplaceAt returns a copy of t with the subterm at absolute position pos
// replaced by repl, used to build the rewritten side of a critical-pair
// overlap: lhs(r1) with the overlap position spliced out for rhs(r2).
func ReplaceAt(sig *Signature, t Term, pos int, repl Term) Term {
	if pos == 0 {
		return repl.Clone()
	}
	b := NewBuilder(sig)
	replaceInto(b, sig, t, 0, pos, repl)
	return b.Term()
}

func replaceInto(b *Builder, sig *Signature, t Term, base, pos int, repl Term) {
	if base == pos {
		b.EmitSlice(repl)
		return
	}
	b.EmitFunc(t.FuncID(), func(b *Builder) {
		childBase := base + 1
		for _, c := range t.Args(sig).Terms() {
			if pos >= childBase && pos < childBase+c.Size() {
				replaceInto(b, sig, c, childBase, pos, repl)
			} else {
				b.EmitSlice(c)
			}
			childBase += c.Size()
		}
	})
}
