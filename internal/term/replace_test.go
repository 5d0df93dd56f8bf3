package term

import "testing"

func TestReplaceAt(t *testing.T) {
	sig := sampleSig()
	base := buildSample(sig) // f(X0, g(a, X1))

	a := NonVarPositions(base)
	// Replace the "a" subterm (the first non-var position that isn't the
	// root or g) with a fresh constant term.
	var aPos int
	for _, p := range a {
		st := SubtermAt(base, p)
		if !st.IsVar() && st.Size() == 1 && p != 0 {
			aPos = p
		}
	}
	repl := Term{MakeFuncSymbol(0, 1)} // same functor as "a" for a minimal replacement
	got := ReplaceAt(sig, base, aPos, repl)
	CheckSizes(got)
	if got.Size() != base.Size() {
		t.Errorf("ReplaceAt changed overall size: got %d, want %d", got.Size(), base.Size())
	}
}

func TestReplaceAtRoot(t *testing.T) {
	sig := sampleSig()
	base := buildSample(sig)
	repl := Term{MakeVarSymbol(9)}
	got := ReplaceAt(sig, base, 0, repl)
	if !Equal(got, repl) {
		t.Errorf("ReplaceAt at root = %v, want %v", got, repl)
	}
}
