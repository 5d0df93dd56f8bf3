package subst

import (
	"github.com/arborist-dev/kbcomplete/internal/term"
)

// Match finds the unique substitution sigma such that sigma(pattern) = t,
// or fails. It fails total-ly (no panics) on function-symbol mismatch or
// on a variable in pattern that would need two different bindings.
func Match(sig *term.Signature, pattern, t term.Term) (*Subst, bool) {
	s := New()
	if !matchInto(sig, s, pattern, t) {
		return nil, false
	}
	return s, true
}

func matchInto(sig *term.Signature, s *Subst, pattern, t term.Term) bool {
	if pattern.IsVar() {
		return s.Bind(pattern.VarID(), t)
	}
	if t.IsVar() {
		// A pattern function symbol can never match a bare variable term.
		return false
	}
	if pattern.FuncID() != t.FuncID() {
		return false
	}
	pc := pattern.Args(sig).Terms()
	tc := t.Args(sig).Terms()
	if len(pc) != len(tc) {
		return false
	}
	for i := range pc {
		if !matchInto(sig, s, pc[i], tc[i]) {
			return false
		}
	}
	return true
}
