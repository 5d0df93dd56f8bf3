package term

import (
	"fmt"

	"github.com/arborist-dev/kbcomplete/label"
)

// FuncDef carries everything the ordering and rewriter need to know about
// a function symbol: its arity, its KBO weight, its rank in the total
// precedence, and two distinguishing flags.
type FuncDef struct {
	Name       string
	Arity      int
	Weight     uint32
	Precedence int
	// Minimal marks the distinguished least constant (arity 0).
	Minimal bool
	// SkolemOf marks a constant introduced to witness an existential;
	// it participates in ordering and rewriting like any other constant.
	SkolemOf bool
	// Label is the symbol's process-wide id from label.Global, shared by
	// every Signature that declares a symbol with this name. Diagnostics
	// that cross Signature boundaries (logs, proof lemma dumps spanning
	// more than one run) can key on Label instead of a Signature-local
	// FuncID, which is only stable within the Signature that assigned it.
	Label int
}

func (d FuncDef) String() string {
	return fmt.Sprintf("%s/%d", d.Name, d.Arity)
}

// Signature is the process-local table of declared function symbols: a
// FuncID only makes sense relative to the Signature that assigned it.
// Declare additionally interns each name in label.Global, giving symbols
// with the same name a process-wide identity across every Signature.
type Signature struct {
	defs   []FuncDef
	byName map[string]FuncID
}

// NewSignature returns an empty signature.
func NewSignature() *Signature {
	return &Signature{byName: make(map[string]FuncID)}
}

// Declare registers a new function symbol and returns its id.
//
// It panics if the name was already declared; callers that may redeclare
// should check Lookup first.
func (s *Signature) Declare(name string, arity int, weight uint32) FuncID {
	if _, ok := s.byName[name]; ok {
		panic(fmt.Sprintf("term.Signature.Declare: %q already declared", name))
	}
	id := FuncID(len(s.defs))
	s.defs = append(s.defs, FuncDef{
		Name: name, Arity: arity, Weight: weight, Precedence: int(id),
		Label: label.Global().Label(name),
	})
	s.byName[name] = id
	return id
}

// Lookup returns the id of a previously declared name.
func (s *Signature) Lookup(name string) (FuncID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// Def returns the declaration for f.
func (s *Signature) Def(f FuncID) FuncDef {
	return s.defs[f]
}

// SetMinimal marks f as the distinguished minimal constant. It panics if f
// has nonzero arity.
func (s *Signature) SetMinimal(f FuncID) {
	if s.defs[f].Arity != 0 {
		panic(fmt.Sprintf("term.Signature.SetMinimal: %v has nonzero arity", s.defs[f]))
	}
	s.defs[f].Minimal = true
}

// SetSkolem marks f as a skolem constant.
func (s *Signature) SetSkolem(f FuncID) {
	s.defs[f].SkolemOf = true
}

// SetPrecedence overrides f's rank in the total precedence. Implementers
// must ensure the resulting ranks remain a total order (no duplicates);
// this is not checked here.
func (s *Signature) SetPrecedence(f FuncID, rank int) {
	s.defs[f].Precedence = rank
}

// Minimal returns the id of the minimal constant, if one was declared.
func (s *Signature) Minimal() (FuncID, bool) {
	for id, d := range s.defs {
		if d.Minimal {
			return FuncID(id), true
		}
	}
	return 0, false
}

// Len returns the number of declared function symbols.
func (s *Signature) Len() int { return len(s.defs) }
