// Package term implements the flatterm layout: terms and termlists are
// contiguous slices of packed symbols in pre-order, following the
// append-only buffer style of the teacher's wam package (see
// wam.Machine's register file) rather than a pointer tree.
package term

import "fmt"

// Symbol is a single packed word of a flatterm. The top bit marks whether
// the word denotes a variable or a function occurrence; the remaining
// bits hold either a variable id, or a function id paired with the
// subterm's size (the number of symbols in its extent, itself included).
//
// Layout (MSB to LSB):
//
//	bit 63      isVar
//	bits 32-62  id   (31 bits: variable id, or function id)
//	bits 0-31   size (32 bits: subterm size; 1 for variables)
type Symbol uint64

const (
	varBit   = uint64(1) << 63
	idMask   = uint64(0x7FFFFFFF) // 31 bits
	sizeMask = uint64(0xFFFFFFFF)
)

// FuncID identifies a declared function symbol within a Signature.
type FuncID uint32

// VarID is a non-negative variable index.
type VarID uint32

// MakeVarSymbol packs a variable occurrence.
func MakeVarSymbol(v VarID) Symbol {
	return Symbol(varBit | (uint64(v)&idMask)<<32 | 1)
}

// MakeFuncSymbol packs a function occurrence header with an explicit size.
// size must be patched in later by the Builder once the subterm's extent
// is known; callers outside this package should not need this directly.
func MakeFuncSymbol(f FuncID, size uint32) Symbol {
	return Symbol((uint64(f)&idMask)<<32 | uint64(size)&sizeMask)
}

// IsVar reports whether the symbol denotes a variable occurrence.
func (s Symbol) IsVar() bool { return uint64(s)&varBit != 0 }

// VarID returns the variable id. Only meaningful if IsVar() is true.
func (s Symbol) VarID() VarID { return VarID((uint64(s) >> 32) & idMask) }

// FuncID returns the function id. Only meaningful if IsVar() is false.
func (s Symbol) FuncID() FuncID { return FuncID((uint64(s) >> 32) & idMask) }

// Size returns the subterm size: the number of symbols in the subterm
// rooted at this occurrence, itself included.
func (s Symbol) Size() uint32 { return uint32(uint64(s) & sizeMask) }

// withSize returns a copy of s with the size field patched. Used by the
// Builder to fix up function headers once their children are emitted.
func (s Symbol) withSize(size uint32) Symbol {
	return Symbol((uint64(s) &^ sizeMask) | (uint64(size) & sizeMask))
}

// SymbolFields is the decomposed, unpacked view of a Symbol.
type SymbolFields struct {
	IsVar bool
	ID    uint32
	Size  uint32
}

// FromSymbol unpacks every bit of a raw 64-bit word into its fields,
// including words that were never produced by MakeVarSymbol/MakeFuncSymbol.
// Because the three fields (1 + 31 + 32 bits) cover all 64 bits exactly,
// this is total and loses no information relative to the layout.
func FromSymbol(n uint64) SymbolFields {
	return SymbolFields{
		IsVar: n&varBit != 0,
		ID:    uint32((n >> 32) & idMask),
		Size:  uint32(n & sizeMask),
	}
}

// ToSymbol packs fields back into a raw 64-bit word, masking each field to
// its bit width the same way MakeVarSymbol/MakeFuncSymbol do.
func ToSymbol(f SymbolFields) uint64 {
	var w uint64
	if f.IsVar {
		w |= varBit
	}
	w |= (uint64(f.ID) & idMask) << 32
	w |= uint64(f.Size) & sizeMask
	return w
}

func (s Symbol) String() string {
	if s.IsVar() {
		return fmt.Sprintf("Var(%d)", s.VarID())
	}
	return fmt.Sprintf("Func(%d,size=%d)", s.FuncID(), s.Size())
}
