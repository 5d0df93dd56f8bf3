package term

import "testing"

func TestSymbolRoundTrip(t *testing.T) {
	cases := []SymbolFields{
		{IsVar: false, ID: 0, Size: 1},
		{IsVar: true, ID: 0, Size: 1},
		{IsVar: true, ID: 42, Size: 1},
		{IsVar: false, ID: 7, Size: 99},
		{IsVar: false, ID: 0x7FFFFFFF, Size: 0xFFFFFFFF},
	}
	for _, f := range cases {
		n := ToSymbol(f)
		got := FromSymbol(n)
		if got != f {
			t.Errorf("FromSymbol(ToSymbol(%+v)) = %+v", f, got)
		}
	}
}

func TestSymbolRoundTripArbitraryWords(t *testing.T) {
	// Every 64-bit word round-trips through FromSymbol/ToSymbol because the
	// three fields cover all 64 bits with no stray space.
	words := []uint64{
		0,
		^uint64(0),
		0x8000000000000000,
		0x00000000FFFFFFFF,
		0x7FFFFFFF00000001,
		0x123456789ABCDEF0,
	}
	for _, n := range words {
		f := FromSymbol(n)
		if got := ToSymbol(f); got != n {
			t.Errorf("ToSymbol(FromSymbol(%#x)) = %#x, want %#x", n, got, n)
		}
	}
}

func TestMakeSymbolAccessors(t *testing.T) {
	v := MakeVarSymbol(7)
	if !v.IsVar() || v.VarID() != 7 {
		t.Errorf("MakeVarSymbol(7) = %v, want var 7", v)
	}
	f := MakeFuncSymbol(3, 5)
	if f.IsVar() || f.FuncID() != 3 || f.Size() != 5 {
		t.Errorf("MakeFuncSymbol(3,5) = %v, want func 3 size 5", f)
	}
	patched := f.withSize(9)
	if patched.Size() != 9 || patched.FuncID() != 3 {
		t.Errorf("withSize(9) = %v, want func 3 size 9", patched)
	}
}
