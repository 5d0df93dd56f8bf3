package term

// Builder assembles flatterms into a contiguous buffer, append-only,
// patching each function header's size once its children are known.
type Builder struct {
	sig *Signature
	buf []Symbol
}

// NewBuilder returns a builder for terms over sig.
func NewBuilder(sig *Signature) *Builder {
	return &Builder{sig: sig}
}

// EmitVar appends a variable occurrence.
func (b *Builder) EmitVar(v VarID) {
	b.buf = append(b.buf, MakeVarSymbol(v))
}

// EmitFunc appends a function occurrence headed by f, running body to emit
// its children, then patches the header's size field to match the extent
// actually emitted. body must emit exactly sig.Def(f).Arity children.
func (b *Builder) EmitFunc(f FuncID, body func(*Builder)) {
	pos := len(b.buf)
	b.buf = append(b.buf, MakeFuncSymbol(f, 0))
	if body != nil {
		body(b)
	}
	size := uint32(len(b.buf) - pos)
	b.buf[pos] = b.buf[pos].withSize(size)
}

// EmitConst is shorthand for EmitFunc(f, nil), for arity-0 symbols.
func (b *Builder) EmitConst(f FuncID) {
	b.EmitFunc(f, nil)
}

// EmitSlice splices an already-built term or termlist verbatim.
func (b *Builder) EmitSlice(t Term) {
	b.buf = append(b.buf, t...)
}

// EmitTermList splices an already-built termlist verbatim.
func (b *Builder) EmitTermList(l TermList) {
	b.buf = append(b.buf, l...)
}

// Term finalizes the buffer as a single term. It panics if the buffer
// does not encode exactly one top-level term.
func (b *Builder) Term() Term {
	t := Term(b.buf)
	if t.Size() != len(b.buf) {
		panic("term.Builder.Term: buffer does not encode exactly one term")
	}
	return t
}

// TermList finalizes the buffer as a termlist of however many sibling
// terms were emitted at the top level.
func (b *Builder) TermList() TermList {
	return TermList(b.buf)
}

// CheckSizes re-walks t and panics if any function header's size field
// does not match its actual extent. It is a debug invariant check, not
// called on any hot path.
func CheckSizes(t Term) {
	checkSizesFrom(t, 0)
}

func checkSizesFrom(t Term, pos int) int {
	s := t[pos]
	if s.IsVar() {
		return pos + 1
	}
	end := pos + 1
	for end-pos < int(s.Size()) {
		child := end
		next := checkSizesFrom(t, child)
		if next <= child {
			panic("term.CheckSizes: non-advancing child")
		}
		end = next
	}
	if end != pos+int(s.Size()) {
		panic("term.CheckSizes: size field does not match extent")
	}
	return end
}
