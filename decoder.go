package gobwire

import "math"

// decodeCtx threads the TypeTable through the value consumer. Unlike
// encoding, decoding never registers new types itself — every TypeId it
// encounters must already have been installed by a preceding definition
// message.
type decodeCtx struct {
	table  *TypeTable
	limits DecodeLimits
}

// deliver converts a Visitor-returned error into a panic so it unwinds to
// the nearest recoverErr boundary, preserving *Error kind when the
// visitor already returned one.
func deliver(err error) {
	if err == nil {
		return
	}
	if e, ok := err.(*Error); ok {
		panic(e)
	}
	throw(SchemaMismatch, "visitor rejected value: %v", err)
}

// decodeMessageBody reads the full body of one value message: the
// singleton marker for every non-struct root kind, then the value itself.
func decodeMessageBody(ctx *decodeCtx, id TypeId, c *cursor, v Visitor) {
	def := lookupDef(ctx.table, id)
	if def.Kind != KindStruct {
		if marker := readUvarint(c); marker != 0 {
			throw(CorruptStream, "expected singleton marker, got %d", marker)
		}
	}
	decodeBody(ctx, def, c, v)
}

func decodeBody(ctx *decodeCtx, def TypeDefinition, c *cursor, v Visitor) {
	switch def.Kind {
	case KindBool:
		deliver(v.VisitBool(c.readByte() != 0))
	case KindInt:
		deliver(v.VisitInt(readVarintZigzag(c)))
	case KindUint:
		deliver(v.VisitUint(readUvarint(c)))
	case KindFloat:
		deliver(v.VisitFloat(math.Float64frombits(readFloatBits(c))))
	case KindString:
		s := c.readString()
		checkLimit(uint64(len(s)), ctx.limits.MaxStringLen, "string")
		deliver(v.VisitString(s))
	case KindBytes:
		b := c.readBytes()
		checkLimit(uint64(len(b)), ctx.limits.MaxStringLen, "byte slice")
		deliver(v.VisitBytes(b))
	case KindComplex:
		throw(UnsupportedKind, "complex values are not supported")
	case KindInterface:
		decodeInterface(ctx, c, v)
	case KindArray, KindSlice:
		decodeSeq(ctx, def, c, v)
	case KindMap:
		decodeMapKind(ctx, def, c, v)
	case KindStruct:
		decodeStruct(ctx, def, c, v)
	case KindGobEncoder:
		deliver(v.VisitBytes(c.readBytes()))
	default:
		throw(CorruptStream, "invalid type kind for decode")
	}
}

// structAccessor drives a struct's delta-decoded fields. lastIndex starts
// at -1, matching the encoder; a delta of 0 terminates, and a delta
// placing the new index at or past the field count is CorruptStream.
type structAccessor struct {
	ctx  *decodeCtx
	def  TypeDefinition
	c    *cursor
	last int
	cur  *FieldDef
	done bool
}

func decodeStruct(ctx *decodeCtx, def TypeDefinition, c *cursor, v Visitor) {
	a := &structAccessor{ctx: ctx, def: def, c: c, last: -1}
	deliver(v.VisitStruct(a))

	// The visitor may stop consuming fields before reaching the delta=0
	// terminator (e.g. no more host fields match); drain whatever is left
	// so sibling data in the enclosing message stays aligned.
	if a.cur != nil {
		_ = a.Skip()
	}
	for !a.done {
		if _, _, ok := a.Next(); !ok {
			break
		}
		_ = a.Skip()
	}
}

func (a *structAccessor) Next() (string, TypeId, bool) {
	delta := readUvarint(a.c)
	if delta == 0 {
		a.cur = nil
		a.done = true
		return "", 0, false
	}
	idx := a.last + int(delta)
	if idx < 0 || idx >= len(a.def.Fields) {
		throw(CorruptStream, "field delta places index %d outside struct of %d fields", idx, len(a.def.Fields))
	}
	a.last = idx
	f := a.def.Fields[idx]
	a.cur = &f
	return f.Name, f.Id, true
}

func (a *structAccessor) Decode(v Visitor) error {
	if a.cur == nil {
		throw(CorruptStream, "Decode called without a pending field")
	}
	decodeBody(a.ctx, lookupDef(a.ctx.table, a.cur.Id), a.c, v)
	a.cur = nil
	return nil
}

func (a *structAccessor) Skip() error {
	if a.cur == nil {
		throw(CorruptStream, "Skip called without a pending field")
	}
	decodeBody(a.ctx, lookupDef(a.ctx.table, a.cur.Id), a.c, nullVisitorInstance)
	a.cur = nil
	return nil
}

// seqAccessor drives an array or slice's elements.
type seqAccessor struct {
	ctx     *decodeCtx
	elemDef TypeDefinition
	c       *cursor
	n, i    int
}

func decodeSeq(ctx *decodeCtx, def TypeDefinition, c *cursor, v Visitor) {
	n := readUvarint(c)
	checkLimit(n, ctx.limits.MaxSeqLen, "sequence")
	elemDef := lookupDef(ctx.table, def.Elem)
	a := &seqAccessor{ctx: ctx, elemDef: elemDef, c: c, n: int(n)}
	deliver(v.VisitSeq(a))
	for a.i < a.n {
		decodeBody(ctx, elemDef, c, nullVisitorInstance)
		a.i++
	}
}

func (a *seqAccessor) Len() int { return a.n }

func (a *seqAccessor) Next(v Visitor) (bool, error) {
	if a.i >= a.n {
		return false, nil
	}
	decodeBody(a.ctx, a.elemDef, a.c, v)
	a.i++
	return true, nil
}

// mapAccessor drives a map's key/value pairs, alternating NextKey/NextValue.
type mapAccessor struct {
	ctx            *decodeCtx
	keyDef, valDef TypeDefinition
	c              *cursor
	n, i           int
	needValue      bool
}

func decodeMapKind(ctx *decodeCtx, def TypeDefinition, c *cursor, v Visitor) {
	n := readUvarint(c)
	checkLimit(n, ctx.limits.MaxSeqLen, "map")

	if def.Key == InterfaceId && def.Elem == InterfaceId {
		decodeInterfaceMap(ctx, c, int(n), v)
		return
	}

	keyDef := lookupDef(ctx.table, def.Key)
	valDef := lookupDef(ctx.table, def.Elem)
	a := &mapAccessor{ctx: ctx, keyDef: keyDef, valDef: valDef, c: c, n: int(n)}
	deliver(v.VisitMap(a))
	for a.i < a.n {
		if !a.needValue {
			decodeBody(ctx, keyDef, c, nullVisitorInstance)
		}
		decodeBody(ctx, valDef, c, nullVisitorInstance)
		a.needValue = false
		a.i++
	}
}

func (a *mapAccessor) Len() int { return a.n }

func (a *mapAccessor) NextKey(v Visitor) (bool, error) {
	if a.i >= a.n {
		return false, nil
	}
	decodeBody(a.ctx, a.keyDef, a.c, v)
	a.needValue = true
	return true, nil
}

func (a *mapAccessor) NextValue(v Visitor) error {
	if !a.needValue {
		throw(CorruptStream, "NextValue called without a matching NextKey")
	}
	decodeBody(a.ctx, a.valDef, a.c, v)
	a.needValue = false
	a.i++
	return nil
}

// interfaceValue is the decode capability handed to Visitor.VisitInterface
// for a non-nil interface value.
type interfaceValue struct {
	ctx  *decodeCtx
	def  TypeDefinition
	body cursor
}

func (iv *interfaceValue) Decode(v Visitor) error {
	if marker := readUvarint(&iv.body); marker != 0 {
		throw(CorruptStream, "interface value missing singleton marker")
	}
	decodeBody(iv.ctx, iv.def, &iv.body, v)
	return nil
}

func decodeInterface(ctx *decodeCtx, c *cursor, v Visitor) {
	name := c.readString()
	if name == "" {
		deliver(v.VisitInterface("", 0, nil))
		return
	}

	id := TypeId(readVarintZigzag(c))
	n := readUvarint(c)
	body := c.read(n)
	def := lookupDef(ctx.table, id)

	deliver(v.VisitInterface(name, id, &interfaceValue{ctx: ctx, def: def, body: newCursor(body)}))
}
