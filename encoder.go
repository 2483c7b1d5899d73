package gobwire

import "math"

// encodeCtx threads the pieces the value emitter needs beyond a bare
// TypeTable: the registration walker, so a newly-discovered interface
// concrete type can be registered mid-encode, and a flush callback that
// writes any resulting definition messages straight to the stream before
// the in-progress value message continues — definitions must always
// precede the value message that references them, even when discovered
// partway through encoding it.
type encodeCtx struct {
	table  *TypeTable
	walker *registrationWalker
	flush  func(pending []TypeId)
}

func lookupDef(table *TypeTable, id TypeId) TypeDefinition {
	def, ok := table.Lookup(id)
	if !ok {
		throw(UnknownType, "type %d not registered", id)
	}
	return def
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// encodeMessageBody writes the full body of one value message: the
// singleton marker for every non-struct root kind, then the value itself.
func encodeMessageBody(ctx *encodeCtx, id TypeId, e Emitter, buf *buffer) {
	def := lookupDef(ctx.table, id)
	if def.Kind != KindStruct {
		buf.appendUvarint(0)
	}
	encodeBody(ctx, def, e, buf)
}

func encodeBody(ctx *encodeCtx, def TypeDefinition, e Emitter, buf *buffer) {
	switch def.Kind {
	case KindBool:
		buf.appendByte(boolByte(e.Bool()))
	case KindInt:
		buf.appendVarintZigzag(e.Int())
	case KindUint:
		buf.appendUvarint(e.Uint())
	case KindFloat:
		buf.appendFloat(math.Float64bits(e.Float()))
	case KindString:
		buf.appendString(e.String())
	case KindBytes:
		buf.appendBytes(e.Bytes())
	case KindComplex:
		throw(UnsupportedKind, "complex values are not supported")
	case KindInterface:
		encodeInterface(ctx, e, buf)
	case KindArray, KindSlice:
		encodeSeq(ctx, def, e, buf)
	case KindMap:
		encodeMap(ctx, def, e, buf)
	case KindStruct:
		encodeStruct(ctx, def, e, buf)
	case KindGobEncoder:
		buf.appendBytes(e.Bytes())
	default:
		throw(CorruptStream, "invalid type kind for encode")
	}
}

// encodeStruct walks fields in wire order, writing (delta, body) pairs for
// every field whose value isn't the kind's zero default and terminating
// with delta=0. lastIndex starts at -1 so the first emitted field's delta
// is 1-based from there.
func encodeStruct(ctx *encodeCtx, def TypeDefinition, e Emitter, buf *buffer) {
	fields := e.Struct().Fields()
	last := -1
	for i, fe := range fields {
		if fe.Value.IsZero() {
			continue
		}
		buf.appendUvarint(uint64(i - last))
		encodeBody(ctx, lookupDef(ctx.table, def.Fields[i].Id), fe.Value, buf)
		last = i
	}
	buf.appendUvarint(0)
}

func encodeSeq(ctx *encodeCtx, def TypeDefinition, e Emitter, buf *buffer) {
	se := e.Seq()
	n := se.Len()
	buf.appendUvarint(uint64(n))
	elemDef := lookupDef(ctx.table, def.Elem)
	for i := 0; i < n; i++ {
		encodeBody(ctx, elemDef, se.Elem(i), buf)
	}
}

func encodeMap(ctx *encodeCtx, def TypeDefinition, e Emitter, buf *buffer) {
	entries := e.Map().Entries()
	buf.appendUvarint(uint64(len(entries)))
	keyDef := lookupDef(ctx.table, def.Key)
	valDef := lookupDef(ctx.table, def.Elem)
	for _, entry := range entries {
		encodeBody(ctx, keyDef, entry.Key, buf)
		encodeBody(ctx, valDef, entry.Value, buf)
	}
}

// encodeInterface writes the concrete-type-name, the concrete TypeId, and
// a nested self-describing sub-message for the dynamic value. A nil
// interface is written as a zero-length type name and nothing else. The
// nested message's singleton marker is written unconditionally,
// regardless of the concrete type's kind.
func encodeInterface(ctx *encodeCtx, e Emitter, buf *buffer) {
	name, id, concrete := e.Interface()
	if concrete == nil {
		buf.appendString("")
		return
	}

	buf.appendString(name)

	if pending := ctx.walker.drainPending(); len(pending) > 0 && ctx.flush != nil {
		ctx.flush(pending)
	}

	buf.appendVarintZigzag(int64(id))

	inner := getBuffer()
	defer putBuffer(inner)
	inner.appendUvarint(0)
	encodeBody(ctx, lookupDef(ctx.table, id), concrete, inner)

	buf.appendUvarint(uint64(inner.len()))
	buf.appendBytesRaw(inner.bytes)
}
