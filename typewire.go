package gobwire

// Definition messages carry a TypeDefinition as a wire-type envelope
// value: a small tagged union, one arm per composite Kind a user type can
// register as (Array, Slice, Struct, Map, GobEncoder — the well-known
// scalar kinds never need a definition message, since every stream
// already knows them).
const (
	envelopeArray      = 1
	envelopeSlice      = 2
	envelopeStruct     = 3
	envelopeMap        = 4
	envelopeGobEncoder = 5
)

// encodeTypeDefinitionBody writes the wire-type envelope value following
// the message's leading TypeIdTag, which the caller has already written:
// a definition message's payload is the signed-varint id followed by the
// wire-type-envelope value body.
func encodeTypeDefinitionBody(id TypeId, def TypeDefinition, buf *buffer) {
	switch def.Kind {
	case KindArray:
		buf.appendUvarint(envelopeArray)
		buf.appendUvarint(uint64(def.Len))
		buf.appendVarintZigzag(int64(def.Elem))
	case KindSlice:
		buf.appendUvarint(envelopeSlice)
		buf.appendVarintZigzag(int64(def.Elem))
	case KindMap:
		buf.appendUvarint(envelopeMap)
		buf.appendVarintZigzag(int64(def.Key))
		buf.appendVarintZigzag(int64(def.Elem))
	case KindStruct:
		buf.appendUvarint(envelopeStruct)
		buf.appendUvarint(uint64(len(def.Fields)))
		for _, f := range def.Fields {
			buf.appendString(f.Name)
			buf.appendVarintZigzag(int64(f.Id))
		}
	case KindGobEncoder:
		buf.appendUvarint(envelopeGobEncoder)
	default:
		throw(CorruptStream, "type %d has no wire-type envelope (kind %v)", id, def.Kind)
	}
}

// decodeTypeDefinitionBody reads the wire-type envelope value following a
// definition message's already-consumed TypeIdTag. The caller installs
// the result into the TypeTable under that id so a negative id always
// resolves before any value message that references it.
func decodeTypeDefinitionBody(c *cursor) TypeDefinition {
	switch tag := readUvarint(c); tag {
	case envelopeArray:
		n := readUvarint(c)
		elem := TypeId(readVarintZigzag(c))
		return TypeDefinition{Kind: KindArray, Len: int(n), Elem: elem}
	case envelopeSlice:
		elem := TypeId(readVarintZigzag(c))
		return TypeDefinition{Kind: KindSlice, Elem: elem}
	case envelopeMap:
		key := TypeId(readVarintZigzag(c))
		elem := TypeId(readVarintZigzag(c))
		return TypeDefinition{Kind: KindMap, Key: key, Elem: elem}
	case envelopeStruct:
		n := readUvarint(c)
		fields := make([]FieldDef, n)
		for i := range fields {
			name := c.readString()
			fid := TypeId(readVarintZigzag(c))
			fields[i] = FieldDef{Name: name, Id: fid}
		}
		return TypeDefinition{Kind: KindStruct, Fields: fields}
	case envelopeGobEncoder:
		return TypeDefinition{Kind: KindGobEncoder}
	default:
		throw(CorruptStream, "unknown wire-type envelope tag %d", tag)
		panic("unreachable")
	}
}
