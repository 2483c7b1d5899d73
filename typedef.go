package gobwire

// Kind discriminates the shape a TypeDefinition (or a well-known TypeId)
// describes.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindComplex
	KindInterface
	KindArray
	KindSlice
	KindStruct
	KindMap
	KindGobEncoder
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindComplex:
		return "complex"
	case KindInterface:
		return "interface"
	case KindArray:
		return "array"
	case KindSlice:
		return "slice"
	case KindStruct:
		return "struct"
	case KindMap:
		return "map"
	case KindGobEncoder:
		return "gobencoder"
	default:
		return "invalid"
	}
}

// FieldDef names one struct field and the TypeId of its value. Field
// order is part of identity: it determines delta-encoding positions and
// participates in the struct's fingerprint.
type FieldDef struct {
	Name string
	Id   TypeId
}

// TypeDefinition is a tagged value, exactly one of Array, Slice, Struct,
// Map, or GobEncoder (the sentinel marking a type whose wire bytes come
// from a user-supplied encoder). Once installed into a TypeTable under an
// id, a definition is immutable for the life of the stream.
type TypeDefinition struct {
	Kind Kind

	// Array, Slice, Map
	Elem TypeId // element type (Array, Slice); value type (Map)
	Key  TypeId // key type (Map only)
	Len  int    // fixed length (Array only)

	// Struct
	Fields []FieldDef
}

func wellKnownKind(id TypeId) Kind {
	switch id {
	case BoolId:
		return KindBool
	case IntId:
		return KindInt
	case UintId:
		return KindUint
	case FloatId:
		return KindFloat
	case StringId:
		return KindString
	case BytesId:
		return KindBytes
	case ComplexId:
		return KindComplex
	case InterfaceId:
		return KindInterface
	default:
		return KindInvalid
	}
}
