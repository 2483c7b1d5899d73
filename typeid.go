package gobwire

// TypeId is the signed integer naming a type within a stream. Positive
// ids identify well-known (built-in) types and are reserved; negative ids
// identify user-defined types registered during this stream. Id zero is
// never assigned.
type TypeId int64

// Well-known ids, fixed to match the reference encoding/gob
// implementation's wire artifacts bit for bit.
const (
	BoolId      TypeId = 1
	IntId       TypeId = 2
	UintId      TypeId = 3
	FloatId     TypeId = 4
	BytesId     TypeId = 5
	StringId    TypeId = 6
	ComplexId   TypeId = 7
	InterfaceId TypeId = 8

	// WireTypeId is the pseudo-type used to carry a TypeDefinition itself
	// as an ordinary struct value inside a definition message.
	WireTypeId     TypeId = 16
	ArrayTypeId    TypeId = 17
	CommonTypeId   TypeId = 18
	SliceTypeId    TypeId = 19
	StructTypeId   TypeId = 20
	FieldTypeId    TypeId = 21
	FieldTypeSlice TypeId = 22
	MapTypeId      TypeId = 23

	// firstUserId is the id assigned to the first user-defined type
	// registered in a stream; subsequent ids decrement monotonically.
	firstUserId TypeId = -65
)

// lastWellKnownId bounds the reserved range; any positive id beyond it
// that a reader has not seen defined is UnknownType.
const lastWellKnownId TypeId = MapTypeId

func isWellKnown(id TypeId) bool {
	return id >= BoolId && id <= lastWellKnownId
}
