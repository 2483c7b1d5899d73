package gobwire

// Visitor is the decode-side collaborator: the capability set the
// decoder demands of whatever is consuming a decoded value. The decoder
// drives calls against it in wire order; the composite accessors
// (SeqAccessor, MapAccessor, StructAccessor) let the visitor pull exactly
// as many child elements as the wire declares, each into a nested
// Visitor of the caller's choosing.
//
// reflectVisitor (reflectvisitor.go) is the default implementation,
// built per value and driven by the decoder to fill an ordinary Go
// value.
type Visitor interface {
	VisitBool(b bool) error
	VisitInt(i int64) error
	VisitUint(u uint64) error
	VisitFloat(f float64) error
	VisitString(s string) error
	VisitBytes(b []byte) error
	VisitSeq(a SeqAccessor) error
	VisitMap(a MapAccessor) error
	VisitStruct(a StructAccessor) error

	// VisitInterface receives a value of static type interface{}. value is
	// nil for a nil interface; otherwise Decode on it delivers the
	// concrete value to a nested Visitor.
	VisitInterface(concreteName string, concreteId TypeId, value InterfaceValue) error

	// VisitInterfaceMap receives the eagerly-buffered entries of a map
	// whose key and value are both interface{}: the decoder cannot stream
	// these because a struct-targeting visitor needs random access by key
	// name.
	VisitInterfaceMap(entries []InterfaceMapEntry) error
}

// SeqAccessor yields successive elements of an array or slice to nested
// visitors.
type SeqAccessor interface {
	// Len reports the wire-declared element count.
	Len() int
	// Next decodes the next element into v. Returns false once every
	// element has been consumed.
	Next(v Visitor) (bool, error)
}

// MapAccessor yields successive key/value pairs of a map to nested
// visitors. NextKey and NextValue strictly alternate.
type MapAccessor interface {
	Len() int
	NextKey(v Visitor) (bool, error)
	NextValue(v Visitor) error
}

// StructAccessor yields delta-decoded fields in wire order. Next reports
// the field name and its TypeId without consuming the value; Decode then
// delivers that field's value to v. Fields the wire elided keep the zero
// default the caller's own value already has — the accessor never visits
// them.
type StructAccessor interface {
	Next() (name string, id TypeId, ok bool)
	Decode(v Visitor) error
	// Skip discards the current field's wire bytes without visiting them,
	// for a wire field with no matching host field.
	Skip() error
}

// InterfaceValue is the decode capability for a value of static type
// interface{}: Decode delivers the concrete value, self-described by its
// own TypeId, to a Visitor of the caller's choosing.
type InterfaceValue interface {
	Decode(v Visitor) error
}

// InterfaceMapEntry is one buffered entry of an interface-keyed map: the
// key and value as generically decoded Go values, plus the key's string
// form, so the visitor can address entries by key without re-parsing. The
// concrete type names and TypeIds carried on the wire are not kept.
type InterfaceMapEntry struct {
	KeyName string // the key's string value, when the key is a string (the struct-as-map case); empty otherwise
	Key     any
	Value   any
}

// Emitter is the encode-side collaborator, symmetric to Visitor: the
// serializer asks the host to produce the kind-appropriate scalar or to
// iterate children. Kind reports which accessor/scalar method is valid to
// call next.
//
// reflectEmitter (reflectemitter.go) is the default implementation.
type Emitter interface {
	Kind() Kind

	Bool() bool
	Int() int64
	Uint() uint64
	Float() float64
	String() string
	Bytes() []byte

	// IsZero reports whether the current scalar or composite equals its
	// kind's zero default, for struct field elision.
	IsZero() bool

	Seq() SeqEmitter
	Map() MapEmitter
	Struct() StructEmitter

	// Interface returns the concrete gob type name, its already-registered
	// TypeId, and an Emitter for the concrete value, for a value of static
	// type interface{}. concrete is nil for a nil interface.
	Interface() (concreteName string, concreteId TypeId, concrete Emitter)
}

// SeqEmitter exposes an array or slice's elements for encoding.
type SeqEmitter interface {
	Len() int
	Elem(i int) Emitter
}

// MapEmitter exposes a map's entries for encoding.
type MapEmitter interface {
	Len() int
	Entries() []MapEntryEmitter
}

// MapEntryEmitter is one key/value pair of a MapEmitter.
type MapEntryEmitter struct {
	Key   Emitter
	Value Emitter
}

// StructEmitter exposes a struct's fields for encoding, in wire order.
type StructEmitter interface {
	Fields() []FieldEmitter
}

// FieldEmitter is one field of a StructEmitter.
type FieldEmitter struct {
	Name  string
	Value Emitter
}

// GobMapper lets a host type opt into the "interpret_as =
// map[interface{}]interface{}" override: instead of registering and
// encoding as a struct, the type is registered as a map from interface
// to interface, with GobMap supplying the entries (field name → field
// value, boxed).
type GobMapper interface {
	GobMap() map[string]any
}

// GobUnmapper is the decode-side counterpart: a type that wants to
// receive a map-interpreted stream value back into its own fields rather
// than into a bare map[string]any.
type GobUnmapper interface {
	GobUnmap(m map[string]any) error
}
