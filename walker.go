package gobwire

import "reflect"

// GobEncoder mirrors encoding/gob's own GobEncoder interface: a type
// implementing it supplies its own wire bytes, recognized as the
// GobEncoder sentinel TypeDefinition.
type GobEncoder interface {
	GobEncode() ([]byte, error)
}

// GobDecoder is GobEncoder's decode-side counterpart.
type GobDecoder interface {
	GobDecode([]byte) error
}

var (
	gobEncoderType = reflect.TypeOf((*GobEncoder)(nil)).Elem()
	gobMapperType  = reflect.TypeOf((*GobMapper)(nil)).Elem()
)

func implementsGobEncoder(rt reflect.Type) bool {
	return rt.Implements(gobEncoderType) || reflect.PointerTo(rt).Implements(gobEncoderType)
}

func implementsGobMapper(rt reflect.Type) bool {
	return rt.Implements(gobMapperType) || reflect.PointerTo(rt).Implements(gobMapperType)
}

// wellKnownIdForType reports the built-in TypeId for primitive host
// kinds, []byte, and interface{}. Registration is a pure function of the
// host type, never the value.
func wellKnownIdForType(rt reflect.Type) (TypeId, bool) {
	switch rt.Kind() {
	case reflect.Bool:
		return BoolId, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntId, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return UintId, true
	case reflect.Float32, reflect.Float64:
		return FloatId, true
	case reflect.String:
		return StringId, true
	case reflect.Complex64, reflect.Complex128:
		return ComplexId, true
	case reflect.Interface:
		return InterfaceId, true
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return BytesId, true
		}
	}
	return 0, false
}

// registrationWalker performs the depth-first, memoized walk of a host
// type tree that inserts new entries into a TypeTable. One walker is
// owned per stream so registrations and pending definitions accumulate
// across every value the stream encodes.
type registrationWalker struct {
	table   *TypeTable
	byType  map[reflect.Type]TypeId
	pending []TypeId
	active  map[TypeId]bool
	cyclic  map[TypeId]bool
}

func newRegistrationWalker(table *TypeTable) *registrationWalker {
	return &registrationWalker{
		table:  table,
		byType: make(map[reflect.Type]TypeId),
		active: make(map[TypeId]bool),
		cyclic: make(map[TypeId]bool),
	}
}

// drainPending returns and clears the ids registered since the last call,
// in registration order (children before parents), for the stream driver
// to emit as definition messages.
func (w *registrationWalker) drainPending() []TypeId {
	p := w.pending
	w.pending = nil
	return p
}

// register resolves rt to a TypeId, registering it and its children first
// if this is the first time rt is seen.
func (w *registrationWalker) register(rt reflect.Type) TypeId {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	if id, ok := w.byType[rt]; ok {
		if w.active[id] {
			w.cyclic[id] = true
		}
		return id
	}

	if implementsGobEncoder(rt) {
		return w.registerGobEncoder(rt)
	}
	if id, ok := wellKnownIdForType(rt); ok {
		w.byType[rt] = id
		return id
	}
	if implementsGobMapper(rt) {
		return w.registerInterfaceMap(rt)
	}

	switch rt.Kind() {
	case reflect.Array:
		return w.registerArray(rt)
	case reflect.Slice:
		return w.registerSlice(rt)
	case reflect.Map:
		return w.registerMap(rt)
	case reflect.Struct:
		return w.registerStruct(rt)
	}

	throw(UnsupportedKind, "cannot register host type %v", rt)
	panic("unreachable")
}

// registerComposite allocates a placeholder id for rt before building def
// (so self-referential fields resolve to a real id), then finalizes it.
// A definition only collapses onto an existing canonical id when rt was
// never referenced from within its own construction.
func (w *registrationWalker) registerComposite(rt reflect.Type, build func() TypeDefinition) TypeId {
	id := w.table.allocate()
	w.byType[rt] = id
	w.active[id] = true

	def := build()

	delete(w.active, id)
	canonicalize := !w.cyclic[id]

	final, isNew := w.table.finalize(id, def, canonicalize)
	if final != id {
		w.byType[rt] = final
	}
	if isNew {
		w.pending = append(w.pending, final)
	}
	return final
}

func (w *registrationWalker) registerStruct(rt reflect.Type) TypeId {
	return w.registerComposite(rt, func() TypeDefinition {
		fields := make([]FieldDef, 0, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if f.PkgPath != "" {
				continue // unexported
			}
			fields = append(fields, FieldDef{Name: f.Name, Id: w.register(f.Type)})
		}
		return TypeDefinition{Kind: KindStruct, Fields: fields}
	})
}

func (w *registrationWalker) registerArray(rt reflect.Type) TypeId {
	return w.registerComposite(rt, func() TypeDefinition {
		return TypeDefinition{Kind: KindArray, Elem: w.register(rt.Elem()), Len: rt.Len()}
	})
}

func (w *registrationWalker) registerSlice(rt reflect.Type) TypeId {
	return w.registerComposite(rt, func() TypeDefinition {
		return TypeDefinition{Kind: KindSlice, Elem: w.register(rt.Elem())}
	})
}

func (w *registrationWalker) registerMap(rt reflect.Type) TypeId {
	return w.registerComposite(rt, func() TypeDefinition {
		return TypeDefinition{Kind: KindMap, Key: w.register(rt.Key()), Elem: w.register(rt.Elem())}
	})
}

func (w *registrationWalker) registerGobEncoder(rt reflect.Type) TypeId {
	return w.registerComposite(rt, func() TypeDefinition {
		return TypeDefinition{Kind: KindGobEncoder}
	})
}

// registerInterfaceMap implements the "interpret_as =
// map[interface{}]interface{}" override: rt is registered as a map from
// interface to interface rather than as a struct.
func (w *registrationWalker) registerInterfaceMap(rt reflect.Type) TypeId {
	return w.registerComposite(rt, func() TypeDefinition {
		return TypeDefinition{Kind: KindMap, Key: InterfaceId, Elem: InterfaceId}
	})
}
