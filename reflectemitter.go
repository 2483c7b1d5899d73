package gobwire

import "reflect"

// classifyKind reports the Kind a host reflect.Type encodes as, using the
// same precedence the registration walker applies: GobEncoder first (a
// type may otherwise look like an ordinary struct), then the well-known
// primitive/bytes/interface kinds, then the GobMapper override, then the
// composite kinds.
func classifyKind(rt reflect.Type) Kind {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if implementsGobEncoder(rt) {
		return KindGobEncoder
	}
	if id, ok := wellKnownIdForType(rt); ok {
		return wellKnownKind(id)
	}
	if implementsGobMapper(rt) {
		return KindMap
	}
	switch rt.Kind() {
	case reflect.Array:
		return KindArray
	case reflect.Slice:
		return KindSlice
	case reflect.Map:
		return KindMap
	case reflect.Struct:
		return KindStruct
	}
	throw(UnsupportedKind, "cannot encode host type %v", rt)
	panic("unreachable")
}

// reflectIsZero applies this codec's per-kind zero-default rules, which
// for slices and maps means length zero (nil or merely empty), not only
// nil — unlike reflect.Value.IsZero's blanket nil check.
func reflectIsZero(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}

// reflectEmitter is the default Emitter, built once per value from plain
// reflection over an ordinary Go value.
type reflectEmitter struct {
	rv   reflect.Value
	rt   reflect.Type
	ctx  *encodeCtx
	zero bool
}

func newReflectEmitter(rv reflect.Value, ctx *encodeCtx) Emitter {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return &reflectEmitter{rv: reflect.Zero(rv.Type().Elem()), rt: rv.Type().Elem(), ctx: ctx, zero: true}
		}
		rv = rv.Elem()
	}
	return &reflectEmitter{rv: rv, rt: rv.Type(), ctx: ctx, zero: reflectIsZero(rv)}
}

// newInterfaceEmitter boxes an arbitrary Go value as an interface{}-kind
// Emitter, used for GobMapper-derived map[string]any entries whose
// registered wire type is map[interface{}]interface{}.
func newInterfaceEmitter(v any, ctx *encodeCtx) Emitter {
	var box any = v
	return newReflectEmitter(reflect.ValueOf(&box).Elem(), ctx)
}

func (e *reflectEmitter) Kind() Kind     { return classifyKind(e.rt) }
func (e *reflectEmitter) IsZero() bool   { return e.zero }
func (e *reflectEmitter) Bool() bool     { return e.rv.Bool() }
func (e *reflectEmitter) String() string { return e.rv.String() }

func (e *reflectEmitter) Int() int64 {
	switch e.rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.rv.Int()
	}
	throw(SchemaMismatch, "%v is not an int-kind value", e.rt)
	panic("unreachable")
}

func (e *reflectEmitter) Uint() uint64 {
	switch e.rt.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.rv.Uint()
	}
	throw(SchemaMismatch, "%v is not a uint-kind value", e.rt)
	panic("unreachable")
}

func (e *reflectEmitter) Float() float64 {
	switch e.rt.Kind() {
	case reflect.Float32, reflect.Float64:
		return e.rv.Float()
	}
	throw(SchemaMismatch, "%v is not a float-kind value", e.rt)
	panic("unreachable")
}

func (e *reflectEmitter) Bytes() []byte {
	if e.rt.Kind() == reflect.Slice && e.rt.Elem().Kind() == reflect.Uint8 {
		return e.rv.Bytes()
	}
	enc := gobEncoderFor(e.rv)
	b, err := enc.GobEncode()
	if err != nil {
		throw(SchemaMismatch, "GobEncode failed for %v: %v", e.rt, err)
	}
	return b
}

func (e *reflectEmitter) Seq() SeqEmitter {
	return reflectSeqEmitter{rv: e.rv, ctx: e.ctx}
}

func (e *reflectEmitter) Map() MapEmitter {
	if implementsGobMapper(e.rt) {
		return stringAnyMapEmitter{m: gobMapperFor(e.rv).GobMap(), ctx: e.ctx}
	}
	return reflectMapEmitter{rv: e.rv, ctx: e.ctx}
}

func (e *reflectEmitter) Struct() StructEmitter {
	return reflectStructEmitter{rv: e.rv, ctx: e.ctx}
}

func (e *reflectEmitter) Interface() (string, TypeId, Emitter) {
	if e.rt.Kind() != reflect.Interface {
		throw(SchemaMismatch, "%v is not an interface value", e.rt)
	}
	if e.rv.IsNil() {
		return "", 0, nil
	}
	concrete := e.rv.Elem()
	id := e.ctx.walker.register(concrete.Type())
	return gobTypeName(concrete.Type()), id, newReflectEmitter(concrete, e.ctx)
}

func gobTypeName(rt reflect.Type) string { return rt.String() }

// gobEncoderFor obtains a GobEncoder for rv, taking its address into a
// fresh addressable copy when rv itself isn't addressable and the method
// is defined on a pointer receiver.
func gobEncoderFor(rv reflect.Value) GobEncoder {
	if enc, ok := rv.Interface().(GobEncoder); ok {
		return enc
	}
	if rv.CanAddr() {
		if enc, ok := rv.Addr().Interface().(GobEncoder); ok {
			return enc
		}
	}
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	if enc, ok := ptr.Interface().(GobEncoder); ok {
		return enc
	}
	throw(SchemaMismatch, "%v does not implement GobEncoder", rv.Type())
	panic("unreachable")
}

func gobMapperFor(rv reflect.Value) GobMapper {
	if m, ok := rv.Interface().(GobMapper); ok {
		return m
	}
	if rv.CanAddr() {
		if m, ok := rv.Addr().Interface().(GobMapper); ok {
			return m
		}
	}
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	if m, ok := ptr.Interface().(GobMapper); ok {
		return m
	}
	throw(SchemaMismatch, "%v does not implement GobMapper", rv.Type())
	panic("unreachable")
}

type reflectSeqEmitter struct {
	rv  reflect.Value
	ctx *encodeCtx
}

func (s reflectSeqEmitter) Len() int { return s.rv.Len() }
func (s reflectSeqEmitter) Elem(i int) Emitter {
	return newReflectEmitter(s.rv.Index(i), s.ctx)
}

type reflectMapEmitter struct {
	rv  reflect.Value
	ctx *encodeCtx
}

func (m reflectMapEmitter) Len() int { return m.rv.Len() }
func (m reflectMapEmitter) Entries() []MapEntryEmitter {
	keys := m.rv.MapKeys()
	out := make([]MapEntryEmitter, 0, len(keys))
	for _, k := range keys {
		out = append(out, MapEntryEmitter{
			Key:   newReflectEmitter(k, m.ctx),
			Value: newReflectEmitter(m.rv.MapIndex(k), m.ctx),
		})
	}
	return out
}

// stringAnyMapEmitter backs the GobMapper override: a
// map[interface{}]interface{} built from map[string]any, field name
// values boxed as string keys and field values boxed as interface values.
type stringAnyMapEmitter struct {
	m   map[string]any
	ctx *encodeCtx
}

func (s stringAnyMapEmitter) Len() int { return len(s.m) }
func (s stringAnyMapEmitter) Entries() []MapEntryEmitter {
	out := make([]MapEntryEmitter, 0, len(s.m))
	for k, v := range s.m {
		out = append(out, MapEntryEmitter{
			Key:   newInterfaceEmitter(k, s.ctx),
			Value: newInterfaceEmitter(v, s.ctx),
		})
	}
	return out
}

type reflectStructEmitter struct {
	rv  reflect.Value
	ctx *encodeCtx
}

func (s reflectStructEmitter) Fields() []FieldEmitter {
	rt := s.rv.Type()
	out := make([]FieldEmitter, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		out = append(out, FieldEmitter{Name: f.Name, Value: newReflectEmitter(s.rv.Field(i), s.ctx)})
	}
	return out
}
