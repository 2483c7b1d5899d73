package gobwire

import "reflect"

// reflectVisitor is the default Visitor, filling an ordinary addressable
// Go value from whatever the decoder drives against it. A mismatch
// between wire kind and host type falls back to capturing the value
// generically (captureVisitor) when the host slot is interface{}, and is
// a SchemaMismatch otherwise.
type reflectVisitor struct {
	rv  reflect.Value
	ctx *decodeCtx
}

func newReflectVisitor(rv reflect.Value, ctx *decodeCtx) Visitor {
	return reflectVisitor{rv: rv, ctx: ctx}
}

// settleTarget walks and allocates through pointers until it reaches a
// settable non-pointer value.
func settleTarget(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}
	return rv
}

func (rv reflectVisitor) target() reflect.Value { return settleTarget(rv.rv) }

func (rv reflectVisitor) VisitBool(b bool) error {
	t := rv.target()
	switch t.Kind() {
	case reflect.Bool:
		t.SetBool(b)
	case reflect.Interface:
		t.Set(reflect.ValueOf(b))
	default:
		throw(SchemaMismatch, "cannot decode bool into %v", t.Type())
	}
	return nil
}

func (rv reflectVisitor) VisitInt(i int64) error {
	t := rv.target()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		t.SetInt(i)
	case reflect.Interface:
		t.Set(reflect.ValueOf(i))
	default:
		throw(SchemaMismatch, "cannot decode int into %v", t.Type())
	}
	return nil
}

func (rv reflectVisitor) VisitUint(u uint64) error {
	t := rv.target()
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		t.SetUint(u)
	case reflect.Interface:
		t.Set(reflect.ValueOf(u))
	default:
		throw(SchemaMismatch, "cannot decode uint into %v", t.Type())
	}
	return nil
}

func (rv reflectVisitor) VisitFloat(f float64) error {
	t := rv.target()
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		t.SetFloat(f)
	case reflect.Interface:
		t.Set(reflect.ValueOf(f))
	default:
		throw(SchemaMismatch, "cannot decode float into %v", t.Type())
	}
	return nil
}

func (rv reflectVisitor) VisitString(s string) error {
	t := rv.target()
	switch t.Kind() {
	case reflect.String:
		t.SetString(s)
	case reflect.Interface:
		t.Set(reflect.ValueOf(s))
	default:
		throw(SchemaMismatch, "cannot decode string into %v", t.Type())
	}
	return nil
}

func (rv reflectVisitor) VisitBytes(b []byte) error {
	t := rv.target()
	if dec, ok := gobDecoderFor(t); ok {
		return dec.GobDecode(b)
	}
	cp := append([]byte(nil), b...)
	switch t.Kind() {
	case reflect.Slice:
		if t.Type().Elem().Kind() != reflect.Uint8 {
			throw(SchemaMismatch, "cannot decode bytes into %v", t.Type())
		}
		t.SetBytes(cp)
	case reflect.Interface:
		t.Set(reflect.ValueOf(cp))
	default:
		throw(SchemaMismatch, "cannot decode bytes into %v", t.Type())
	}
	return nil
}

func (rv reflectVisitor) VisitSeq(a SeqAccessor) error {
	t := rv.target()
	switch t.Kind() {
	case reflect.Slice:
		n := a.Len()
		out := reflect.MakeSlice(t.Type(), n, n)
		for i := 0; i < n; i++ {
			ok, err := a.Next(newReflectVisitor(out.Index(i), rv.ctx))
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		t.Set(out)
		return nil
	case reflect.Array:
		n := a.Len()
		for i := 0; i < n; i++ {
			var target Visitor
			if i < t.Len() {
				target = newReflectVisitor(t.Index(i), rv.ctx)
			} else {
				target = nullVisitorInstance
			}
			ok, err := a.Next(target)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		return nil
	case reflect.Interface:
		capture := &captureVisitor{}
		if err := capture.VisitSeq(a); err != nil {
			return err
		}
		t.Set(reflect.ValueOf(capture.value))
		return nil
	}
	throw(SchemaMismatch, "cannot decode sequence into %v", t.Type())
	panic("unreachable")
}

func (rv reflectVisitor) VisitMap(a MapAccessor) error {
	t := rv.target()
	switch t.Kind() {
	case reflect.Map:
		out := reflect.MakeMapWithSize(t.Type(), a.Len())
		kt, vt := t.Type().Key(), t.Type().Elem()
		for {
			key := reflect.New(kt).Elem()
			ok, err := a.NextKey(newReflectVisitor(key, rv.ctx))
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			val := reflect.New(vt).Elem()
			if err := a.NextValue(newReflectVisitor(val, rv.ctx)); err != nil {
				return err
			}
			out.SetMapIndex(key, val)
		}
		t.Set(out)
		return nil
	case reflect.Interface:
		capture := &captureVisitor{}
		if err := capture.VisitMap(a); err != nil {
			return err
		}
		t.Set(reflect.ValueOf(capture.value))
		return nil
	}
	throw(SchemaMismatch, "cannot decode map into %v", t.Type())
	panic("unreachable")
}

func (rv reflectVisitor) VisitStruct(a StructAccessor) error {
	t := rv.target()
	switch t.Kind() {
	case reflect.Struct:
		for {
			name, _, ok := a.Next()
			if !ok {
				break
			}
			f := t.FieldByName(name)
			if !f.IsValid() || !f.CanSet() {
				if err := a.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := a.Decode(newReflectVisitor(f, rv.ctx)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Interface:
		capture := &captureVisitor{}
		if err := capture.VisitStruct(a); err != nil {
			return err
		}
		t.Set(reflect.ValueOf(capture.value))
		return nil
	}
	throw(SchemaMismatch, "cannot decode struct into %v", t.Type())
	panic("unreachable")
}

// VisitInterface reconstructs a concrete value registered under its gob
// type name (Register, mirroring encoding/gob.Register) when the host
// slot is itself interface{}; otherwise it captures the value generically
// and best-effort assigns it into the concrete host field.
func (rv reflectVisitor) VisitInterface(name string, id TypeId, val InterfaceValue) error {
	t := rv.target()
	if t.Kind() != reflect.Interface {
		if val == nil {
			return nil
		}
		capture := &captureVisitor{}
		if err := val.Decode(capture); err != nil {
			return err
		}
		assignAny(t, capture.value)
		return nil
	}
	if val == nil {
		t.Set(reflect.Zero(t.Type()))
		return nil
	}
	concreteType, ok := lookupRegisteredType(name)
	if !ok {
		capture := &captureVisitor{}
		if err := val.Decode(capture); err != nil {
			return err
		}
		if capture.value != nil {
			t.Set(reflect.ValueOf(capture.value))
		}
		return nil
	}
	ptr := reflect.New(concreteType)
	if err := val.Decode(newReflectVisitor(ptr.Elem(), rv.ctx)); err != nil {
		return err
	}
	t.Set(ptr.Elem())
	return nil
}

// VisitInterfaceMap implements the decode side of the struct-as-map
// override: a GobUnmapper target receives the entries as map[string]any
// via GobUnmap; a plain struct target is filled field-by-field by
// matching key name; a map or interface{} target gets the entries
// directly.
func (rv reflectVisitor) VisitInterfaceMap(entries []InterfaceMapEntry) error {
	t := rv.target()
	if um, ok := gobUnmapperFor(t); ok {
		m := make(map[string]any, len(entries))
		for _, e := range entries {
			m[e.KeyName] = e.Value
		}
		return um.GobUnmap(m)
	}
	switch t.Kind() {
	case reflect.Struct:
		for _, e := range entries {
			f := t.FieldByName(e.KeyName)
			if !f.IsValid() || !f.CanSet() {
				continue
			}
			assignAny(f, e.Value)
		}
		return nil
	case reflect.Map:
		out := reflect.MakeMapWithSize(t.Type(), len(entries))
		for _, e := range entries {
			if e.Key == nil {
				continue
			}
			out.SetMapIndex(reflect.ValueOf(e.Key), reflect.ValueOf(e.Value))
		}
		t.Set(out)
		return nil
	case reflect.Interface:
		out := make(map[any]any, len(entries))
		for _, e := range entries {
			out[e.Key] = e.Value
		}
		t.Set(reflect.ValueOf(out))
		return nil
	}
	throw(SchemaMismatch, "cannot decode interface map into %v", t.Type())
	panic("unreachable")
}

// assignAny best-effort assigns a generically-captured value (as produced
// by captureVisitor) into a concrete host field, converting between
// numeric kinds where the wire's int/uint/float granularity doesn't match
// the host's sized type.
func assignAny(f reflect.Value, v any) {
	if v == nil || !f.CanSet() {
		return
	}
	rv := reflect.ValueOf(v)
	ft := f.Type()
	if rv.Type().AssignableTo(ft) {
		f.Set(rv)
		return
	}
	if rv.Type().ConvertibleTo(ft) {
		switch ft.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64, reflect.String, reflect.Bool:
			f.Set(rv.Convert(ft))
			return
		}
	}
	if ft.Kind() == reflect.Ptr && rv.Type().ConvertibleTo(ft.Elem()) {
		p := reflect.New(ft.Elem())
		p.Elem().Set(rv.Convert(ft.Elem()))
		f.Set(p)
	}
}

func gobDecoderFor(rv reflect.Value) (GobDecoder, bool) {
	if !rv.CanAddr() {
		return nil, false
	}
	dec, ok := rv.Addr().Interface().(GobDecoder)
	return dec, ok
}

func gobUnmapperFor(rv reflect.Value) (GobUnmapper, bool) {
	if um, ok := rv.Interface().(GobUnmapper); ok {
		return um, true
	}
	if rv.CanAddr() {
		if um, ok := rv.Addr().Interface().(GobUnmapper); ok {
			return um, true
		}
	}
	return nil, false
}
