package gobwire

// nullVisitor discards everything it visits while still driving every
// accessor to exhaustion, so decodeBody's cursor ends up exactly where it
// would if a real visitor had consumed the value. Used to skip fields and
// elements a host value has no slot for.
type nullVisitor struct{}

var nullVisitorInstance Visitor = nullVisitor{}

func (nullVisitor) VisitBool(bool) error     { return nil }
func (nullVisitor) VisitInt(int64) error     { return nil }
func (nullVisitor) VisitUint(uint64) error   { return nil }
func (nullVisitor) VisitFloat(float64) error { return nil }
func (nullVisitor) VisitString(string) error { return nil }
func (nullVisitor) VisitBytes([]byte) error  { return nil }

func (nullVisitor) VisitSeq(a SeqAccessor) error {
	for {
		ok, err := a.Next(nullVisitorInstance)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func (nullVisitor) VisitMap(a MapAccessor) error {
	for {
		ok, err := a.NextKey(nullVisitorInstance)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := a.NextValue(nullVisitorInstance); err != nil {
			return err
		}
	}
}

func (nullVisitor) VisitStruct(a StructAccessor) error {
	for {
		_, _, ok := a.Next()
		if !ok {
			return nil
		}
		if err := a.Skip(); err != nil {
			return err
		}
	}
}

func (nullVisitor) VisitInterface(_ string, _ TypeId, val InterfaceValue) error {
	if val == nil {
		return nil
	}
	return val.Decode(nullVisitorInstance)
}

func (nullVisitor) VisitInterfaceMap([]InterfaceMapEntry) error { return nil }

// captureVisitor decodes into generic Go values (string, int64, uint64,
// float64, bool, []byte, []any, map[any]any, map[string]any) rather than
// into a pre-typed host value. It backs the eager interface-map buffer
// and the default decode target for bare interface{} fields the caller
// hasn't asked to decode into a registered concrete type.
type captureVisitor struct{ value any }

func (c *captureVisitor) VisitBool(b bool) error     { c.value = b; return nil }
func (c *captureVisitor) VisitInt(i int64) error     { c.value = i; return nil }
func (c *captureVisitor) VisitUint(u uint64) error   { c.value = u; return nil }
func (c *captureVisitor) VisitFloat(f float64) error { c.value = f; return nil }
func (c *captureVisitor) VisitString(s string) error { c.value = s; return nil }
func (c *captureVisitor) VisitBytes(b []byte) error  { c.value = b; return nil }

func (c *captureVisitor) VisitSeq(a SeqAccessor) error {
	out := make([]any, 0, a.Len())
	for {
		elem := &captureVisitor{}
		ok, err := a.Next(elem)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		out = append(out, elem.value)
	}
	c.value = out
	return nil
}

func (c *captureVisitor) VisitMap(a MapAccessor) error {
	out := make(map[any]any, a.Len())
	for {
		key := &captureVisitor{}
		ok, err := a.NextKey(key)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		val := &captureVisitor{}
		if err := a.NextValue(val); err != nil {
			return err
		}
		out[key.value] = val.value
	}
	c.value = out
	return nil
}

func (c *captureVisitor) VisitStruct(a StructAccessor) error {
	out := make(map[string]any)
	for {
		name, _, ok := a.Next()
		if !ok {
			break
		}
		fv := &captureVisitor{}
		if err := a.Decode(fv); err != nil {
			return err
		}
		out[name] = fv.value
	}
	c.value = out
	return nil
}

func (c *captureVisitor) VisitInterface(_ string, _ TypeId, val InterfaceValue) error {
	if val == nil {
		c.value = nil
		return nil
	}
	inner := &captureVisitor{}
	if err := val.Decode(inner); err != nil {
		return err
	}
	c.value = inner.value
	return nil
}

func (c *captureVisitor) VisitInterfaceMap(entries []InterfaceMapEntry) error {
	out := make(map[any]any, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	c.value = out
	return nil
}

// decodeInterfaceValueGeneric reads one interface-wrapped value (concrete
// name, concrete TypeId, nested singleton-marked body) and captures it
// generically, for use where the caller needs the value eagerly rather
// than streamed to a Visitor.
func decodeInterfaceValueGeneric(ctx *decodeCtx, c *cursor) (name string, id TypeId, value any) {
	name = c.readString()
	if name == "" {
		return "", 0, nil
	}

	id = TypeId(readVarintZigzag(c))
	n := readUvarint(c)
	body := c.read(n)
	inner := newCursor(body)
	if marker := readUvarint(&inner); marker != 0 {
		throw(CorruptStream, "interface value missing singleton marker")
	}

	def := lookupDef(ctx.table, id)
	capture := &captureVisitor{}
	decodeBody(ctx, def, &inner, capture)
	return name, id, capture.value
}

// decodeInterfaceMap implements the eager-buffer strategy for a map whose
// key and value are both interface{}: the entire entry list is decoded
// up front so a struct-targeting visitor can do random-access lookup by
// key name, which the field-positional Visitor contract can't otherwise
// express. This is the sole exception to streaming decode in this codec.
func decodeInterfaceMap(ctx *decodeCtx, c *cursor, n int, v Visitor) {
	entries := make([]InterfaceMapEntry, 0, n)
	for i := 0; i < n; i++ {
		_, _, keyVal := decodeInterfaceValueGeneric(ctx, c)
		_, _, valVal := decodeInterfaceValueGeneric(ctx, c)
		keyName, _ := keyVal.(string)
		entries = append(entries, InterfaceMapEntry{KeyName: keyName, Key: keyVal, Value: valVal})
	}
	deliver(v.VisitInterfaceMap(entries))
}
