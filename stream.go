package gobwire

import (
	"io"
	"reflect"
)

// Encoder writes a sequence of self-describing value messages to an
// underlying io.Writer, interleaving type-definition messages the first
// time a registered type is needed. One Encoder owns one stream's
// TypeTable for its entire lifetime; types registered by an earlier
// Encode are never redefined by a later one.
type Encoder struct {
	w      io.Writer
	table  *TypeTable
	walker *registrationWalker
}

// NewEncoder returns an Encoder writing framed messages to w.
func NewEncoder(w io.Writer) *Encoder {
	table := newTypeTable()
	return &Encoder{w: w, table: table, walker: newRegistrationWalker(table)}
}

// Encode registers v's type if this stream hasn't seen it, emitting any
// resulting definition messages, then writes v as a value message.
func (e *Encoder) Encode(v any) (err error) {
	defer recoverErr(&err)

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			throw(SchemaMismatch, "cannot encode a nil pointer")
		}
		rv = rv.Elem()
	}

	id := e.walker.register(rv.Type())
	e.flushPending()

	ctx := &encodeCtx{table: e.table, walker: e.walker, flush: e.writePending}
	emitter := newReflectEmitter(rv, ctx)

	buf := getBuffer()
	defer putBuffer(buf)
	buf.appendVarintZigzag(int64(id))
	encodeMessageBody(ctx, id, emitter, buf)

	if ferr := writeFrame(e.w, buf.bytes); ferr != nil {
		panic(ferr)
	}
	return nil
}

func (e *Encoder) flushPending() {
	e.writePending(e.walker.drainPending())
}

// writePending frames and writes one definition message per id, in the
// order given (children before parents, per the registration walker).
func (e *Encoder) writePending(pending []TypeId) {
	for _, id := range pending {
		def, ok := e.table.Lookup(id)
		if !ok {
			throw(CorruptStream, "pending type %d missing from table", id)
		}
		buf := getBuffer()
		buf.appendVarintZigzag(int64(id))
		encodeTypeDefinitionBody(id, def, buf)
		ferr := writeFrame(e.w, buf.bytes)
		putBuffer(buf)
		if ferr != nil {
			panic(ferr)
		}
	}
}

// Decoder reads a sequence of value messages from an underlying
// io.Reader, installing type-definition messages into its TypeTable as it
// encounters them. One Decoder owns one stream's TypeTable for its
// entire lifetime, matching Encoder.
type Decoder struct {
	r      io.Reader
	table  *TypeTable
	limits DecodeLimits
}

// NewDecoder returns a Decoder reading framed messages from r, with
// DefaultLimits.
func NewDecoder(r io.Reader) *Decoder {
	return NewDecoderWithLimits(r, DefaultLimits)
}

// NewDecoderWithLimits is like NewDecoder but with caller-supplied
// resource limits, for decoding data from an untrusted peer.
func NewDecoderWithLimits(r io.Reader, limits DecodeLimits) *Decoder {
	return &Decoder{r: r, table: newTypeTable(), limits: limits}
}

// Decode reads definition messages until the next value message arrives,
// then fills v (which must be a non-nil pointer) from it. io.EOF is
// returned verbatim when the stream ends cleanly between messages.
func (d *Decoder) Decode(v any) (err error) {
	defer recoverErr(&err)

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		throw(SchemaMismatch, "Decode requires a non-nil pointer, got %T", v)
	}

	ctx := &decodeCtx{table: d.table, limits: d.limits}
	for {
		payload, ferr := readFrame(d.r, int(d.limits.MaxMessageLen))
		if ferr != nil {
			if ferr == io.EOF {
				return io.EOF
			}
			panic(ferr)
		}

		c := newCursor(payload)
		tag := TypeId(readVarintZigzag(&c))
		// User-defined ids are negative in both kinds of message: the first
		// message carrying an id defines it, and every later one is a value
		// of that type (an Encoder never redefines an id).
		if _, known := d.table.Lookup(tag); tag < 0 && !known {
			def := decodeTypeDefinitionBody(&c)
			d.table.install(tag, def, d.limits.MaxTypeDepth)
			continue
		}

		decodeMessageBody(ctx, tag, &c, newReflectVisitor(rv.Elem(), ctx))
		return nil
	}
}

// Marshal encodes v as one value message, preceded by whatever definition
// messages its type needs, using a fresh, one-shot stream — a convenience
// for callers that don't need to share a TypeTable across multiple values.
func Marshal(w io.Writer, v any) error {
	return NewEncoder(w).Encode(v)
}

// Unmarshal decodes one value message (plus whatever definition messages
// precede it) from r into v, using a fresh, one-shot stream.
func Unmarshal(r io.Reader, v any) error {
	return NewDecoder(r).Decode(v)
}
