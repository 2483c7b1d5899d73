package gobwire

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// fingerprint computes a structural, name-sensitive hash of a
// TypeDefinition for registry dedup (spec invariant: no two distinct
// normal-form TypeDefinitions share a fingerprint). Children are already
// canonicalized to an id by the time their parent is finalized (composite
// types register children first, per the registration walker), so the
// hash only needs to fold in the immediate shape plus child ids rather
// than recursing into child definitions itself.
func fingerprint(def TypeDefinition) uint64 {
	h := xxhash.New()
	var scratch [9]byte

	writeTag := func(b byte) { h.Write([]byte{b}) }
	writeId := func(id TypeId) {
		binary.LittleEndian.PutUint64(scratch[:8], uint64(id))
		h.Write(scratch[:8])
	}
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(scratch[:8], uint64(int64(v)))
		h.Write(scratch[:8])
	}
	writeStr := func(s string) {
		binary.LittleEndian.PutUint32(scratch[:4], uint32(len(s)))
		h.Write(scratch[:4])
		h.Write([]byte(s))
	}

	writeTag(byte(def.Kind))
	switch def.Kind {
	case KindArray:
		writeId(def.Elem)
		writeInt(def.Len)
	case KindSlice:
		writeId(def.Elem)
	case KindMap:
		writeId(def.Key)
		writeId(def.Elem)
	case KindStruct:
		writeInt(len(def.Fields))
		for _, f := range def.Fields {
			writeStr(f.Name)
			writeId(f.Id)
		}
	case KindGobEncoder:
		// sentinel only, no payload to fold in
	}

	return h.Sum64()
}
