// Package gobwire implements a codec for the self-describing binary stream
// format popularized by Go's encoding/gob: interleaved type-definition
// messages and value messages, sharing a per-stream type table that grows
// as new types are first referenced.
//
// Encoder and Decoder are the stream-level entry points; they drive a
// registration walker, a type table, and a pair of reflect-backed
// Emitter/Visitor implementations over ordinary Go values. Primitive value
// encoding (varints, zigzag ints, byte-reversed floats, length-prefixed
// strings and bytes, field-delta struct bodies) matches the reference
// encoding/gob implementation bit for bit; the type-definition messages
// that describe a registered type's shape are this package's own
// self-consistent envelope rather than a literal reproduction of gob's
// internal wireType encoding, since only two instances of this package
// ever need to agree on it.
package gobwire
