package gobwire

import "sync"

// buffer accumulates encoded bytes during serialization. It supports only
// append operations and is reused via a sync.Pool across Encode calls to
// avoid per-message allocation.
type buffer struct {
	bytes []byte
}

var bufferPool = sync.Pool{
	New: func() any { return &buffer{} },
}

func getBuffer() *buffer {
	b := bufferPool.Get().(*buffer)
	b.bytes = b.bytes[:0]
	return b
}

func putBuffer(b *buffer) {
	bufferPool.Put(b)
}

func (b *buffer) appendByte(v byte) {
	b.bytes = append(b.bytes, v)
}

func (b *buffer) appendBytesRaw(v []byte) {
	b.bytes = append(b.bytes, v...)
}

func (b *buffer) appendUvarint(v uint64) {
	b.bytes = appendUvarint(b.bytes, v)
}

func (b *buffer) appendVarintZigzag(v int64) {
	b.bytes = appendVarintZigzag(b.bytes, v)
}

func (b *buffer) appendFloat(bits uint64) {
	b.bytes = appendFloat(b.bytes, bits)
}

// appendString writes a length-prefixed string.
func (b *buffer) appendString(s string) {
	b.appendUvarint(uint64(len(s)))
	b.bytes = append(b.bytes, s...)
}

// appendBytes writes a length-prefixed byte slice.
func (b *buffer) appendBytes(v []byte) {
	b.appendUvarint(uint64(len(v)))
	b.bytes = append(b.bytes, v...)
}

// len reports the number of bytes written so far.
func (b *buffer) len() int { return len(b.bytes) }
