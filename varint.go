package gobwire

// maxVarintBytes is the largest number of bytes a 64-bit varint (plus its
// leading count byte) may occupy on the wire; exceeding it is corrupt.
const maxVarintBytes = 9

// appendUvarint writes v using gob's length-prefixed base-256 form: values
// under 128 are a single literal byte; larger values are a leading byte
// equal to 0x100-byteCount followed by the big-endian bytes of v,
// most-significant non-zero byte first.
func appendUvarint(b []byte, v uint64) []byte {
	if v < 0x80 {
		return append(b, byte(v))
	}

	var tmp [8]byte
	n := 0
	for v > 0 {
		tmp[n] = byte(v)
		v >>= 8
		n++
	}
	// tmp[0:n] holds little-endian bytes; emit leading count byte then
	// big-endian order.
	out := append(b, byte(0x100-n))
	for i := n - 1; i >= 0; i-- {
		out = append(out, tmp[i])
	}
	return out
}

// appendVarintZigzag zigzag-maps a signed value onto the unsigned form
// before writing it: a non-negative v becomes v<<1 (low bit clear) and a
// negative v becomes the complement of v<<1 (low bit set).
func appendVarintZigzag(b []byte, v int64) []byte {
	return appendUvarint(b, uint64((v<<1)^(v>>63)))
}

// appendFloat reinterprets f as its IEEE-754 bit pattern, reverses the byte
// order (least-significant byte first), and writes the result as an
// unsigned varint. This is a wire rule, not an endianness artifact: it
// exploits the common trailing zero bytes of fractional values.
func appendFloat(b []byte, bits uint64) []byte {
	var reversed uint64
	for i := 0; i < 8; i++ {
		reversed = (reversed << 8) | (bits & 0xff)
		bits >>= 8
	}
	return appendUvarint(b, reversed)
}

// readUvarint decodes a gob-form unsigned varint from c, advancing its
// position. Panics with a *Error on truncation, overflow, or a malformed
// leading byte.
func readUvarint(c *cursor) uint64 {
	b := c.readByte()
	if b < 0x80 {
		return uint64(b)
	}

	n := 0x100 - int(b)
	if n < 1 || n > 8 {
		throw(CorruptStream, "invalid varint length byte %#x", b)
	}

	buf := c.read(uint64(n))
	var v uint64
	for _, x := range buf {
		v = (v << 8) | uint64(x)
	}
	if n == 8 && v>>56 == 0 {
		// a canonical encoder never pads with a leading zero byte once it
		// has chosen an 8-byte count; tolerate it rather than reject, since
		// it still round-trips correctly.
		_ = v
	}
	return v
}

// readVarintZigzag decodes a zigzag-mapped signed varint.
func readVarintZigzag(c *cursor) int64 {
	u := readUvarint(c)
	return int64(u>>1) ^ -int64(u&1)
}

// readFloatBits decodes a byte-reversed float varint back into its raw
// IEEE-754 bit pattern.
func readFloatBits(c *cursor) uint64 {
	reversed := readUvarint(c)
	var bits uint64
	for i := 0; i < 8; i++ {
		bits = (bits << 8) | (reversed & 0xff)
		reversed >>= 8
	}
	return bits
}
