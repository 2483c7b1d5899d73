package gobwire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendUvarintSingleByte(t *testing.T) {
	for _, v := range []uint64{0, 1, 127} {
		b := appendUvarint(nil, v)
		require.Len(t, b, 1, "value %d", v)
		require.Equal(t, byte(v), b[0])
	}
}

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 256, 65535, 65536, 1 << 32, 1<<64 - 1}
	for _, v := range values {
		b := appendUvarint(nil, v)
		c := newCursor(b)
		got := readUvarint(&c)
		require.Equal(t, v, got, "round trip of %d", v)
		require.Zero(t, c.remaining())
	}
}

func TestVarintZigzagRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 127, -128, 1 << 40, -(1 << 40)}
	for _, v := range values {
		b := appendVarintZigzag(nil, v)
		c := newCursor(b)
		got := readVarintZigzag(&c)
		require.Equal(t, v, got, "round trip of %d", v)
	}
}

// TestBoolEncodingMatchesReferenceGob pins the exact wire bytes for a
// top-level bool value, matching the reference encoding/gob
// implementation: length=3, typeId=+1 (bool), singleton=0, value=1.
func TestBoolEncodingMatchesReferenceGob(t *testing.T) {
	var buf []byte
	buf = append(buf, appendVarintZigzag(nil, int64(BoolId))...)
	buf = append(buf, appendUvarint(nil, 0)...) // singleton marker
	buf = append(buf, 1)                        // true
	require.Equal(t, []byte{0x02, 0x00, 0x01}, buf)
}

func TestFloatBitReversalRoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 3.14159, 1e100, -1e-100}
	for _, f := range values {
		bits := math.Float64bits(f)
		b := appendFloat(nil, bits)
		c := newCursor(b)
		got := readFloatBits(&c)
		require.Equal(t, bits, got)
	}
}
