package gobwire

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRoundTripBool(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(true))

	var got bool
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	require.True(t, got)
}

// TestRoundTripEmptySlice pins that encoding a zero-length slice must
// decode to an empty slice, not an error.
func TestRoundTripEmptySlice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode([]int{}))

	var got []int
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	require.NotNil(t, got)
	require.Empty(t, got)
}

// TestRoundTripStructSkipsZeroFields pins that a field equal to its
// kind's zero default is elided and decodes back to zero.
func TestRoundTripStructSkipsZeroFields(t *testing.T) {
	type Point struct {
		X, Y, Z int64
	}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(Point{X: 1, Y: 0, Z: 3}))

	var got Point
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	require.Equal(t, Point{X: 1, Y: 0, Z: 3}, got)
}

func TestRoundTripNestedStruct(t *testing.T) {
	type Inner struct {
		Name string
	}
	type Outer struct {
		Inner Inner
		Tags  []string
		Count int
	}

	in := Outer{Inner: Inner{Name: "leaf"}, Tags: []string{"a", "b", "c"}, Count: 7}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(in))

	var got Outer
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripMap(t *testing.T) {
	in := map[string]int64{"a": 1, "b": 2, "c": 3}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(in))

	var got map[string]int64
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	require.Equal(t, in, got)
}

type shape interface{ area() float64 }

type square struct{ Side float64 }

func (s square) area() float64 { return s.Side * s.Side }

func init() { Register(square{}) }

func TestRoundTripInterfaceField(t *testing.T) {
	type Holder struct {
		Shape shape
	}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(Holder{Shape: square{Side: 3}}))

	var got Holder
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	require.Equal(t, square{Side: 3}, got.Shape)
}

func TestRoundTripNilInterfaceField(t *testing.T) {
	type Holder struct {
		Shape shape
	}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(Holder{}))

	// Holder.Shape is nil, its kind's zero default, so the encoder elides
	// the field entirely; decoding into a pristine Holder leaves it at the
	// zero value it already had, per the StructAccessor contract.
	var got Holder
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	require.Nil(t, got.Shape)
}

// mapUser implements GobMapper/GobUnmapper, exercising the
// "interpret_as = map[interface{}]interface{}" struct-as-map override
// for a struct that wants to control its own wire shape.
type mapUser struct {
	UID   int64
	Uname string
	Email string
}

func (u mapUser) GobMap() map[string]any {
	return map[string]any{"UID": u.UID, "Uname": u.Uname, "Email": u.Email}
}

func (u *mapUser) GobUnmap(m map[string]any) error {
	if v, ok := m["UID"].(int64); ok {
		u.UID = v
	}
	if v, ok := m["Uname"].(string); ok {
		u.Uname = v
	}
	if v, ok := m["Email"].(string); ok {
		u.Email = v
	}
	return nil
}

func TestRoundTripGobMapperStruct(t *testing.T) {
	in := mapUser{UID: 1, Uname: "dsotsen", Email: "dsotsen@qq.com"}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(in))

	var got mapUser
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	require.Equal(t, in, got)
}

func TestRoundTripGobMapperIntoPlainMap(t *testing.T) {
	in := mapUser{UID: 1, Uname: "dsotsen", Email: "dsotsen@qq.com"}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(in))

	var got map[string]any
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	require.Equal(t, int64(1), got["UID"])
	require.Equal(t, "dsotsen", got["Uname"])
	require.Equal(t, "dsotsen@qq.com", got["Email"])
}

// gobCounter implements GobEncoder/GobDecoder directly, exercising the
// sentinel path rather than reflection-driven struct encoding.
type gobCounter struct{ n int64 }

func (c gobCounter) GobEncode() ([]byte, error) {
	return appendVarintZigzag(nil, c.n), nil
}

func (c *gobCounter) GobDecode(b []byte) error {
	cur := newCursor(b)
	c.n = readVarintZigzag(&cur)
	return nil
}

func TestRoundTripGobEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(gobCounter{n: 42}))

	var got gobCounter
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	require.Equal(t, int64(42), got.n)
}

// TestUnknownTypeId pins that a value message whose TypeId was never
// installed by a preceding definition message is UnknownType.
func TestUnknownTypeId(t *testing.T) {
	var buf bytes.Buffer
	payload := appendVarintZigzag(nil, 999) // positive, never defined
	require.NoError(t, writeFrame(&buf, payload))

	var got int
	err := NewDecoder(&buf).Decode(&got)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, UnknownType, gerr.Kind)
}

func TestTruncatedStreamIsTruncatedError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(int64(1234567)))

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-1])
	var got int64
	err := NewDecoder(truncated).Decode(&got)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, Truncated, gerr.Kind)
}

func TestDecodeEOFBetweenMessages(t *testing.T) {
	var buf bytes.Buffer
	var got int
	err := NewDecoder(&buf).Decode(&got)
	require.ErrorIs(t, err, io.EOF)
}

func TestMultipleValuesShareTypeTable(t *testing.T) {
	type Point struct{ X, Y int64 }

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(Point{X: 1, Y: 2}))
	require.NoError(t, enc.Encode(Point{X: 3, Y: 4}))

	dec := NewDecoder(&buf)
	var a, b Point
	require.NoError(t, dec.Decode(&a))
	require.NoError(t, dec.Decode(&b))
	require.Equal(t, Point{X: 1, Y: 2}, a)
	require.Equal(t, Point{X: 3, Y: 4}, b)
}
