package gobwire

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeTableWellKnownLookup(t *testing.T) {
	tbl := newTypeTable()
	def, ok := tbl.Lookup(BoolId)
	require.True(t, ok)
	require.Equal(t, KindBool, def.Kind)
}

func TestTypeTableFinalizeCanonicalizesIdenticalShapes(t *testing.T) {
	tbl := newTypeTable()
	def := TypeDefinition{Kind: KindStruct, Fields: []FieldDef{{Name: "X", Id: IntId}}}

	idA := tbl.allocate()
	finalA, isNewA := tbl.finalize(idA, def, true)
	require.True(t, isNewA)
	require.Equal(t, idA, finalA)

	idB := tbl.allocate()
	finalB, isNewB := tbl.finalize(idB, def, true)
	require.False(t, isNewB, "structurally identical definition should collapse onto the first id")
	require.Equal(t, finalA, finalB)
}

func TestTypeTableFinalizeSkipsCanonicalizationForCyclicTypes(t *testing.T) {
	tbl := newTypeTable()
	def := TypeDefinition{Kind: KindStruct, Fields: []FieldDef{{Name: "X", Id: IntId}}}

	idA := tbl.allocate()
	finalA, _ := tbl.finalize(idA, def, true)

	idB := tbl.allocate()
	finalB, isNewB := tbl.finalize(idB, def, false)
	require.True(t, isNewB)
	require.NotEqual(t, finalA, finalB)
}

func TestRegistrationWalkerRegistersStructFieldsInOrder(t *testing.T) {
	type Point struct {
		X, Y, Z int64
	}
	tbl := newTypeTable()
	w := newRegistrationWalker(tbl)

	id := w.register(reflect.TypeOf(Point{}))
	def, ok := tbl.Lookup(id)
	require.True(t, ok)
	require.Equal(t, KindStruct, def.Kind)
	require.Equal(t, []string{"X", "Y", "Z"}, fieldNames(def))

	pending := w.drainPending()
	require.Len(t, pending, 1)
	require.Equal(t, id, pending[0])
}

func TestRegistrationWalkerHandlesSelfReferentialStruct(t *testing.T) {
	type Node struct {
		Value int64
		Next  *Node
	}
	tbl := newTypeTable()
	w := newRegistrationWalker(tbl)

	id := w.register(reflect.TypeOf(Node{}))
	def, ok := tbl.Lookup(id)
	require.True(t, ok)
	require.Equal(t, KindStruct, def.Kind)
	require.Equal(t, id, def.Fields[1].Id, "Next should resolve back to Node's own id")
}

func fieldNames(def TypeDefinition) []string {
	names := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		names[i] = f.Name
	}
	return names
}
