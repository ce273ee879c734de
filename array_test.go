package bindata

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func TestArrayReadUntilEOF(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "array", UnspecifiedEndian,
		dict().Set("type", "int8").Set("read_until", ":eof"))

	mustRead(t, node, []byte{2, 3, 4, 5, 6, 7})

	assert.Equal(t,
		[]interface{}{int64(2), int64(3), int64(4), int64(5), int64(6), int64(7)},
		mustSnapshot(t, node))
}

func TestArrayInitialLength(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "array", UnspecifiedEndian,
		dict().Set("type", "uint8").Set("initial_length", 3))

	// Elements exist up front in the clear state.
	array := node.(*Array)
	assert.Equal(t, int64(3), array.Len())
	assert.True(t, node.IsClear())

	size, err := node.NumBytes()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), size)

	mustRead(t, node, []byte{1, 2, 3})
	assert.Equal(t,
		[]interface{}{uint64(1), uint64(2), uint64(3)},
		mustSnapshot(t, node))
}

func TestArrayDeferredLength(t *testing.T) {
	registry := NewRegistry()

	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "counted",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "count"},
			{Type: "array", Name: "items",
				Options: dict().
					Set("type", "uint8").
					Set("initial_length", ":count")},
		},
	})
	assert.NoError(t, err)

	node, err := proto.Read([]byte{0x02, 0xaa, 0xbb, 0xcc})
	assert.NoError(t, err)

	assert.Equal(t,
		[]interface{}{uint64(0xaa), uint64(0xbb)},
		fieldValue(t, node, "items"))
}

func TestArrayReadUntilPredicate(t *testing.T) {
	registry := NewRegistry()

	// Terminate once a zero element has been read; the sentinel is
	// part of the array.
	until := DeferredFunc(func(ev *LazyEvaluator) (interface{}, error) {
		element, err := ev.ResolveName("element")
		if err != nil {
			return nil, err
		}
		value, _ := to_int64(element)
		return value == 0, nil
	})

	node := mustValue(t, registry, "array", UnspecifiedEndian,
		dict().Set("type", "uint8").Set("read_until", until))

	stream := mustRead(t, node, []byte{1, 2, 0, 9})

	assert.Equal(t,
		[]interface{}{uint64(1), uint64(2), uint64(0)},
		mustSnapshot(t, node))
	assert.Equal(t, int64(3), stream.Pos())
}

func TestArrayReadUntilExhaustsStream(t *testing.T) {
	registry := NewRegistry()

	never := DeferredFunc(func(ev *LazyEvaluator) (interface{}, error) {
		return false, nil
	})

	node := mustValue(t, registry, "array", UnspecifiedEndian,
		dict().Set("type", "uint8").Set("read_until", never))

	err := node.Read(NewStreamFromBytes([]byte{1, 2, 3}))
	assert.Error(t, err)
	assert.ErrorIs(t, err, EndOfStreamError)
}

func TestArrayGrowth(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "array", UnspecifiedEndian,
		dict().Set("type", "uint8").Set("initial_length", 1))

	array := node.(*Array)

	// Indexed assignment beyond the end extends with clear
	// elements.
	assert.NoError(t, array.SetAt(3, 7))
	assert.Equal(t, int64(4), array.Len())

	assert.Equal(t,
		[]interface{}{uint64(0), uint64(0), uint64(0), uint64(7)},
		mustSnapshot(t, node))

	assert.NoError(t, array.Push(9))
	assert.Equal(t, int64(5), array.Len())
}

func TestArrayAssign(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "array", UnspecifiedEndian,
		dict().Set("type", "uint8").Set("initial_length", 0))

	assert.NoError(t, node.Assign([]interface{}{1, 2, 3}))
	assert.Equal(t, []byte{1, 2, 3}, mustBinary(t, node))

	// Round trip through a fresh instance.
	other := mustValue(t, registry, "array", UnspecifiedEndian,
		dict().Set("type", "uint8").Set("read_until", ":eof"))
	mustRead(t, other, mustBinary(t, node))
	assertJSONEqual(t, mustSnapshot(t, node), mustSnapshot(t, other))
}

func TestArrayLengthPolicies(t *testing.T) {
	registry := NewRegistry()

	// Both policies at once is an error.
	_, err := registry.NewValue("array", UnspecifiedEndian,
		dict().Set("type", "uint8").
			Set("initial_length", 1).
			Set("read_until", ":eof"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, MutualExclusionError)

	// So is neither.
	_, err = registry.NewValue("array", UnspecifiedEndian,
		dict().Set("type", "uint8"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, MissingParameterError)
}

func TestArrayOfStructs(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.DefineStruct(&RecordSpec{
		Name:   "entry",
		Endian: "little",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "id"},
			{Type: "uint16", Name: "score"},
		},
	})
	assert.NoError(t, err)

	node := mustValue(t, registry, "array", UnspecifiedEndian,
		dict().Set("type", "entry").Set("read_until", ":eof"))

	mustRead(t, node, []byte{
		0x01, 0x10, 0x00,
		0x02, 0x20, 0x00,
	})

	array := node.(*Array)
	assert.Equal(t, int64(2), array.Len())

	second, err := array.At(1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x20), fieldValue(t, second, "score"))

	// Element index resolves through the lazy evaluator.
	ev := NewLazyEvaluator(structField(t, second, "id"), nil)
	index, err := ev.Index()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), index)
}
