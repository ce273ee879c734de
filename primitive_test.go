package bindata

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func TestIntegerCodecs(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "uint16", LittleEndian, nil)
	mustRead(t, node, []byte{0x34, 0x12})
	assert.Equal(t, uint64(0x1234), mustSnapshot(t, node))
	assert.Equal(t, []byte{0x34, 0x12}, mustBinary(t, node))

	node = mustValue(t, registry, "uint16be", UnspecifiedEndian, nil)
	mustRead(t, node, []byte{0x12, 0x34})
	assert.Equal(t, uint64(0x1234), mustSnapshot(t, node))

	node = mustValue(t, registry, "int8", UnspecifiedEndian, nil)
	mustRead(t, node, []byte{0xff})
	assert.Equal(t, int64(-1), mustSnapshot(t, node))

	node = mustValue(t, registry, "int32", BigEndian, nil)
	mustRead(t, node, []byte{0xff, 0xff, 0xff, 0xfe})
	assert.Equal(t, int64(-2), mustSnapshot(t, node))

	// C style aliases resolve through the endian context.
	node = mustValue(t, registry, "unsigned long long", LittleEndian, nil)
	mustRead(t, node, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Equal(t, uint64(0x0807060504030201), mustSnapshot(t, node))
}

func TestFloatCodecs(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "float64", LittleEndian, nil)
	assert.NoError(t, node.Assign(3.5))

	encoded := mustBinary(t, node)
	assert.Equal(t, 8, len(encoded))

	other := mustValue(t, registry, "float64le", UnspecifiedEndian, nil)
	mustRead(t, other, encoded)
	assert.Equal(t, 3.5, mustSnapshot(t, other))
}

func TestAssignNormalizes(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "uint8", UnspecifiedEndian, nil)
	assert.NoError(t, node.Assign(7))
	assert.Equal(t, uint64(7), mustSnapshot(t, node))

	// Round trip: decode(encode(v)) == v and the snapshot matches.
	other := mustValue(t, registry, "uint8", UnspecifiedEndian, nil)
	mustRead(t, other, mustBinary(t, node))
	assert.Equal(t, mustSnapshot(t, node), mustSnapshot(t, other))
}

func TestInitialValue(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "uint8", UnspecifiedEndian,
		dict().Set("initial_value", 7))

	assert.True(t, node.IsClear())
	assert.Equal(t, uint64(7), mustSnapshot(t, node))

	assert.NoError(t, node.Assign(9))
	assert.False(t, node.IsClear())
	assert.Equal(t, uint64(9), mustSnapshot(t, node))

	// clear(clear(n)) == clear(n)
	node.Clear()
	node.Clear()
	assert.True(t, node.IsClear())
	assert.Equal(t, uint64(7), mustSnapshot(t, node))
}

func TestAssignIdempotent(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "uint32", LittleEndian, nil)
	assert.NoError(t, node.Assign(12345))
	first := mustBinary(t, node)

	snapshot := mustSnapshot(t, node)
	assert.NoError(t, node.Assign(snapshot))
	assert.Equal(t, first, mustBinary(t, node))
}

func TestCheckValue(t *testing.T) {
	registry := NewRegistry()

	proto := dict().Set("check_value", 5)

	node := mustValue(t, registry, "uint8", UnspecifiedEndian, proto)
	mustRead(t, node, []byte{5})

	node = mustValue(t, registry, "uint8", UnspecifiedEndian, proto)
	err := node.Read(NewStreamFromBytes([]byte{6}))
	assert.Error(t, err)
	assert.ErrorIs(t, err, ValidityError)
}

func TestComputedValue(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "uint8", UnspecifiedEndian,
		dict().Set("value", 5))

	// Reads still consume the stream but the computed value wins.
	stream := mustRead(t, node, []byte{9, 9})
	assert.Equal(t, int64(1), stream.Pos())
	assert.Equal(t, uint64(5), mustSnapshot(t, node))

	// Assignment is permitted but the snapshot stays computed.
	assert.NoError(t, node.Assign(7))
	assert.Equal(t, uint64(5), mustSnapshot(t, node))

	assert.Equal(t, []byte{5}, mustBinary(t, node))
}

func TestNumBytesMatchesEncoding(t *testing.T) {
	registry := NewRegistry()

	for _, type_name := range []string{"uint8", "uint16le", "uint32be", "uint64le"} {
		node := mustValue(t, registry, type_name, UnspecifiedEndian, nil)
		assert.NoError(t, node.Assign(1))

		encoded := mustBinary(t, node)
		size, err := node.NumBytes()
		assert.NoError(t, err)
		assert.Equal(t, int64(len(encoded)), size, type_name)
	}
}

func TestVarintCodecs(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "uleb128", UnspecifiedEndian, nil)
	assert.NoError(t, node.Assign(300))
	assert.Equal(t, []byte{0xac, 0x02}, mustBinary(t, node))

	other := mustValue(t, registry, "uleb128", UnspecifiedEndian, nil)
	mustRead(t, other, []byte{0xac, 0x02})
	assert.Equal(t, uint64(300), mustSnapshot(t, other))

	signed := mustValue(t, registry, "sleb128", UnspecifiedEndian, nil)
	assert.NoError(t, signed.Assign(-2))
	assert.Equal(t, []byte{0x7e}, mustBinary(t, signed))

	signed_read := mustValue(t, registry, "sleb128", UnspecifiedEndian, nil)
	mustRead(t, signed_read, []byte{0x7e})
	assert.Equal(t, int64(-2), mustSnapshot(t, signed_read))
}

func TestUnknownType(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.NewValue("no_such_type", UnspecifiedEndian, nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, UnknownTypeError)

	// Multi byte names need an endian context.
	_, err = registry.NewValue("uint16", UnspecifiedEndian, nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, UnknownTypeError)
}
