package bindata

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func pascalString(t *testing.T, registry *Registry) *Prototype {
	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "pascal_string",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "len",
				Options: dict().Set("value", "x => x.data.length")},
			{Type: "string", Name: "data",
				Options: dict().Set("read_length", ":len")},
		},
	})
	assert.NoError(t, err)
	return proto
}

func TestPascalStringWrite(t *testing.T) {
	registry := NewRegistry()
	proto := pascalString(t, registry)

	node, err := proto.New()
	assert.NoError(t, err)

	err = node.Assign(dict().Set("data", "hello"))
	assert.NoError(t, err)

	assert.Equal(t,
		[]byte{0x05, 0x68, 0x65, 0x6c, 0x6c, 0x6f},
		mustBinary(t, node))

	assert.Equal(t, uint64(5), fieldValue(t, node, "len"))
}

func TestPascalStringRead(t *testing.T) {
	registry := NewRegistry()
	proto := pascalString(t, registry)

	node, err := proto.New()
	assert.NoError(t, err)

	stream := mustRead(t, node, []byte{0x03, 0x61, 0x62, 0x63, 0xff})

	assert.Equal(t, uint64(3), fieldValue(t, node, "len"))
	assert.Equal(t, "abc", fieldValue(t, node, "data"))
	assert.Equal(t, int64(4), stream.Pos())
}

func TestStructRoundTrip(t *testing.T) {
	registry := NewRegistry()
	proto := pascalString(t, registry)

	node, err := proto.New()
	assert.NoError(t, err)
	assert.NoError(t, node.Assign(dict().Set("data", "roundtrip")))

	other, err := proto.Read(mustBinary(t, node))
	assert.NoError(t, err)

	assertJSONEqual(t, mustSnapshot(t, node), mustSnapshot(t, other))
}

func TestBitPacking(t *testing.T) {
	registry := NewRegistry()

	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "packed",
		Fields: []*FieldSpec{
			{Type: "bit4", Name: "a"},
			{Type: "uint8", Name: "b"},
			{Type: "bit4", Name: "c"},
		},
	})
	assert.NoError(t, err)

	node, err := proto.New()
	assert.NoError(t, err)
	assert.NoError(t, node.Assign(
		dict().Set("a", 1).Set("b", 0x42).Set("c", 2)))

	// a pads out the first byte, b forces byte alignment, c pads
	// the last.
	assert.Equal(t, []byte{0x10, 0x42, 0x20}, mustBinary(t, node))

	size, err := node.NumBytes()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), size)

	other, err := proto.Read([]byte{0x10, 0x42, 0x20})
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), fieldValue(t, other, "a"))
	assert.Equal(t, uint64(0x42), fieldValue(t, other, "b"))
	assert.Equal(t, uint64(2), fieldValue(t, other, "c"))
}

func TestOnlyifMethod(t *testing.T) {
	registry := NewRegistry()

	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "optional_body",
		Methods: map[string]interface{}{
			"include": "x => x.flag != 0",
		},
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "flag"},
			{Type: "stringz", Name: "data",
				Options: dict().Set("onlyif", ":include")},
		},
	})
	assert.NoError(t, err)

	// flag 0: data is absent and contributes nothing.
	node, err := proto.New()
	assert.NoError(t, err)
	assert.NoError(t, node.Assign(dict().Set("flag", 0)))

	snapshot := mustSnapshot(t, node)
	assertJSONEqual(t, dict().Set("flag", 0), snapshot)

	size, err := node.NumBytes()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), size)
	assert.Equal(t, []byte{0x00}, mustBinary(t, node))

	// flag 1: data is read normally.
	other, err := proto.Read([]byte{0x01, 0x68, 0x69, 0x00})
	assert.NoError(t, err)
	assert.Equal(t, "hi", fieldValue(t, other, "data"))

	size, err = other.NumBytes()
	assert.NoError(t, err)
	assert.Equal(t, int64(4), size)
}

func TestStructOffsets(t *testing.T) {
	registry := NewRegistry()

	proto, err := registry.DefineStruct(&RecordSpec{
		Name:   "offsets",
		Endian: "little",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "a"},
			{Type: "uint16", Name: "b"},
			{Type: "stringz", Name: "c"},
		},
	})
	assert.NoError(t, err)

	node, err := proto.New()
	assert.NoError(t, err)
	assert.NoError(t, node.Assign(dict().Set("c", "xy")))

	b := structField(t, node, "b")
	offset, err := b.Offset()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), offset)

	c := structField(t, node, "c")
	offset, err = c.Offset()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), offset)

	rel, err := c.RelOffset()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), rel)

	// The root's offset is zero.
	offset, err = node.Offset()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), offset)
}

func TestNestedStructOffsets(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.DefineStruct(&RecordSpec{
		Name:   "pair",
		Endian: "little",
		Fields: []*FieldSpec{
			{Type: "uint16", Name: "x"},
			{Type: "uint16", Name: "y"},
		},
	})
	assert.NoError(t, err)

	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "outer",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "tag"},
			{Type: "pair", Name: "point"},
		},
	})
	assert.NoError(t, err)

	node, err := proto.Read([]byte{0x07, 0x01, 0x00, 0x02, 0x00})
	assert.NoError(t, err)

	point := structField(t, node, "point")
	assert.Equal(t, uint64(1), fieldValue(t, point, "x"))
	assert.Equal(t, uint64(2), fieldValue(t, point, "y"))

	y := structField(t, point, "y")
	offset, err := y.Offset()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), offset)

	rel, err := y.RelOffset()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), rel)
}

func TestEndianCascade(t *testing.T) {
	registry := NewRegistry()

	proto, err := registry.DefineStruct(&RecordSpec{
		Name:   "big_header",
		Endian: "big",
		Fields: []*FieldSpec{
			{Type: "uint16", Name: "magic"},
		},
	})
	assert.NoError(t, err)

	node, err := proto.Read([]byte{0x12, 0x34})
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x1234), fieldValue(t, node, "magic"))
}

func TestHiddenFields(t *testing.T) {
	registry := NewRegistry()

	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "with_hidden",
		Hide: []string{"reserved"},
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "visible"},
			{Type: "uint8", Name: "reserved"},
		},
	})
	assert.NoError(t, err)

	node, err := proto.Read([]byte{0x01, 0x02})
	assert.NoError(t, err)

	record := node.(*Struct)
	assert.Equal(t, []string{"visible"}, record.FieldNames())

	// Hidden fields are still read, written and reachable by name.
	assert.Equal(t, uint64(2), fieldValue(t, node, "reserved"))
	assert.Equal(t, []byte{0x01, 0x02}, mustBinary(t, node))

	assertJSONEqual(t, dict().Set("visible", 1), mustSnapshot(t, node))
}

func TestCheckOffset(t *testing.T) {
	registry := NewRegistry()

	bad, err := registry.DefineStruct(&RecordSpec{
		Name: "bad_offset",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "a"},
			{Type: "uint8", Name: "b",
				Options: dict().Set("check_offset", 2)},
		},
	})
	assert.NoError(t, err)

	_, err = bad.Read([]byte{1, 2, 3})
	assert.Error(t, err)
	assert.ErrorIs(t, err, OffsetMismatchError)

	good, err := registry.DefineStruct(&RecordSpec{
		Name: "good_offset",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "a"},
			{Type: "uint8", Name: "b",
				Options: dict().Set("check_offset", 1)},
		},
	})
	assert.NoError(t, err)

	node, err := good.Read([]byte{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), fieldValue(t, node, "b"))
}

func TestAdjustOffset(t *testing.T) {
	registry := NewRegistry()

	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "adjusted",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "a"},
			{Type: "uint8", Name: "b",
				Options: dict().Set("adjust_offset", 3)},
		},
	})
	assert.NoError(t, err)

	node, err := proto.Read([]byte{0, 1, 2, 3, 4})
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), fieldValue(t, node, "a"))
	assert.Equal(t, uint64(3), fieldValue(t, node, "b"))
}

func TestDuplicateFieldName(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.DefineStruct(&RecordSpec{
		Name: "dup",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "a"},
			{Type: "uint8", Name: "a"},
		},
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, DuplicateFieldError)
}

func TestReservedFieldName(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.DefineStruct(&RecordSpec{
		Name: "reserved",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "offset"},
		},
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, ReservedNameError)
}
