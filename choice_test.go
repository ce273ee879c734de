package bindata

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func taggedUnion(t *testing.T, registry *Registry) *Prototype {
	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "tagged_union",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "tag"},
			{Type: "choice", Name: "body",
				Options: dict().
					Set("selection", ":tag").
					Set("choices", dict().
						Set("1", "uint8").
						Set("2", "uint16le"))},
		},
	})
	assert.NoError(t, err)
	return proto
}

func TestChoiceSelection(t *testing.T) {
	registry := NewRegistry()
	proto := taggedUnion(t, registry)

	node, err := proto.Read([]byte{0x01, 0x07})
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), fieldValue(t, node, "body"))

	node, err = proto.Read([]byte{0x02, 0x34, 0x12})
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x1234), fieldValue(t, node, "body"))
}

func TestChoiceRoundTrip(t *testing.T) {
	registry := NewRegistry()
	proto := taggedUnion(t, registry)

	node, err := proto.New()
	assert.NoError(t, err)
	assert.NoError(t, node.Assign(
		dict().Set("tag", 2).Set("body", 0x1234)))

	assert.Equal(t, []byte{0x02, 0x34, 0x12}, mustBinary(t, node))

	size, err := node.NumBytes()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestChoiceUnknownSelection(t *testing.T) {
	registry := NewRegistry()
	proto := taggedUnion(t, registry)

	_, err := proto.Read([]byte{0x09, 0x07})
	assert.Error(t, err)
	assert.ErrorIs(t, err, UnknownChoiceError)
}

func TestChoiceUnknownTypeInVariants(t *testing.T) {
	registry := NewRegistry()

	// Variant resolution happens at declaration time.
	_, err := registry.NewValue("choice", UnspecifiedEndian,
		dict().
			Set("selection", 1).
			Set("choices", dict().Set("1", "no_such_type")))
	assert.Error(t, err)
	assert.ErrorIs(t, err, UnknownTypeError)
}

func TestChoiceCopyOnChange(t *testing.T) {
	registry := NewRegistry()

	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "migrating",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "sel"},
			{Type: "choice", Name: "body",
				Options: dict().
					Set("selection", ":sel").
					Set("copy_on_change", true).
					Set("choices", dict().
						Set("1", "uint8").
						Set("2", "uint8"))},
		},
	})
	assert.NoError(t, err)

	node, err := proto.New()
	assert.NoError(t, err)

	record := node.(*Struct)
	sel, err := record.Get("sel")
	assert.NoError(t, err)
	body, err := record.Get("body")
	assert.NoError(t, err)

	assert.NoError(t, sel.Assign(1))
	assert.NoError(t, body.Assign(5))
	assert.Equal(t, uint64(5), mustSnapshot(t, body))

	// Switching the selection migrates the previous child's value.
	assert.NoError(t, sel.Assign(2))
	assert.Equal(t, uint64(5), mustSnapshot(t, body))
}

func TestChoiceDefaultVariant(t *testing.T) {
	registry := NewRegistry()

	proto, err := registry.DefineStruct(&RecordSpec{
		Name: "with_default",
		Fields: []*FieldSpec{
			{Type: "uint8", Name: "tag"},
			{Type: "choice", Name: "body",
				Options: dict().
					Set("selection", ":tag").
					Set("choices", dict().
						Set("1", "uint8").
						Set("default", "uint16le"))},
		},
	})
	assert.NoError(t, err)

	node, err := proto.Read([]byte{0x42, 0x34, 0x12})
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x1234), fieldValue(t, node, "body"))
}
