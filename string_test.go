package bindata

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func TestStringzRead(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "stringz", UnspecifiedEndian, nil)
	stream := mustRead(t, node,
		[]byte{0x61, 0x62, 0x63, 0x64, 0x00, 0x65, 0x66, 0x67, 0x68})

	assert.Equal(t, "abcd", mustSnapshot(t, node))
	assert.Equal(t, int64(5), stream.Pos())

	size, err := node.NumBytes()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), size)

	assert.Equal(t, []byte{0x61, 0x62, 0x63, 0x64, 0x00}, mustBinary(t, node))
}

func TestStringzMaxLength(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "stringz", UnspecifiedEndian,
		dict().Set("max_length", 4))

	assert.NoError(t, node.Assign("abcdef"))

	// Content truncated so the terminator fits within max_length.
	assert.Equal(t, []byte{0x61, 0x62, 0x63, 0x00}, mustBinary(t, node))

	size, err := node.NumBytes()
	assert.NoError(t, err)
	assert.Equal(t, int64(4), size)
}

func TestStringzInvalidMaxLength(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.NewValue("stringz", UnspecifiedEndian,
		dict().Set("max_length", 0))
	assert.Error(t, err)
	assert.ErrorIs(t, err, ValidityError)
}

func TestStringzShortRead(t *testing.T) {
	registry := NewRegistry()

	// No terminator before end of stream fails rather than
	// truncates.
	node := mustValue(t, registry, "stringz", UnspecifiedEndian, nil)
	err := node.Read(NewStreamFromBytes([]byte{0x61, 0x62}))
	assert.Error(t, err)
	assert.ErrorIs(t, err, EndOfStreamError)
}

func TestStringPadding(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "string", UnspecifiedEndian,
		dict().Set("length", 6).Set("pad_char", "*"))

	assert.NoError(t, node.Assign("ab"))
	assert.Equal(t, []byte("ab****"), mustBinary(t, node))

	size, err := node.NumBytes()
	assert.NoError(t, err)
	assert.Equal(t, int64(6), size)

	// Over long values truncate to the declared length.
	assert.NoError(t, node.Assign("abcdefgh"))
	assert.Equal(t, []byte("abcdef"), mustBinary(t, node))
}

func TestStringTrimPadding(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "string", UnspecifiedEndian,
		dict().Set("length", 6).
			Set("pad_char", "*").
			Set("trim_padding", true))

	mustRead(t, node, []byte("ab****"))
	assert.Equal(t, "ab", mustSnapshot(t, node))
}

func TestStringFixedRead(t *testing.T) {
	registry := NewRegistry()

	node := mustValue(t, registry, "string", UnspecifiedEndian,
		dict().Set("length", 3))

	stream := mustRead(t, node, []byte("hello"))
	assert.Equal(t, "hel", mustSnapshot(t, node))
	assert.Equal(t, int64(3), stream.Pos())
}
