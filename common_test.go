package bindata

import (
	"encoding/json"
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/pmezard/go-difflib/difflib"
	assert "github.com/stretchr/testify/assert"
)

func dict() *ordereddict.Dict {
	return ordereddict.NewDict()
}

func mustValue(t *testing.T, registry *Registry,
	type_name string, endian Endian, options *ordereddict.Dict) Node {
	node, err := registry.NewValue(type_name, endian, options)
	assert.NoError(t, err)
	return node
}

func mustRead(t *testing.T, node Node, data []byte) *Stream {
	stream := NewStreamFromBytes(data)
	err := node.Read(stream)
	assert.NoError(t, err)
	return stream
}

func mustSnapshot(t *testing.T, node Node) interface{} {
	snapshot, err := node.Snapshot()
	assert.NoError(t, err)
	return snapshot
}

func mustBinary(t *testing.T, node Node) []byte {
	data, err := node.ToBinary()
	assert.NoError(t, err)
	return data
}

func structField(t *testing.T, node Node, name string) Node {
	record, ok := node.(*Struct)
	assert.True(t, ok)
	child, err := record.Get(name)
	assert.NoError(t, err)
	return child
}

func fieldValue(t *testing.T, node Node, name string) interface{} {
	return mustSnapshot(t, structField(t, node, name))
}

// assertJSONEqual compares two values through their JSON projection
// and prints a unified diff on mismatch.
func assertJSONEqual(t *testing.T, expected, actual interface{}) {
	expected_json, err := json.MarshalIndent(expected, "", " ")
	assert.NoError(t, err)

	actual_json, err := json.MarshalIndent(actual, "", " ")
	assert.NoError(t, err)

	if string(expected_json) == string(actual_json) {
		return
	}

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expected_json)),
		B:        difflib.SplitLines(string(actual_json)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	t.Errorf("JSON mismatch:\n%v", diff)
}
