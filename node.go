// Implements a declarative binary parsing and serialization system.
package bindata

import (
	"bytes"
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// Node is any declared field instance - the element of the schema
// tree. Containers exclusively own their children; the parent pointer
// is a non owning back reference used only for lookup.
type Node interface {
	Factory() Factory
	Params() *SanitizedParameters
	Parent() Node

	// The shared capability set.
	Read(io *Stream) error
	Write(io *Stream) error
	NumBytes() (int64, error)
	Snapshot() (interface{}, error)
	Assign(value interface{}) error
	Clear()
	IsClear() bool

	Offset() (int64, error)
	RelOffset() (int64, error)
	ToBinary() ([]byte, error)
	Inspect() string

	// Internal traversal hooks driven by the read/write driver.
	setParent(parent Node)
	doRead(io *Stream) error
	doWrite(io *Stream) error
	doneRead() error
	setReading(reading bool)
	isReading() bool

	// Encoded size in bits of the current content. Bit primitives
	// report fractional byte sizes; containers sum them with byte
	// alignment applied at each byte level field.
	numBits() (int64, error)
}

// Containers that can report the offset of a child within themselves.
type offset_container interface {
	offsetOf(child Node) (int64, error)
}

// Containers that resolve names locally (fields and methods) for the
// lazy evaluator.
type local_resolver interface {
	resolveLocal(name string) (interface{}, bool, error)
}

// base carries the state common to all node kinds and implements the
// outer driver entry points. impl points back at the concrete node
// embedding it.
type base struct {
	impl    Node
	proto   *Prototype
	parent  Node
	factory Factory

	// True on the root while a top level read is in progress.
	// Computed :value fields expose their decoded value during the
	// read cycle so length fields can drive later siblings.
	reading bool
}

func (self *base) init(impl Node, proto *Prototype, parent Node) {
	self.impl = impl
	self.proto = proto
	self.parent = parent
	self.factory = proto.factory
}

func (self *base) Factory() Factory {
	return self.factory
}

func (self *base) Params() *SanitizedParameters {
	return self.proto.params
}

func (self *base) Parent() Node {
	return self.parent
}

func (self *base) setParent(parent Node) {
	self.parent = parent
}

func (self *base) doneRead() error {
	return nil
}

func (self *base) setReading(reading bool) {
	self.reading = reading
}

func (self *base) isReading() bool {
	return self.reading
}

// tree_reading reports whether any enclosing node is in the middle of
// a top level read.
func tree_reading(n Node) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.isReading() {
			return true
		}
	}
	return false
}

// Read drives a full read of this node from the stream. The current
// position becomes the origin that check_offset and adjust_offset are
// measured from.
func (self *base) Read(io *Stream) error {
	io.MarkOrigin()
	self.impl.setReading(true)
	err := read_field(self.impl, io)
	self.impl.setReading(false)
	io.DiscardReadBits()
	return err
}

// Write mirrors Read. Offset parameters are not enforced on write.
func (self *base) Write(io *Stream) error {
	io.MarkOrigin()
	err := write_field(self.impl, io)
	if err != nil {
		return err
	}
	return io.FlushWriteBits()
}

func (self *base) NumBytes() (int64, error) {
	bits, err := self.impl.numBits()
	if err != nil {
		return 0, err
	}
	return (bits + 7) / 8, nil
}

// ToBinary returns the encoded bytes - exactly what Write emits.
func (self *base) ToBinary() ([]byte, error) {
	buf := &bytes.Buffer{}
	err := self.Write(NewStream(buf))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Offset is the byte offset of this node from the root of its tree.
func (self *base) Offset() (int64, error) {
	if self.parent == nil {
		return 0, nil
	}

	parent_offset, err := self.parent.Offset()
	if err != nil {
		return 0, err
	}

	rel, err := self.RelOffset()
	if err != nil {
		return 0, err
	}

	return parent_offset + rel, nil
}

// RelOffset is the offset relative to the immediate parent. At the
// root it equals Offset.
func (self *base) RelOffset() (int64, error) {
	if self.parent == nil {
		return 0, nil
	}

	container, ok := self.parent.(offset_container)
	if !ok {
		return 0, nil
	}

	return container.offsetOf(self.impl)
}

func (self *base) Inspect() string {
	snapshot, err := self.impl.Snapshot()
	if err != nil {
		return fmt.Sprintf("#<%v !%v>", self.factory.TypeName(), err)
	}
	return fmt.Sprintf("#<%v %v>", self.factory.TypeName(),
		StringIndent(snapshot))
}

// evalParam resolves one of this node's own parameters through the
// lazy evaluator.
func (self *base) evalParam(
	name string, overrides *ordereddict.Dict) (interface{}, bool, error) {

	value, pres := self.proto.params.Get(name)
	if !pres {
		return nil, false, nil
	}

	result, err := NewLazyEvaluator(self.impl, overrides).Eval(value)
	if err != nil {
		return nil, true, fmt.Errorf("parameter %v: %w", name, err)
	}
	return result, true, nil
}

func (self *base) evalParamInt(
	name string, overrides *ordereddict.Dict) (int64, bool, error) {

	value, pres, err := self.evalParam(name, overrides)
	if !pres || err != nil {
		return 0, pres, err
	}

	result, ok := to_int64(value)
	if !ok {
		return 0, true, fmt.Errorf("parameter %v: expected an integer, got %T",
			name, value)
	}
	return result, true, nil
}

// field_skipped evaluates :onlyif. A false result removes the field
// from this operation entirely: zero bytes transferred, absent from
// the snapshot, zero contribution to num_bytes.
func field_skipped(n Node) (bool, error) {
	value, pres := n.Params().Get("onlyif")
	if !pres {
		return false, nil
	}

	result, err := NewLazyEvaluator(n, nil).Eval(value)
	if err != nil {
		return false, err
	}
	return !to_bool(result), nil
}

// read_field applies the driver sequence to one node:
//
//  1. Enforce check_offset or perform adjust_offset.
//  2. Clear the node.
//  3. Run the node kind specific read.
//  4. Signal done so check_value style post read validations run.
func read_field(n Node, io *Stream) error {
	skipped, err := field_skipped(n)
	if err != nil || skipped {
		return err
	}

	check, pres := n.Params().Get("check_offset")
	if pres {
		expected, err := eval_int(n, check)
		if err != nil {
			return err
		}
		if io.RelPos() != expected {
			return fmt.Errorf("%w: expected offset %v, at %v",
				OffsetMismatchError, expected, io.RelPos())
		}
	}

	adjust, pres := n.Params().Get("adjust_offset")
	if pres {
		target, err := eval_int(n, adjust)
		if err != nil {
			return err
		}
		if target < 0 {
			return fmt.Errorf("%w: cannot adjust to %v before the read origin",
				OffsetMismatchError, target)
		}
		err = io.Seek(io.Origin() + target)
		if err != nil {
			return fmt.Errorf("%w: %v", OffsetMismatchError, err)
		}
	}

	n.Clear()

	err = n.doRead(io)
	if err != nil {
		return err
	}

	return n.doneRead()
}

// write_field mirrors read_field. Offset checks are not enforced when
// writing.
func write_field(n Node, io *Stream) error {
	skipped, err := field_skipped(n)
	if err != nil || skipped {
		return err
	}

	return n.doWrite(io)
}

func eval_int(n Node, value interface{}) (int64, error) {
	result, err := NewLazyEvaluator(n, nil).Eval(value)
	if err != nil {
		return 0, err
	}

	i, ok := to_int64(result)
	if !ok {
		return 0, fmt.Errorf("expected an integer, got %T", result)
	}
	return i, nil
}

// materialize reduces an assigned value to its snapshot shape when a
// compatible node is assigned instead of a plain value.
func materialize(value interface{}) (interface{}, error) {
	node, ok := value.(Node)
	if ok {
		return node.Snapshot()
	}
	return value, nil
}

func align8(bits int64) int64 {
	return (bits + 7) / 8 * 8
}
