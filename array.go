package bindata

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

type arrayFactory struct {
	accepted *AcceptedParameters
}

func newArrayFactory() *arrayFactory {
	accepted := NewAcceptedParameters()
	accepted.Mandatory("type")
	accepted.Optional("initial_length", "read_until",
		"onlyif", "check_offset", "adjust_offset")
	accepted.MutuallyExclusive("initial_length", "read_until")
	accepted.MutuallyExclusive("check_offset", "adjust_offset")

	return &arrayFactory{accepted: accepted}
}

func (self *arrayFactory) TypeName() string {
	return "array"
}

func (self *arrayFactory) AcceptedParameters() *AcceptedParameters {
	return self.accepted
}

// Sanitize resolves the element type specification into a prototype
// and verifies exactly one length policy is present.
func (self *arrayFactory) Sanitize(
	sanitizer *Sanitizer, params *SanitizedParameters) error {

	if !params.Has("__prototype") {
		spec, pres := params.Get("type")
		if !pres {
			return fmt.Errorf("%w: array requires a type",
				MissingParameterError)
		}

		proto, err := sanitizer.ResolveTypeSpec(spec)
		if err != nil {
			return err
		}
		params.Set("__prototype", proto)
	}

	if !params.Has("initial_length") && !params.Has("read_until") {
		return fmt.Errorf("%w: array requires initial_length or read_until",
			MissingParameterError)
	}

	return nil
}

func (self *arrayFactory) Instantiate(
	proto *Prototype, parent Node) (Node, error) {

	proto_value, pres := proto.params.Get("__prototype")
	if !pres {
		return nil, fmt.Errorf("array element type was not sanitized")
	}

	result := &Array{
		element: proto_value.(*Prototype),
	}
	result.init(result, proto, parent)

	// A literal initial_length creates the elements up front;
	// deferred lengths can only be evaluated against live data.
	count, pres := proto.params.Get("initial_length")
	if pres {
		literal, ok := to_int64(count)
		if ok {
			result.initial = literal
			err := result.populateInitial()
			if err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// Array is a homogeneous ordered sequence of child nodes manufactured
// from a single element prototype.
type Array struct {
	base

	element  *Prototype
	elements []Node
	initial  int64
}

func (self *Array) populateInitial() error {
	for int64(len(self.elements)) < self.initial {
		_, err := self.newElement()
		if err != nil {
			return err
		}
	}
	return nil
}

func (self *Array) Len() int64 {
	return int64(len(self.elements))
}

func (self *Array) At(idx int64) (Node, error) {
	if idx < 0 || idx >= int64(len(self.elements)) {
		return nil, fmt.Errorf("array index %v out of range (%v elements)",
			idx, len(self.elements))
	}
	return self.elements[idx], nil
}

// IndexOf finds a direct child, or -1.
func (self *Array) IndexOf(child Node) int64 {
	for idx, element := range self.elements {
		if element == child {
			return int64(idx)
		}
	}
	return -1
}

func (self *Array) newElement() (Node, error) {
	element, err := self.element.Instantiate(self)
	if err != nil {
		return nil, err
	}
	self.elements = append(self.elements, element)
	return element, nil
}

// Push appends a new element assigned from value.
func (self *Array) Push(value interface{}) error {
	element, err := self.newElement()
	if err != nil {
		return err
	}
	return element.Assign(value)
}

// SetAt assigns at an index, extending the array with clear elements
// when the index is beyond the current length.
func (self *Array) SetAt(idx int64, value interface{}) error {
	if idx < 0 {
		return fmt.Errorf("array index %v out of range", idx)
	}

	for int64(len(self.elements)) <= idx {
		_, err := self.newElement()
		if err != nil {
			return err
		}
	}

	return self.elements[idx].Assign(value)
}

func (self *Array) doRead(io *Stream) error {
	self.elements = nil

	until, pres := self.Params().Get("read_until")
	if pres {
		return self.readUntil(io, until)
	}

	count, _, err := self.evalParamInt("initial_length", nil)
	if err != nil {
		return err
	}

	for i := int64(0); i < count; i++ {
		element, err := self.newElement()
		if err != nil {
			return err
		}
		err = read_field(element, io)
		if err != nil {
			return err
		}
	}
	return nil
}

// readUntil reads elements while the termination predicate is false.
// The predicate observes each read-complete before it is evaluated,
// and sees index, element and array bindings. The symbol :eof means
// read while the stream has more bytes.
func (self *Array) readUntil(io *Stream, until interface{}) error {
	if is_eof_sentinel(until) {
		for !io.AtEOF() {
			element, err := self.newElement()
			if err != nil {
				return err
			}
			err = read_field(element, io)
			if err != nil {
				return err
			}
		}
		return nil
	}

	for {
		element, err := self.newElement()
		if err != nil {
			return err
		}

		// A predicate that never becomes true reads to stream
		// exhaustion and surfaces the short read.
		err = read_field(element, io)
		if err != nil {
			return err
		}

		done, err := self.evalUntil(until, element)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (self *Array) evalUntil(until interface{}, element Node) (bool, error) {
	values, err := self.Snapshot()
	if err != nil {
		return false, err
	}

	overrides := ordereddict.NewDict().
		Set("index", int64(len(self.elements)-1)).
		Set("element", element_value(element)).
		Set("array", values)

	result, err := NewLazyEvaluator(element, overrides).Eval(until)
	if err != nil {
		return false, err
	}
	return to_bool(result), nil
}

func (self *Array) doWrite(io *Stream) error {
	for _, element := range self.elements {
		err := write_field(element, io)
		if err != nil {
			return err
		}
	}
	return nil
}

func (self *Array) numBits() (int64, error) {
	var total int64

	for _, element := range self.elements {
		bits, err := element.numBits()
		if err != nil {
			return 0, err
		}
		if is_unaligned(element) {
			total += bits
		} else {
			total = align8(total) + bits
		}
	}

	return total, nil
}

func (self *Array) offsetOf(child Node) (int64, error) {
	var total int64

	for _, element := range self.elements {
		if element == child {
			if !is_unaligned(child) {
				total = align8(total)
			}
			return total / 8, nil
		}

		bits, err := element.numBits()
		if err != nil {
			return 0, err
		}
		if is_unaligned(element) {
			total += bits
		} else {
			total = align8(total) + bits
		}
	}

	return 0, fmt.Errorf("offsetOf: node is not an element of this array")
}

// Snapshot is the ordered list of element snapshots.
func (self *Array) Snapshot() (interface{}, error) {
	result := make([]interface{}, 0, len(self.elements))

	for _, element := range self.elements {
		value, err := element.Snapshot()
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}

	return result, nil
}

// Assign replaces the contents from a list of snapshot shaped values
// or a compatible array node.
func (self *Array) Assign(value interface{}) error {
	materialized, err := materialize(value)
	if err != nil {
		return err
	}

	items, ok := materialized.([]interface{})
	if !ok {
		return fmt.Errorf("cannot assign %T to an array", value)
	}

	self.elements = nil
	for _, item := range items {
		err := self.Push(item)
		if err != nil {
			return err
		}
	}
	return nil
}

// Clear returns to the initial state: empty for read_until arrays, a
// run of clear elements for a literal initial_length.
func (self *Array) Clear() {
	self.elements = nil
	_ = self.populateInitial()
}

func (self *Array) IsClear() bool {
	for _, element := range self.elements {
		if !element.IsClear() {
			return false
		}
	}
	return true
}

func is_eof_sentinel(value interface{}) bool {
	switch t := value.(type) {
	case Sym:
		return string(t) == "eof"
	case string:
		return t == "eof" || t == ":eof"
	}
	return false
}
