package bindata

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// Codec is the wire contract a concrete primitive kind plugs into the
// engine: decode bytes from a stream, encode a value back, supply the
// default for the clear state, and report the encoded size. The codec
// receives the owning node so parameters like :length resolve in the
// right context.
type Codec interface {
	TypeName() string
	Decode(p *Primitive, io *Stream) (interface{}, error)
	Encode(p *Primitive, io *Stream, value interface{}) error
	Default() interface{}
	SizeBits(p *Primitive, value interface{}) (int64, error)
}

// Codecs that accept parameters beyond the standard primitive surface
// declare them through this interface.
type codec_parameters interface {
	CodecParameters(accepted *AcceptedParameters)
}

// Codecs with their own sanitize time validation.
type codec_sanitizer interface {
	SanitizeCodec(sanitizer *Sanitizer, params *SanitizedParameters) error
}

// Codecs that canonicalize assigned values, so snapshots are type
// stable regardless of what numeric type the caller handed in.
type codec_normalizer interface {
	Normalize(value interface{}) (interface{}, error)
}

// The parameter surface every primitive carries.
func standardPrimitiveParameters() *AcceptedParameters {
	result := NewAcceptedParameters()
	result.Optional("initial_value", "value", "check_value", "onlyif",
		"check_offset", "adjust_offset")
	result.MutuallyExclusive("initial_value", "value")
	result.MutuallyExclusive("check_offset", "adjust_offset")
	return result
}

type primitiveFactory struct {
	type_name string
	codec     Codec
	accepted  *AcceptedParameters
}

func newPrimitiveFactory(type_name string, codec Codec) *primitiveFactory {
	accepted := standardPrimitiveParameters()

	extra, ok := codec.(codec_parameters)
	if ok {
		extra.CodecParameters(accepted)
	}

	return &primitiveFactory{
		type_name: type_name,
		codec:     codec,
		accepted:  accepted,
	}
}

func (self *primitiveFactory) TypeName() string {
	return self.type_name
}

func (self *primitiveFactory) AcceptedParameters() *AcceptedParameters {
	return self.accepted
}

func (self *primitiveFactory) Sanitize(
	sanitizer *Sanitizer, params *SanitizedParameters) error {
	hook, ok := self.codec.(codec_sanitizer)
	if ok {
		return hook.SanitizeCodec(sanitizer, params)
	}
	return nil
}

func (self *primitiveFactory) Instantiate(
	proto *Prototype, parent Node) (Node, error) {

	result := &Primitive{codec: self.codec}
	result.init(result, proto, parent)
	return result, nil
}

// Primitive is a leaf node owning one scalar value. Its wire format
// is delegated to the injected codec.
type Primitive struct {
	base

	codec Codec

	value interface{}
	dirty bool
}

func (self *Primitive) Codec() Codec {
	return self.codec
}

func (self *Primitive) Clear() {
	self.value = nil
	self.dirty = false
}

func (self *Primitive) IsClear() bool {
	return !self.dirty
}

// Snapshot returns the current value: the computed :value if one is
// bound, the assigned or decoded value when mutated, otherwise
// :initial_value or the codec default.
func (self *Primitive) Snapshot() (interface{}, error) {
	if self.Params().Has("value") {
		// During a read cycle a computed field exposes its decoded
		// value, so a length field can drive later siblings while
		// they are still being read.
		if self.dirty && tree_reading(self) {
			return self.value, nil
		}

		bound, _, err := self.evalParam("value", self.valueOverrides())
		if err != nil {
			return nil, err
		}
		return self.normalize(bound)
	}

	if !self.dirty {
		initial, pres, err := self.evalParam("initial_value", nil)
		if err != nil {
			return nil, err
		}
		if pres {
			return self.normalize(initial)
		}
		return self.codec.Default(), nil
	}

	return self.value, nil
}

// normalize canonicalizes a value through the codec when it knows
// how.
func (self *Primitive) normalize(value interface{}) (interface{}, error) {
	normalizer, ok := self.codec.(codec_normalizer)
	if !ok || IsNil(value) {
		return value, nil
	}
	return normalizer.Normalize(value)
}

// valueOverrides exposes the raw stored value to a computed :value
// expression.
func (self *Primitive) valueOverrides() *ordereddict.Dict {
	if !self.dirty {
		return nil
	}
	return ordereddict.NewDict().Set("raw_value", self.value)
}

// Assign stores a new value. A node bound to a computed :value may
// still be assigned; reads and snapshots overwrite with the computed
// result.
func (self *Primitive) Assign(value interface{}) error {
	if IsNil(value) {
		return fmt.Errorf("%w: cannot assign nil", NilParameterError)
	}

	materialized, err := materialize(value)
	if err != nil {
		return err
	}

	normalized, err := self.normalize(materialized)
	if err != nil {
		return err
	}

	self.value = normalized
	self.dirty = true
	return nil
}

func (self *Primitive) doRead(io *Stream) error {
	value, err := self.codec.Decode(self, io)
	if err != nil {
		return err
	}

	self.value = value
	self.dirty = true
	return nil
}

// doneRead runs the check_value validation against the value just
// decoded. A deferred check sees the decoded value as "value"; a
// boolean result must be true, anything else must compare equal.
func (self *Primitive) doneRead() error {
	check, pres := self.Params().Get("check_value")
	if !pres {
		return nil
	}

	overrides := ordereddict.NewDict().Set("value", self.value)
	expected, err := NewLazyEvaluator(self, overrides).Eval(check)
	if err != nil {
		return err
	}

	ok, is_bool := expected.(bool)
	if is_bool {
		if !ok {
			return fmt.Errorf("%w: check_value failed for %v",
				ValidityError, self.value)
		}
		return nil
	}

	if !values_equal(self.value, expected) {
		return fmt.Errorf("%w: read %v, expected %v",
			ValidityError, self.value, expected)
	}
	return nil
}

func (self *Primitive) doWrite(io *Stream) error {
	value, err := self.Snapshot()
	if err != nil {
		return err
	}
	return self.codec.Encode(self, io, value)
}

func (self *Primitive) numBits() (int64, error) {
	value, err := self.Snapshot()
	if err != nil {
		return 0, err
	}
	return self.codec.SizeBits(self, value)
}

// Value is the plain scalar accessor.
func (self *Primitive) Value() (interface{}, error) {
	return self.Snapshot()
}
