package bindata

import (
	"fmt"
	"strconv"
)

type enumFactory struct {
	accepted *AcceptedParameters
}

func newEnumFactory() *enumFactory {
	accepted := NewAcceptedParameters()
	accepted.Mandatory("type")
	accepted.Optional("choices", "map",
		"onlyif", "check_offset", "adjust_offset")
	accepted.MutuallyExclusive("choices", "map")
	accepted.MutuallyExclusive("check_offset", "adjust_offset")

	return &enumFactory{accepted: accepted}
}

func (self *enumFactory) TypeName() string {
	return "enum"
}

func (self *enumFactory) AcceptedParameters() *AcceptedParameters {
	return self.accepted
}

// Sanitize resolves the underlying integer type and normalizes the
// mapping. Two forms are supported: "choices" maps numbers to names,
// "map" maps names to numbers.
func (self *enumFactory) Sanitize(
	sanitizer *Sanitizer, params *SanitizedParameters) error {

	err := sanitizeWrappedType(sanitizer, params)
	if err != nil {
		return fmt.Errorf("enum: %w", err)
	}

	if params.Has("__mapping") {
		return nil
	}

	mapping := make(map[int64]string)

	choices_value, pres := params.Get("choices")
	if pres {
		choices, err := to_ordereddict_any(choices_value)
		if err != nil {
			return fmt.Errorf("enum requires choices to be a mapping between numbers and names")
		}

		for _, key := range choices.Keys() {
			name_value, _ := choices.Get(key)
			number, err := strconv.ParseInt(key, 0, 64)
			if err != nil {
				return fmt.Errorf("enum requires choices keyed by numbers (not %v)", key)
			}

			name, ok := to_string(name_value)
			if !ok {
				return fmt.Errorf("enum requires choices to be a mapping between numbers and names")
			}
			mapping[number] = name
		}
	}

	map_value, pres := params.Get("map")
	if pres {
		names, err := to_ordereddict_any(map_value)
		if err != nil {
			return fmt.Errorf("enum requires map to be a mapping between names and numbers")
		}

		for _, name := range names.Keys() {
			number_value, _ := names.Get(name)
			number, ok := to_int64(number_value)
			if !ok {
				return fmt.Errorf("enum requires map to be a mapping between names and numbers")
			}
			mapping[number] = name
		}
	}

	reverse := make(map[string]int64)
	for number, name := range mapping {
		reverse[name] = number
	}

	params.Set("__mapping", mapping)
	params.Set("__reverse", reverse)
	return nil
}

func (self *enumFactory) Instantiate(
	proto *Prototype, parent Node) (Node, error) {

	mapping, _ := proto.params.Get("__mapping")
	reverse, _ := proto.params.Get("__reverse")

	result := &Enum{
		mapping: mapping.(map[int64]string),
		reverse: reverse.(map[string]int64),
	}
	result.init(result, proto, parent)

	err := result.wrapPrototype(result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Enum decorates an integer primitive with symbolic names. The
// snapshot is the name when one is mapped, otherwise the hex form of
// the raw value.
type Enum struct {
	Wrapper

	mapping map[int64]string
	reverse map[string]int64
}

func (self *Enum) Snapshot() (interface{}, error) {
	raw, err := self.wrapped.Snapshot()
	if err != nil {
		return nil, err
	}

	value, ok := to_int64(raw)
	if !ok {
		return raw, nil
	}

	name, pres := self.mapping[value]
	if !pres {
		return fmt.Sprintf("%#x", value), nil
	}
	return name, nil
}

// Assign accepts either a mapped name or a raw number.
func (self *Enum) Assign(value interface{}) error {
	materialized, err := materialize(value)
	if err != nil {
		return err
	}

	name, ok := to_string(materialized)
	if ok {
		number, pres := self.reverse[name]
		if pres {
			return self.wrapped.Assign(number)
		}

		parsed, err := strconv.ParseInt(name, 0, 64)
		if err != nil {
			return fmt.Errorf("enum: %v is not a known name", name)
		}
		return self.wrapped.Assign(parsed)
	}

	return self.wrapped.Assign(materialized)
}

// Value exposes the raw integer regardless of mapping.
func (self *Enum) Value() (interface{}, error) {
	return self.wrapped.Snapshot()
}
