package bindata

import (
	"fmt"
	"sort"
)

// Accepts a bitmap parameter: name (string) -> bit number.
type flagsFactory struct {
	accepted *AcceptedParameters
}

func newFlagsFactory() *flagsFactory {
	accepted := NewAcceptedParameters()
	accepted.Mandatory("type", "bitmap")
	accepted.Optional("onlyif", "check_offset", "adjust_offset")
	accepted.MutuallyExclusive("check_offset", "adjust_offset")

	return &flagsFactory{accepted: accepted}
}

func (self *flagsFactory) TypeName() string {
	return "flags"
}

func (self *flagsFactory) AcceptedParameters() *AcceptedParameters {
	return self.accepted
}

func (self *flagsFactory) Sanitize(
	sanitizer *Sanitizer, params *SanitizedParameters) error {

	err := sanitizeWrappedType(sanitizer, params)
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	if params.Has("__bitmap") {
		return nil
	}

	bitmap_value, pres := params.Get("bitmap")
	if !pres {
		return fmt.Errorf("%w: flags requires a bitmap", MissingParameterError)
	}

	bitmap_dict, err := to_ordereddict_any(bitmap_value)
	if err != nil {
		return fmt.Errorf("flags requires bitmap to be a mapping between names and bit numbers")
	}

	bitmap := make(map[int64]string)
	var bits []int64

	for _, name := range bitmap_dict.Keys() {
		idx_value, _ := bitmap_dict.Get(name)
		idx, ok := to_int64(idx_value)
		if !ok || idx < 0 || idx >= 64 {
			return fmt.Errorf(
				"flags requires bitmap bit numbers between 0 and 64")
		}

		bitmap[int64(1)<<uint(idx)] = name
		bits = append(bits, int64(1)<<uint(idx))
	}

	params.Set("__bitmap", bitmap)
	params.Set("__bits", bits)
	return nil
}

func (self *flagsFactory) Instantiate(
	proto *Prototype, parent Node) (Node, error) {

	bitmap, _ := proto.params.Get("__bitmap")
	bits, _ := proto.params.Get("__bits")

	result := &Flags{
		bitmap: bitmap.(map[int64]string),
		bits:   bits.([]int64),
	}
	result.init(result, proto, parent)

	err := result.wrapPrototype(result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Flags decorates an integer primitive with a set-of-names view over
// its bits.
type Flags struct {
	Wrapper

	bitmap map[int64]string
	bits   []int64
}

// Snapshot is the sorted list of set flag names, for stable output.
func (self *Flags) Snapshot() (interface{}, error) {
	raw, err := self.wrapped.Snapshot()
	if err != nil {
		return nil, err
	}

	value, ok := to_int64(raw)
	if !ok {
		return nil, fmt.Errorf("flags: underlying value %T is not an integer", raw)
	}

	result := []string{}
	for _, bit := range self.bits {
		if bit&value != 0 {
			result = append(result, self.bitmap[bit])
		}
	}

	sort.Strings(result)
	return result, nil
}

// Assign accepts a list of flag names or a raw integer.
func (self *Flags) Assign(value interface{}) error {
	materialized, err := materialize(value)
	if err != nil {
		return err
	}

	var names []string
	switch t := materialized.(type) {
	case []string:
		names = t

	case []interface{}:
		for _, item := range t {
			name, ok := to_string(item)
			if !ok {
				return fmt.Errorf("flags: cannot assign %T", item)
			}
			names = append(names, name)
		}

	default:
		return self.wrapped.Assign(materialized)
	}

	var result int64
	for _, name := range names {
		found := false
		for bit, bit_name := range self.bitmap {
			if bit_name == name {
				result |= bit
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("flags: %v is not a known flag", name)
		}
	}

	return self.wrapped.Assign(result)
}
