package bindata

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

type choiceFactory struct {
	accepted *AcceptedParameters
}

func newChoiceFactory() *choiceFactory {
	accepted := NewAcceptedParameters()
	accepted.Mandatory("choices", "selection")
	accepted.Optional("copy_on_change",
		"onlyif", "check_offset", "adjust_offset")
	accepted.MutuallyExclusive("check_offset", "adjust_offset")

	return &choiceFactory{accepted: accepted}
}

func (self *choiceFactory) TypeName() string {
	return "choice"
}

func (self *choiceFactory) AcceptedParameters() *AcceptedParameters {
	return self.accepted
}

// Sanitize resolves every variant's type specification eagerly so an
// unknown type fails at declaration time, not at first selection.
func (self *choiceFactory) Sanitize(
	sanitizer *Sanitizer, params *SanitizedParameters) error {

	if params.Has("__choices") {
		return nil
	}

	choices_value, pres := params.Get("choices")
	if !pres {
		return fmt.Errorf("%w: choice requires choices",
			MissingParameterError)
	}

	choices_dict, ok := choices_value.(*ordereddict.Dict)
	if !ok {
		converted, err := to_ordereddict_any(choices_value)
		if err != nil {
			return fmt.Errorf(
				"choice requires choices to be a mapping between selector keys and types")
		}
		choices_dict = converted
	}

	resolved := ordereddict.NewDict()
	for _, key := range choices_dict.Keys() {
		spec, _ := choices_dict.Get(key)
		proto, err := sanitizer.ResolveTypeSpec(spec)
		if err != nil {
			return fmt.Errorf("choice %v: %w", key, err)
		}
		resolved.Set(key, proto)
	}

	params.Set("__choices", resolved)
	return nil
}

func (self *choiceFactory) Instantiate(
	proto *Prototype, parent Node) (Node, error) {

	choices_value, pres := proto.params.Get("__choices")
	if !pres {
		return nil, fmt.Errorf("choice variants were not sanitized")
	}

	result := &Choice{
		choices: choices_value.(*ordereddict.Dict),
		cache:   make(map[string]Node),
	}
	result.init(result, proto, parent)
	return result, nil
}

// Choice is a variant node: one active child selected by the lazily
// evaluated selection parameter. Reads, writes and sizing delegate to
// the instance of the selected prototype. Instances are cached per
// selector key so switching back and forth preserves values.
type Choice struct {
	base

	choices *ordereddict.Dict
	cache   map[string]Node
	current string
	active  bool
}

// selectionKey evaluates the selection parameter and normalizes it to
// the string form variant keys are stored under.
func (self *Choice) selectionKey() (string, error) {
	value, pres, err := self.evalParam("selection", nil)
	if err != nil {
		return "", err
	}
	if !pres || IsNil(value) {
		return "", fmt.Errorf("%w: no selection", UnknownChoiceError)
	}

	i, ok := to_int64(value)
	if ok {
		return fmt.Sprintf("%d", i), nil
	}
	return fmt.Sprintf("%v", value), nil
}

// ActiveChild resolves the selection to its live child instance,
// applying copy_on_change migration when the selection moved.
func (self *Choice) ActiveChild() (Node, error) {
	key, err := self.selectionKey()
	if err != nil {
		return nil, err
	}

	proto_value, pres := self.choices.Get(key)
	if !pres {
		proto_value, pres = self.choices.Get("default")
		if !pres {
			return nil, fmt.Errorf("%w: %v", UnknownChoiceError, key)
		}
	}

	child, pres := self.cache[key]
	if !pres {
		child, err = proto_value.(*Prototype).Instantiate(self)
		if err != nil {
			return nil, err
		}
		self.cache[key] = child
	}

	if self.active && key != self.current {
		copy_flag, _, err := self.evalParam("copy_on_change", nil)
		if err != nil {
			return nil, err
		}
		if to_bool(copy_flag) {
			previous := self.cache[self.current]
			if previous != nil && !previous.IsClear() {
				snapshot, err := previous.Snapshot()
				if err == nil {
					// Shape compatible fields migrate; anything
					// else keeps the new child's own state.
					_ = child.Assign(snapshot)
				}
			}
		}
	}

	self.current = key
	self.active = true
	return child, nil
}

func (self *Choice) doRead(io *Stream) error {
	child, err := self.ActiveChild()
	if err != nil {
		return err
	}
	return read_field(child, io)
}

func (self *Choice) doWrite(io *Stream) error {
	child, err := self.ActiveChild()
	if err != nil {
		return err
	}
	return write_field(child, io)
}

func (self *Choice) numBits() (int64, error) {
	child, err := self.ActiveChild()
	if err != nil {
		return 0, err
	}

	skipped, err := field_skipped(child)
	if err != nil {
		return 0, err
	}
	if skipped {
		return 0, nil
	}

	return child.numBits()
}

func (self *Choice) Snapshot() (interface{}, error) {
	child, err := self.ActiveChild()
	if err != nil {
		return nil, err
	}
	return child.Snapshot()
}

func (self *Choice) Assign(value interface{}) error {
	child, err := self.ActiveChild()
	if err != nil {
		return err
	}
	return child.Assign(value)
}

func (self *Choice) Clear() {
	for _, child := range self.cache {
		child.Clear()
	}
}

func (self *Choice) IsClear() bool {
	for _, child := range self.cache {
		if !child.IsClear() {
			return false
		}
	}
	return true
}

// offsetOf: the active child starts where the choice starts.
func (self *Choice) offsetOf(child Node) (int64, error) {
	return 0, nil
}
