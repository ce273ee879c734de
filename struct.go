package bindata

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

type field_decl struct {
	name  string
	proto *Prototype
}

// structFactory is the generic record type. Named records defined via
// DefineStruct or YAML are prototypes of this factory registered
// under their own name.
type structFactory struct {
	accepted *AcceptedParameters
}

func newStructFactory() *structFactory {
	accepted := NewAcceptedParameters()
	accepted.Mandatory("fields")
	accepted.Optional("endian", "hide", "methods",
		"onlyif", "check_offset", "adjust_offset")
	accepted.MutuallyExclusive("check_offset", "adjust_offset")

	return &structFactory{accepted: accepted}
}

func (self *structFactory) TypeName() string {
	return "struct"
}

func (self *structFactory) AcceptedParameters() *AcceptedParameters {
	return self.accepted
}

// Sanitize resolves the field declarations into prototypes under the
// struct's endian context, validates names, and compiles any helper
// methods.
func (self *structFactory) Sanitize(
	sanitizer *Sanitizer, params *SanitizedParameters) error {

	// Already resolved - happens when a named record prototype is
	// re-sanitized with per use options.
	if params.Has("__fields") {
		return nil
	}

	endian := UnspecifiedEndian
	endian_value, pres := params.Get("endian")
	if pres {
		var err error
		endian, err = ParseEndian(endian_value)
		if err != nil {
			return err
		}
	}

	raw_fields, pres := params.Get("fields")
	if !pres {
		return nil
	}

	specs, err := to_field_specs(raw_fields)
	if err != nil {
		return err
	}

	var decls []*field_decl
	seen := make(map[string]bool)

	err = sanitizer.WithEndian(endian, func() error {
		for _, spec := range specs {
			if spec.Name == "" {
				return fmt.Errorf("field of type %v has no name", spec.Type)
			}
			if is_reserved_parameter(spec.Name) {
				return fmt.Errorf("%w: %v", ReservedNameError, spec.Name)
			}
			if seen[spec.Name] {
				return fmt.Errorf("%w: %v", DuplicateFieldError, spec.Name)
			}
			seen[spec.Name] = true

			proto, err := sanitizer.ResolveType(spec.Type, spec.Options)
			if err != nil {
				return fmt.Errorf("field %v: %w", spec.Name, err)
			}

			decls = append(decls, &field_decl{
				name:  spec.Name,
				proto: proto,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	params.Set("__fields", decls)

	hide, pres := params.Get("hide")
	if pres {
		names, err := to_string_list(hide)
		if err != nil {
			return fmt.Errorf("hide: %w", err)
		}
		for _, name := range names {
			if !seen[name] {
				return fmt.Errorf("hide: %v is not a field", name)
			}
		}
		params.Set("__hide", names)
	}

	methods, pres := params.Get("methods")
	if pres {
		compiled, err := compile_methods(sanitizer, methods)
		if err != nil {
			return err
		}
		params.Set("__methods", compiled)
	}

	return nil
}

func (self *structFactory) Instantiate(
	proto *Prototype, parent Node) (Node, error) {

	result := &Struct{
		hide:    make(map[string]bool),
		by_name: make(map[string]int),
		methods: ordereddict.NewDict(),
	}
	result.init(result, proto, parent)

	decls_value, pres := proto.params.Get("__fields")
	if !pres {
		return nil, fmt.Errorf("%w: struct requires fields",
			MissingParameterError)
	}
	decls, ok := decls_value.([]*field_decl)
	if !ok {
		return nil, fmt.Errorf("struct fields were not sanitized")
	}
	result.decls = decls

	hide_value, pres := proto.params.Get("__hide")
	if pres {
		for _, name := range hide_value.([]string) {
			result.hide[name] = true
		}
	}

	methods_value, pres := proto.params.Get("__methods")
	if pres {
		result.methods = methods_value.(*ordereddict.Dict)
	}

	// Children are created eagerly; inserting a node into a
	// container transfers parenthood exclusively.
	for idx, decl := range decls {
		child, err := decl.proto.Instantiate(result)
		if err != nil {
			return nil, fmt.Errorf("field %v: %w", decl.name, err)
		}
		result.fields = append(result.fields, child)
		result.by_name[decl.name] = idx
	}

	return result, nil
}

// Struct is an ordered collection of named child nodes. Fields are
// read, written and sized in declaration order.
type Struct struct {
	base

	decls   []*field_decl
	fields  []Node
	by_name map[string]int
	hide    map[string]bool
	methods *ordereddict.Dict
}

// Get returns the child node by field name. Hidden fields are still
// reachable by name.
func (self *Struct) Get(name string) (Node, error) {
	idx, pres := self.by_name[name]
	if !pres {
		return nil, fmt.Errorf("%v has no field %v",
			self.factory.TypeName(), name)
	}
	return self.fields[idx], nil
}

// FieldNames lists the declared, non hidden field names in order.
func (self *Struct) FieldNames() []string {
	var result []string
	for _, decl := range self.decls {
		if !self.hide[decl.name] {
			result = append(result, decl.name)
		}
	}
	return result
}

func (self *Struct) doRead(io *Stream) error {
	for idx, child := range self.fields {
		notifyObserver(io, self.decls[idx].name, child)

		err := read_field(child, io)
		if err != nil {
			return fmt.Errorf("field %v: %w", self.decls[idx].name, err)
		}
	}
	return nil
}

func (self *Struct) doWrite(io *Stream) error {
	for idx, child := range self.fields {
		err := write_field(child, io)
		if err != nil {
			return fmt.Errorf("field %v: %w", self.decls[idx].name, err)
		}
	}
	return nil
}

// numBits sums children in declaration order. Bit fields pack
// adjacently; any byte level field first aligns to the next byte
// boundary. Fields skipped by onlyif contribute nothing.
func (self *Struct) numBits() (int64, error) {
	var total int64

	for _, child := range self.fields {
		skipped, err := field_skipped(child)
		if err != nil {
			return 0, err
		}
		if skipped {
			continue
		}

		bits, err := child.numBits()
		if err != nil {
			return 0, err
		}

		if is_unaligned(child) {
			total += bits
		} else {
			total = align8(total) + bits
		}
	}

	return total, nil
}

// offsetOf is the byte offset of a child within this struct: the
// space consumed by previously declared siblings that pass onlyif.
func (self *Struct) offsetOf(child Node) (int64, error) {
	var total int64

	for _, sibling := range self.fields {
		if sibling == child {
			if !is_unaligned(child) {
				total = align8(total)
			}
			return total / 8, nil
		}

		skipped, err := field_skipped(sibling)
		if err != nil {
			return 0, err
		}
		if skipped {
			continue
		}

		bits, err := sibling.numBits()
		if err != nil {
			return 0, err
		}

		if is_unaligned(sibling) {
			total += bits
		} else {
			total = align8(total) + bits
		}
	}

	return 0, fmt.Errorf("offsetOf: node is not a field of this struct")
}

// Snapshot projects the struct into a plain ordered name to value
// map. Hidden fields and fields skipped by onlyif are omitted.
func (self *Struct) Snapshot() (interface{}, error) {
	result := ordereddict.NewDict()

	for idx, child := range self.fields {
		name := self.decls[idx].name
		if self.hide[name] {
			continue
		}

		skipped, err := field_skipped(child)
		if err != nil {
			return nil, err
		}
		if skipped {
			continue
		}

		value, err := child.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("field %v: %w", name, err)
		}
		result.Set(name, value)
	}

	return result, nil
}

// Assign accepts a snapshot shaped value (an ordered dict or a plain
// map) or a compatible struct node.
func (self *Struct) Assign(value interface{}) error {
	materialized, err := materialize(value)
	if err != nil {
		return err
	}

	self.Clear()

	switch t := materialized.(type) {
	case *ordereddict.Dict:
		for _, name := range t.Keys() {
			item, _ := t.Get(name)
			err := self.assignField(name, item)
			if err != nil {
				return err
			}
		}
		return nil

	case map[string]interface{}:
		// Plain maps have no order; apply in declaration order.
		for _, decl := range self.decls {
			item, pres := t[decl.name]
			if pres {
				err := self.assignField(decl.name, item)
				if err != nil {
					return err
				}
			}
		}
		for name := range t {
			_, pres := self.by_name[name]
			if !pres {
				return fmt.Errorf("assign: %v is not a field", name)
			}
		}
		return nil
	}

	return fmt.Errorf("cannot assign %T to a struct", value)
}

func (self *Struct) assignField(name string, value interface{}) error {
	child, err := self.Get(name)
	if err != nil {
		return err
	}
	return child.Assign(value)
}

func (self *Struct) Clear() {
	for _, child := range self.fields {
		child.Clear()
	}
}

func (self *Struct) IsClear() bool {
	for _, child := range self.fields {
		if !child.IsClear() {
			return false
		}
	}
	return true
}

// resolveLocal serves the lazy evaluator: a name binds to a field's
// value, or to a helper method evaluated in this struct's context.
func (self *Struct) resolveLocal(name string) (interface{}, bool, error) {
	idx, pres := self.by_name[name]
	if pres {
		return element_value(self.fields[idx]), true, nil
	}

	method, pres := self.methods.Get(name)
	if pres {
		result, err := evaluatorIn(self).Eval(method)
		if err != nil {
			return nil, true, err
		}
		return result, true, nil
	}

	return nil, false, nil
}

// is_unaligned reports whether a node is a bit field that packs
// without byte alignment.
func is_unaligned(n Node) bool {
	p, ok := n.(*Primitive)
	if !ok {
		return false
	}
	_, ok = p.codec.(*BitCodec)
	return ok
}

func to_string_list(value interface{}) ([]string, error) {
	switch t := value.(type) {
	case []string:
		return t, nil

	case []interface{}:
		var result []string
		for _, item := range t {
			str, ok := to_string(item)
			if !ok {
				return nil, fmt.Errorf("expected a name, got %T", item)
			}
			result = append(result, str)
		}
		return result, nil
	}
	return nil, fmt.Errorf("expected a list of names, got %T", value)
}

// compile_methods converts a method map into compiled deferred
// values.
func compile_methods(
	sanitizer *Sanitizer, value interface{}) (*ordereddict.Dict, error) {

	result := ordereddict.NewDict()

	add := func(name string, body interface{}) error {
		if IsNil(body) {
			return fmt.Errorf("%w: method %v", NilParameterError, name)
		}
		compiled, err := sanitizer.convertValue(body)
		if err != nil {
			return fmt.Errorf("method %v: %w", name, err)
		}
		result.Set(name, compiled)
		return nil
	}

	switch t := value.(type) {
	case *ordereddict.Dict:
		for _, name := range t.Keys() {
			body, _ := t.Get(name)
			err := add(name, body)
			if err != nil {
				return nil, err
			}
		}
		return result, nil

	case map[string]interface{}:
		for name, body := range t {
			err := add(name, body)
			if err != nil {
				return nil, err
			}
		}
		return result, nil

	case map[string]string:
		for name, body := range t {
			err := add(name, body)
			if err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	return nil, fmt.Errorf("methods should be a mapping, got %T", value)
}
