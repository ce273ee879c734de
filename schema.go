package bindata

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// FieldSpec declares one field of a record: a registered type name,
// the field name, and optional parameters.
type FieldSpec struct {
	Type    string
	Name    string
	Options *ordereddict.Dict
}

// RecordSpec declares a record type: ordered fields, an optional
// endian cascade, hidden field names, and named helper methods
// reachable from deferred parameter expressions.
type RecordSpec struct {
	Name    string
	Endian  string
	Hide    []string
	Methods map[string]interface{}
	Fields  []*FieldSpec
}

// DefineStruct sanitizes a record declaration, registers it under its
// name so other declarations can reference it, and returns its
// prototype. Definitions are resolved eagerly: a record must be
// defined before it is referenced.
func (self *Registry) DefineStruct(spec *RecordSpec) (*Prototype, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("record declaration requires a name")
	}

	struct_factory, err := self.Lookup("struct", UnspecifiedEndian)
	if err != nil {
		return nil, err
	}

	params := ordereddict.NewDict().Set("fields", spec.Fields)
	if spec.Endian != "" {
		params.Set("endian", spec.Endian)
	}
	if len(spec.Hide) > 0 {
		params.Set("hide", spec.Hide)
	}
	if len(spec.Methods) > 0 {
		params.Set("methods", spec.Methods)
	}

	sanitizer := NewSanitizer(self)
	sanitized, err := sanitizer.Sanitize(struct_factory, params)
	if err != nil {
		return nil, fmt.Errorf("record %v: %w", spec.Name, err)
	}

	factory := &recordFactory{
		type_name: spec.Name,
		structs:   struct_factory,
		defaults:  sanitized,
	}

	err = self.Register(spec.Name, factory)
	if err != nil {
		return nil, err
	}

	return &Prototype{
		factory:  factory,
		params:   sanitized,
		registry: self,
	}, nil
}

// MustDefineStruct is DefineStruct for static declarations.
func (self *Registry) MustDefineStruct(spec *RecordSpec) *Prototype {
	proto, err := self.DefineStruct(spec)
	if err != nil {
		panic(err)
	}
	return proto
}

// recordFactory is a named record: the generic struct factory frozen
// with a sanitized declaration. Per use parameters (onlyif, offsets)
// merge over the declaration.
type recordFactory struct {
	type_name string
	structs   Factory
	defaults  *SanitizedParameters
}

func (self *recordFactory) TypeName() string {
	return self.type_name
}

func (self *recordFactory) AcceptedParameters() *AcceptedParameters {
	return self.structs.AcceptedParameters()
}

func (self *recordFactory) Sanitize(
	sanitizer *Sanitizer, params *SanitizedParameters) error {

	for _, name := range self.defaults.Keys() {
		if !params.Has(name) {
			value, _ := self.defaults.Get(name)
			params.Set(name, value)
		}
	}
	return nil
}

func (self *recordFactory) Instantiate(
	proto *Prototype, parent Node) (Node, error) {
	return self.structs.Instantiate(proto, parent)
}

// to_field_specs normalizes the forms a field list can take: typed
// specs from Go callers, or [type, name, options?] tuples from
// definition files.
func to_field_specs(value interface{}) ([]*FieldSpec, error) {
	switch t := value.(type) {
	case []*FieldSpec:
		return t, nil

	case []interface{}:
		var result []*FieldSpec
		for _, item := range t {
			spec, err := to_field_spec(item)
			if err != nil {
				return nil, err
			}
			result = append(result, spec)
		}
		return result, nil
	}

	return nil, fmt.Errorf("fields should be a list of field declarations, got %T",
		value)
}

func to_field_spec(item interface{}) (*FieldSpec, error) {
	spec, ok := item.(*FieldSpec)
	if ok {
		return spec, nil
	}

	tuple, ok := item.([]interface{})
	if !ok || (len(tuple) != 2 && len(tuple) != 3) {
		return nil, fmt.Errorf(
			"field declaration should be [type, name, options?]: %v", item)
	}

	type_name, ok := to_string(tuple[0])
	if !ok {
		return nil, fmt.Errorf("field type should be a string: %v", tuple[0])
	}

	name, ok := to_string(tuple[1])
	if !ok {
		return nil, fmt.Errorf("field name should be a string: %v", tuple[1])
	}

	result := &FieldSpec{Type: type_name, Name: name}

	if len(tuple) == 3 {
		options, err := to_ordereddict_any(tuple[2])
		if err != nil {
			return nil, fmt.Errorf("field %v options: %w", name, err)
		}
		result.Options = options
	}

	return result, nil
}
