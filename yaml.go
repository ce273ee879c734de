package bindata

import (
	"errors"
	"fmt"

	"github.com/Velocidex/ordereddict"
	"github.com/Velocidex/yaml"
)

// The YAML declaration surface. Each record is a mapping with ordered
// [type, name, options?] field tuples:
//
//	- name: header
//	  endian: little
//	  hide: [reserved]
//	  methods:
//	    has_body: "x => x.flag != 0"
//	  fields:
//	    - [uint8, flag]
//	    - [uint16, len]
//	    - [string, body, {read_length: ":len", onlyif: ":has_body"}]
type record_definition struct {
	Name    string            `yaml:"name"`
	Endian  string            `yaml:"endian"`
	Hide    []string          `yaml:"hide"`
	Methods map[string]string `yaml:"methods"`
	Fields  []interface{}     `yaml:"fields"`
}

// ParseRecordDefinitions builds record types from YAML definitions,
// registering each in declaration order. A record must be declared
// before any later record references it.
func (self *Registry) ParseRecordDefinitions(definitions string) error {
	var parsed []*record_definition

	err := yaml.Unmarshal([]byte(definitions), &parsed)
	if err != nil {
		return err
	}

	for _, definition := range parsed {
		fields, err := to_field_specs(definition.Fields)
		if err != nil {
			return fmt.Errorf("record %v: %w", definition.Name, err)
		}

		var methods map[string]interface{}
		if len(definition.Methods) > 0 {
			methods = make(map[string]interface{})
			for name, body := range definition.Methods {
				methods[name] = body
			}
		}

		_, err = self.DefineStruct(&RecordSpec{
			Name:    definition.Name,
			Endian:  definition.Endian,
			Hide:    definition.Hide,
			Methods: methods,
			Fields:  fields,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// to_ordereddict_any converts the mapping shapes the YAML and Go
// declaration surfaces produce into an ordered dict.
func to_ordereddict_any(value interface{}) (*ordereddict.Dict, error) {
	switch t := value.(type) {
	case *ordereddict.Dict:
		return t, nil

	case map[interface{}]interface{}:
		result := ordereddict.NewDict()
		for k, v := range t {
			name, ok := k.(string)
			if !ok {
				return nil, errors.New("keys should be strings")
			}

			converted, err := convert_nested_value(v)
			if err != nil {
				return nil, err
			}
			result.Set(name, converted)
		}
		return result, nil

	case map[string]interface{}:
		result := ordereddict.NewDict()
		for k, v := range t {
			converted, err := convert_nested_value(v)
			if err != nil {
				return nil, err
			}
			result.Set(k, converted)
		}
		return result, nil
	}

	return nil, fmt.Errorf("expected a mapping, got %T", value)
}

func convert_nested_value(value interface{}) (interface{}, error) {
	switch t := value.(type) {
	case map[interface{}]interface{}, map[string]interface{}:
		return to_ordereddict_any(t)
	}
	return value, nil
}
