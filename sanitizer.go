package bindata

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/vfilter"
)

var (
	lambdaRegex = regexp.MustCompile("^[a-zA-Z0-9_]+ *=>")
)

// Does a string parameter value look like a lambda expression?
func isValueLambda(value interface{}) bool {
	str, ok := value.(string)
	if !ok {
		return false
	}

	return lambdaRegex.MatchString(str)
}

// Sanitizer validates and normalizes user parameters against a
// factory's declarations. It threads the current endian context
// through nested type resolutions.
type Sanitizer struct {
	registry *Registry
	endian   Endian
}

func NewSanitizer(registry *Registry) *Sanitizer {
	return &Sanitizer{registry: registry}
}

func (self *Sanitizer) Endian() Endian {
	return self.endian
}

// WithEndian pushes a new endian context, runs fn, and restores the
// previous context on every exit path.
func (self *Sanitizer) WithEndian(endian Endian, fn func() error) error {
	if endian == UnspecifiedEndian {
		return fn()
	}

	if endian != LittleEndian && endian != BigEndian {
		return fmt.Errorf("%w: %v", UnknownEndianError, endian)
	}

	saved := self.endian
	self.endian = endian
	defer func() {
		self.endian = saved
	}()

	return fn()
}

// Sanitize runs the full pass over raw user parameters:
//
//  1. Reject nil valued entries.
//  2. Merge declared defaults for missing names.
//  3. Run the factory's custom sanitize hook.
//  4. Verify mandatory names are present.
//  5. Verify no mutually exclusive pair is co-present.
//
// String values that look like lambdas are compiled here so syntax
// errors surface at declaration time, and ":name" strings become
// symbolic references.
func (self *Sanitizer) Sanitize(
	factory Factory, raw *ordereddict.Dict) (*SanitizedParameters, error) {

	accepted := factory.AcceptedParameters()

	err := accepted.validate()
	if err != nil {
		return nil, err
	}

	result := newSanitizedParameters(self.endian)

	if raw != nil {
		for _, name := range raw.Keys() {
			value, _ := raw.Get(name)
			if IsNil(value) {
				return nil, fmt.Errorf("%w: %v", NilParameterError, name)
			}

			converted, err := self.convertValue(value)
			if err != nil {
				return nil, fmt.Errorf("parameter %v: %w", name, err)
			}
			result.Set(name, converted)
		}
	}

	// Defaults apply iff the user omitted the name.
	for _, name := range accepted.defaults.Keys() {
		if !result.Has(name) {
			value, _ := accepted.defaults.Get(name)
			converted, err := self.convertValue(value)
			if err != nil {
				return nil, fmt.Errorf("default %v: %w", name, err)
			}
			result.Set(name, converted)
		}
	}

	err = factory.Sanitize(self, result)
	if err != nil {
		return nil, err
	}

	for _, name := range accepted.mandatory {
		if !result.Has(name) {
			return nil, fmt.Errorf("%w: %v requires %v",
				MissingParameterError, factory.TypeName(), name)
		}
	}

	for _, pair := range accepted.mutually_exclusive {
		if result.Has(pair[0]) && result.Has(pair[1]) {
			return nil, fmt.Errorf("%w: %v and %v",
				MutualExclusionError, pair[0], pair[1])
		}
	}

	// Anything the factory did not consume and the declaration does
	// not accept is a caller error. Internal keys are prefixed with
	// "__" by sanitize hooks.
	for _, name := range result.Keys() {
		if strings.HasPrefix(name, "__") {
			continue
		}
		if !accepted.is_accepted(name) {
			return nil, fmt.Errorf("%w: %v does not accept %v",
				UnknownParameterError, factory.TypeName(), name)
		}
	}

	result.all_sanitized = true
	return result, nil
}

// convertValue rewrites the textual forms of deferred values into
// their compiled representation.
func (self *Sanitizer) convertValue(value interface{}) (interface{}, error) {
	str, ok := value.(string)
	if !ok {
		return value, nil
	}

	if isValueLambda(value) {
		lambda, err := vfilter.ParseLambda(str)
		if err != nil {
			return nil, fmt.Errorf("lambda '%v': %v", str, err)
		}
		return lambda, nil
	}

	if strings.HasPrefix(str, ":") && len(str) > 1 {
		return Sym(str[1:]), nil
	}

	return value, nil
}

// ResolveType turns a type specification into a frozen Prototype. The
// specification is a registered type name plus options; the current
// endian context supplies the suffix for generic names.
func (self *Sanitizer) ResolveType(
	type_name string, options *ordereddict.Dict) (*Prototype, error) {

	factory, err := self.registry.Lookup(type_name, self.endian)
	if err != nil {
		return nil, err
	}

	params, err := self.Sanitize(factory, options)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", type_name, err)
	}

	return &Prototype{
		factory:  factory,
		params:   params,
		registry: self.registry,
	}, nil
}

// ResolveTypeSpec accepts the forms a type specification may take in
// schema definitions: a bare name, a [name, options] pair, a FieldSpec
// or an already resolved Prototype.
func (self *Sanitizer) ResolveTypeSpec(spec interface{}) (*Prototype, error) {
	switch t := spec.(type) {
	case *Prototype:
		return t, nil

	case string:
		return self.ResolveType(t, nil)

	case Sym:
		return self.ResolveType(string(t), nil)

	case []interface{}:
		if len(t) != 1 && len(t) != 2 {
			return nil, fmt.Errorf(
				"type specification should be a name or [name, options]: %v", spec)
		}

		name, ok := to_string(t[0])
		if !ok {
			return nil, fmt.Errorf("type specification name should be a string: %v", t[0])
		}

		var options *ordereddict.Dict
		if len(t) == 2 {
			options, ok = t[1].(*ordereddict.Dict)
			if !ok {
				converted, err := to_ordereddict_any(t[1])
				if err != nil {
					return nil, fmt.Errorf(
						"type specification options should be a mapping: %v", t[1])
				}
				options = converted
			}
		}
		return self.ResolveType(name, options)
	}

	return nil, fmt.Errorf("unsupported type specification %T", spec)
}

// A Prototype is a frozen (factory, sanitized parameters) pair that
// can be repeatedly instantiated with different parents. The
// sanitization result is purely a function of its inputs, so schema
// declarations resolve prototypes once and instantiation is fast
// allocation from a pre-validated skeleton.
type Prototype struct {
	factory  Factory
	params   *SanitizedParameters
	registry *Registry
}

func (self *Prototype) Factory() Factory {
	return self.factory
}

func (self *Prototype) Params() *SanitizedParameters {
	return self.params
}

func (self *Prototype) Instantiate(parent Node) (Node, error) {
	return self.factory.Instantiate(self, parent)
}

// New constructs a parentless instance.
func (self *Prototype) New() (Node, error) {
	return self.Instantiate(nil)
}

// Read is the construct-then-read shortcut. It accepts a byte slice,
// an io.Reader or a Stream.
func (self *Prototype) Read(source interface{}) (Node, error) {
	node, err := self.New()
	if err != nil {
		return nil, err
	}

	stream, err := to_stream(source)
	if err != nil {
		return nil, err
	}

	err = node.Read(stream)
	if err != nil {
		return nil, err
	}
	return node, nil
}

func to_stream(source interface{}) (*Stream, error) {
	switch t := source.(type) {
	case *Stream:
		return t, nil
	case []byte:
		return NewStreamFromBytes(t), nil
	case string:
		return NewStreamFromBytes([]byte(t)), nil
	default:
		return NewStream(source), nil
	}
}
