package bindata

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// Byte order of multi byte primitives, and bit order of bit fields.
type Endian int

const (
	UnspecifiedEndian Endian = iota
	LittleEndian
	BigEndian
)

func (self Endian) String() string {
	switch self {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	}
	return "unspecified"
}

func (self Endian) suffix() string {
	switch self {
	case LittleEndian:
		return "le"
	case BigEndian:
		return "be"
	}
	return ""
}

func ParseEndian(v interface{}) (Endian, error) {
	switch t := v.(type) {
	case Endian:
		if t == LittleEndian || t == BigEndian || t == UnspecifiedEndian {
			return t, nil
		}

	case nil:
		return UnspecifiedEndian, nil

	case string, Sym, []byte:
		str, _ := to_string(t)
		switch str {
		case "":
			return UnspecifiedEndian, nil
		case "little", "le":
			return LittleEndian, nil
		case "big", "be":
			return BigEndian, nil
		}
	}

	return UnspecifiedEndian, fmt.Errorf("%w: %v", UnknownEndianError, v)
}

// A Factory knows how to sanitize parameters for one node type and to
// manufacture node instances from a sanitized prototype. Factories are
// created once and reused many times.
type Factory interface {
	TypeName() string

	AcceptedParameters() *AcceptedParameters

	// Custom sanitize hook run between default merging and the
	// mandatory/mutual-exclusion checks. Containers use it to
	// resolve nested type specifications eagerly.
	Sanitize(sanitizer *Sanitizer, params *SanitizedParameters) error

	Instantiate(proto *Prototype, parent Node) (Node, error)
}

// Registry maps type names to factories. An explicit registry value is
// threaded through schema construction instead of hidden process-wide
// state. Registration is only valid during schema declaration.
type Registry struct {
	types   map[string]Factory
	aliases map[string]string
}

func NewRegistry() *Registry {
	result := &Registry{
		types:   make(map[string]Factory),
		aliases: make(map[string]string),
	}
	AddBaseTypes(result)
	return result
}

// NewBareRegistry returns a registry without the built in model.
func NewBareRegistry() *Registry {
	return &Registry{
		types:   make(map[string]Factory),
		aliases: make(map[string]string),
	}
}

func (self *Registry) Register(name string, factory Factory) error {
	err := factory.AcceptedParameters().validate()
	if err != nil {
		return fmt.Errorf("registering %v: %w", name, err)
	}

	self.types[name] = factory
	return nil
}

// AddAlias maps an alternate name (e.g. "unsigned int") onto a
// canonical type name. The alias resolves through the same endian
// rules as the canonical name.
func (self *Registry) AddAlias(alias, canonical string) {
	self.aliases[alias] = canonical
}

// Lookup resolves a type name in an endian context. Names may be fully
// suffixed ("uint16le") or generic ("uint16"), in which case the
// current endian supplies the suffix.
func (self *Registry) Lookup(name string, endian Endian) (Factory, error) {
	canonical, pres := self.aliases[name]
	if pres {
		name = canonical
	}

	factory, pres := self.types[name]
	if pres {
		return factory, nil
	}

	if endian != UnspecifiedEndian {
		factory, pres = self.types[name+endian.suffix()]
		if pres {
			return factory, nil
		}
	}

	return nil, fmt.Errorf("%w: %v (endian %v)", UnknownTypeError, name, endian)
}

// NewValue is a convenience for standalone primitives: it sanitizes
// the options against the named type and instantiates a parentless
// node.
func (self *Registry) NewValue(
	type_name string, endian Endian,
	options *ordereddict.Dict) (Node, error) {

	sanitizer := NewSanitizer(self)
	sanitizer.endian = endian

	proto, err := sanitizer.ResolveType(type_name, options)
	if err != nil {
		return nil, err
	}

	return proto.New()
}
