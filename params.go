package bindata

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// Sym is a symbolic reference to a binding somewhere on the parent
// chain - a parameter of an ancestor, a previously declared sibling
// field, or a named method on an enclosing record.
type Sym string

// DeferredFunc is a deferred parameter expressed as Go code. It is
// called with the evaluator of the node the parameter belongs to, so
// it can resolve names with the same rules a lambda would.
type DeferredFunc func(ev *LazyEvaluator) (interface{}, error)

// Parameter names that would shadow methods of the lazy evaluator or
// universally available node operations. Accepting them as parameters
// would make symbol resolution ambiguous. "type" is always permitted.
var reserved_parameter_names = map[string]bool{
	"index":       true,
	"parent":      true,
	"offset":      true,
	"rel_offset":  true,
	"num_bytes":   true,
	"read":        true,
	"write":       true,
	"snapshot":    true,
	"assign":      true,
	"clear":       true,
	"inspect":     true,
	"to_binary_s": true,
	"new":         true,
	"eval":        true,
}

func is_reserved_parameter(name string) bool {
	if name == "type" {
		return false
	}
	return reserved_parameter_names[name]
}

// AcceptedParameters is the per class declaration of legal parameter
// kinds. A subclass clones its parent's declaration and accumulates
// additions.
type AcceptedParameters struct {
	mandatory          []string
	optional           []string
	defaults           *ordereddict.Dict
	mutually_exclusive [][2]string
}

func NewAcceptedParameters() *AcceptedParameters {
	return &AcceptedParameters{
		defaults: ordereddict.NewDict(),
	}
}

func (self *AcceptedParameters) Clone() *AcceptedParameters {
	result := NewAcceptedParameters()
	result.mandatory = append(result.mandatory, self.mandatory...)
	result.optional = append(result.optional, self.optional...)
	for _, k := range self.defaults.Keys() {
		v, _ := self.defaults.Get(k)
		result.defaults.Set(k, v)
	}
	result.mutually_exclusive = append(
		result.mutually_exclusive, self.mutually_exclusive...)
	return result
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}

func (self *AcceptedParameters) Mandatory(names ...string) *AcceptedParameters {
	for _, name := range names {
		if !contains(self.mandatory, name) {
			self.mandatory = append(self.mandatory, name)
		}
	}
	return self
}

func (self *AcceptedParameters) Optional(names ...string) *AcceptedParameters {
	for _, name := range names {
		if !contains(self.optional, name) {
			self.optional = append(self.optional, name)
		}
	}
	return self
}

func (self *AcceptedParameters) Default(name string, value interface{}) *AcceptedParameters {
	self.defaults.Set(name, value)
	return self
}

func (self *AcceptedParameters) MutuallyExclusive(a, b string) *AcceptedParameters {
	self.mutually_exclusive = append(self.mutually_exclusive, [2]string{a, b})
	return self
}

// validate runs at registration time. Declaring a reserved name is a
// schema definition error.
func (self *AcceptedParameters) validate() error {
	check := func(names []string) error {
		for _, name := range names {
			if is_reserved_parameter(name) {
				return fmt.Errorf("%w: %v", InvalidNameError, name)
			}
		}
		return nil
	}

	err := check(self.mandatory)
	if err != nil {
		return err
	}

	err = check(self.optional)
	if err != nil {
		return err
	}

	return check(self.defaults.Keys())
}

func (self *AcceptedParameters) is_accepted(name string) bool {
	if contains(self.mandatory, name) || contains(self.optional, name) {
		return true
	}
	_, pres := self.defaults.Get(name)
	return pres
}

// SanitizedParameters is the closed, validated parameter bundle a node
// is constructed from. After sanitization every value is a literal, a
// Sym, a compiled lambda or a DeferredFunc - never nil.
type SanitizedParameters struct {
	params        *ordereddict.Dict
	endian        Endian
	all_sanitized bool
}

func newSanitizedParameters(endian Endian) *SanitizedParameters {
	return &SanitizedParameters{
		params: ordereddict.NewDict(),
		endian: endian,
	}
}

func (self *SanitizedParameters) Get(name string) (interface{}, bool) {
	return self.params.Get(name)
}

func (self *SanitizedParameters) Has(name string) bool {
	_, pres := self.params.Get(name)
	return pres
}

func (self *SanitizedParameters) Set(name string, value interface{}) {
	self.params.Set(name, value)
}

func (self *SanitizedParameters) Keys() []string {
	return self.params.Keys()
}

// Endian is the endian context captured when the bundle was sanitized.
func (self *SanitizedParameters) Endian() Endian {
	return self.endian
}

func (self *SanitizedParameters) AllSanitized() bool {
	return self.all_sanitized
}

// Clone copies the bundle so per use overrides do not mutate a shared
// prototype.
func (self *SanitizedParameters) Clone() *SanitizedParameters {
	result := newSanitizedParameters(self.endian)
	for _, k := range self.params.Keys() {
		v, _ := self.params.Get(k)
		result.params.Set(k, v)
	}
	result.all_sanitized = self.all_sanitized
	return result
}
