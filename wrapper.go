package bindata

import "fmt"

// Wrapper is the base for node kinds that decorate a single wrapped
// node: the whole capability set delegates to the wrapped instance,
// and decorators override the projection methods they care about
// (typically Snapshot and Assign).
type Wrapper struct {
	base

	wrapped Node
}

// wrapPrototype instantiates the wrapped node from the "__prototype"
// parameter installed by the decorator's sanitize hook.
func (self *Wrapper) wrapPrototype(impl Node) error {
	proto_value, pres := self.Params().Get("__prototype")
	if !pres {
		return fmt.Errorf("wrapper: underlying type was not sanitized")
	}

	wrapped, err := proto_value.(*Prototype).Instantiate(impl)
	if err != nil {
		return err
	}

	self.wrapped = wrapped
	return nil
}

func (self *Wrapper) Wrapped() Node {
	return self.wrapped
}

func (self *Wrapper) doRead(io *Stream) error {
	return read_field(self.wrapped, io)
}

func (self *Wrapper) doWrite(io *Stream) error {
	return write_field(self.wrapped, io)
}

func (self *Wrapper) numBits() (int64, error) {
	return self.wrapped.numBits()
}

func (self *Wrapper) Snapshot() (interface{}, error) {
	return self.wrapped.Snapshot()
}

func (self *Wrapper) Assign(value interface{}) error {
	return self.wrapped.Assign(value)
}

func (self *Wrapper) Clear() {
	self.wrapped.Clear()
}

func (self *Wrapper) IsClear() bool {
	return self.wrapped.IsClear()
}

// The wrapped node starts where the wrapper starts.
func (self *Wrapper) offsetOf(child Node) (int64, error) {
	return 0, nil
}

// sanitizeWrappedType is the shared sanitize hook for decorators: it
// resolves the mandatory "type" parameter into the wrapped prototype.
func sanitizeWrappedType(
	sanitizer *Sanitizer, params *SanitizedParameters) error {

	if params.Has("__prototype") {
		return nil
	}

	spec, pres := params.Get("type")
	if !pres {
		return fmt.Errorf("%w: requires a type", MissingParameterError)
	}

	proto, err := sanitizer.ResolveTypeSpec(spec)
	if err != nil {
		return err
	}
	params.Set("__prototype", proto)
	return nil
}
