package bindata

// ValueCodec is a virtual field: it occupies no bytes on the wire and
// its content comes entirely from the computed :value parameter. An
// assignment is accepted but the snapshot stays the computed value.
// Useful for exposing derived quantities inside a snapshot.
type ValueCodec struct{}

func (self *ValueCodec) TypeName() string {
	return "value"
}

func (self *ValueCodec) CodecParameters(accepted *AcceptedParameters) {
	accepted.Mandatory("value")
}

func (self *ValueCodec) Default() interface{} {
	return nil
}

// Decode consumes nothing but captures the computed value, so other
// fields still being read observe a stable result.
func (self *ValueCodec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	value, _, err := p.evalParam("value", nil)
	return value, err
}

func (self *ValueCodec) Encode(p *Primitive, io *Stream, value interface{}) error {
	return nil
}

func (self *ValueCodec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	return 0, nil
}
