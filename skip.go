package bindata

import "fmt"

// SkipCodec covers a run of dead bytes: reading discards them,
// writing emits zero fill. The snapshot is always the empty string.
type SkipCodec struct{}

func (self *SkipCodec) TypeName() string {
	return "skip"
}

func (self *SkipCodec) CodecParameters(accepted *AcceptedParameters) {
	accepted.Mandatory("length")
}

func (self *SkipCodec) Default() interface{} {
	return ""
}

func (self *SkipCodec) length(p *Primitive) (int64, error) {
	length, pres, err := p.evalParamInt("length", nil)
	if err != nil {
		return 0, err
	}
	if !pres {
		return 0, fmt.Errorf("%w: skip requires length", MissingParameterError)
	}
	if length < 0 {
		return 0, fmt.Errorf("skip: negative length %v", length)
	}
	return length, nil
}

func (self *SkipCodec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	length, err := self.length(p)
	if err != nil {
		return nil, err
	}

	err = io.SeekBytes(length)
	if err != nil {
		return nil, err
	}
	return "", nil
}

func (self *SkipCodec) Encode(p *Primitive, io *Stream, value interface{}) error {
	length, err := self.length(p)
	if err != nil {
		return err
	}
	return io.WriteBytes(make([]byte, length))
}

func (self *SkipCodec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	length, err := self.length(p)
	if err != nil {
		return 0, err
	}
	return length * 8, nil
}

// RestCodec consumes everything remaining in the stream as a byte
// string and writes it back verbatim.
type RestCodec struct{}

func (self *RestCodec) TypeName() string {
	return "rest"
}

func (self *RestCodec) Default() interface{} {
	return ""
}

func (self *RestCodec) Normalize(value interface{}) (interface{}, error) {
	str, ok := to_string(value)
	if !ok {
		return nil, fmt.Errorf("rest: cannot convert %T", value)
	}
	return str, nil
}

func (self *RestCodec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	var result []byte
	for !io.AtEOF() {
		b, err := io.ReadByte()
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return string(result), nil
}

func (self *RestCodec) Encode(p *Primitive, io *Stream, value interface{}) error {
	str, ok := to_string(value)
	if !ok {
		return fmt.Errorf("rest: cannot encode %T", value)
	}
	return io.WriteBytes([]byte(str))
}

func (self *RestCodec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	str, ok := to_string(value)
	if !ok {
		return 0, fmt.Errorf("rest: cannot encode %T", value)
	}
	return int64(len(str)) * 8, nil
}
