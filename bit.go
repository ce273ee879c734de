package bindata

import "fmt"

// BitCodec is an unsigned integer whose width is not a whole number
// of bytes. Adjacent bit fields of the same endian pack into shared
// bytes; any byte level field realigns the stream.
type BitCodec struct {
	type_name string
	nbits     uint8
	endian    Endian
}

func NewBitCodec(type_name string, nbits uint8, endian Endian) *BitCodec {
	return &BitCodec{
		type_name: type_name,
		nbits:     nbits,
		endian:    endian,
	}
}

func (self *BitCodec) TypeName() string {
	return self.type_name
}

func (self *BitCodec) Default() interface{} {
	return uint64(0)
}

func (self *BitCodec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	return int64(self.nbits), nil
}

func (self *BitCodec) Normalize(value interface{}) (interface{}, error) {
	raw, ok := encode_int(value)
	if !ok {
		return nil, fmt.Errorf("%v: cannot convert %T to an integer",
			self.type_name, value)
	}
	return raw, nil
}

func (self *BitCodec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	return io.ReadBits(self.nbits, self.endian)
}

func (self *BitCodec) Encode(p *Primitive, io *Stream, value interface{}) error {
	raw, ok := encode_int(value)
	if !ok {
		return fmt.Errorf("%v: cannot encode %T as an integer",
			self.type_name, value)
	}

	if self.nbits < 64 && raw >= uint64(1)<<self.nbits {
		return fmt.Errorf("%w: %v does not fit in %v bits",
			ValidityError, raw, self.nbits)
	}

	return io.WriteBits(raw, self.nbits, self.endian)
}
