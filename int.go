package bindata

import (
	"encoding/binary"
	"fmt"
)

// IntCodec handles fixed width byte integers of all the usual sizes
// in both byte orders.
type IntCodec struct {
	type_name string
	size      uint8
	signed    bool
	order     binary.ByteOrder
}

func NewIntCodec(type_name string, size uint8, signed bool,
	order binary.ByteOrder) *IntCodec {
	return &IntCodec{
		type_name: type_name,
		size:      size,
		signed:    signed,
		order:     order,
	}
}

func (self *IntCodec) TypeName() string {
	return self.type_name
}

func (self *IntCodec) Default() interface{} {
	if self.signed {
		return int64(0)
	}
	return uint64(0)
}

func (self *IntCodec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	return int64(self.size) * 8, nil
}

func (self *IntCodec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	buf, err := io.ReadBytes(int64(self.size))
	if err != nil {
		return nil, err
	}

	var raw uint64
	switch self.size {
	case 1:
		raw = uint64(buf[0])
	case 2:
		raw = uint64(self.order.Uint16(buf))
	case 4:
		raw = uint64(self.order.Uint32(buf))
	case 8:
		raw = self.order.Uint64(buf)
	default:
		return nil, fmt.Errorf("%v: unsupported size %v", self.type_name, self.size)
	}

	if self.signed {
		return sign_extend(raw, self.size), nil
	}
	return raw, nil
}

func (self *IntCodec) Encode(p *Primitive, io *Stream, value interface{}) error {
	raw, ok := encode_int(value)
	if !ok {
		return fmt.Errorf("%v: cannot encode %T as an integer",
			self.type_name, value)
	}

	buf := make([]byte, self.size)
	switch self.size {
	case 1:
		buf[0] = byte(raw)
	case 2:
		self.order.PutUint16(buf, uint16(raw))
	case 4:
		self.order.PutUint32(buf, uint32(raw))
	case 8:
		self.order.PutUint64(buf, raw)
	default:
		return fmt.Errorf("%v: unsupported size %v", self.type_name, self.size)
	}

	return io.WriteBytes(buf)
}

// Normalize canonicalizes any numeric to the decoded representation:
// uint64 for unsigned types, sign extended int64 for signed ones.
func (self *IntCodec) Normalize(value interface{}) (interface{}, error) {
	raw, ok := encode_int(value)
	if !ok {
		return nil, fmt.Errorf("%v: cannot convert %T to an integer",
			self.type_name, value)
	}

	if self.size < 8 {
		raw &= (uint64(1) << (uint(self.size) * 8)) - 1
	}

	if self.signed {
		return sign_extend(raw, self.size), nil
	}
	return raw, nil
}

func sign_extend(raw uint64, size uint8) int64 {
	shift := 64 - uint(size)*8
	return int64(raw<<shift) >> shift
}

// encode_int widens any numeric to its 64 bit two's complement
// pattern.
func encode_int(value interface{}) (uint64, bool) {
	switch t := value.(type) {
	case uint64:
		return t, true
	case uint:
		return uint64(t), true
	}

	i, ok := to_int64(value)
	if !ok {
		return 0, false
	}
	return uint64(i), true
}
