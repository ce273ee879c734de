package bindata

import (
	"encoding/binary"
	"fmt"
	"math"
)

// FloatCodec handles IEEE 754 single and double precision values.
type FloatCodec struct {
	type_name string
	size      uint8
	order     binary.ByteOrder
}

func NewFloatCodec(type_name string, size uint8, order binary.ByteOrder) *FloatCodec {
	return &FloatCodec{
		type_name: type_name,
		size:      size,
		order:     order,
	}
}

func (self *FloatCodec) TypeName() string {
	return self.type_name
}

func (self *FloatCodec) Default() interface{} {
	return float64(0)
}

func (self *FloatCodec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	return int64(self.size) * 8, nil
}

func (self *FloatCodec) Normalize(value interface{}) (interface{}, error) {
	f, ok := to_float64(value)
	if !ok {
		return nil, fmt.Errorf("%v: cannot convert %T to a float",
			self.type_name, value)
	}
	if self.size == 4 {
		return float64(float32(f)), nil
	}
	return f, nil
}

func (self *FloatCodec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	buf, err := io.ReadBytes(int64(self.size))
	if err != nil {
		return nil, err
	}

	switch self.size {
	case 4:
		return float64(math.Float32frombits(self.order.Uint32(buf))), nil
	case 8:
		return math.Float64frombits(self.order.Uint64(buf)), nil
	}
	return nil, fmt.Errorf("%v: unsupported size %v", self.type_name, self.size)
}

func (self *FloatCodec) Encode(p *Primitive, io *Stream, value interface{}) error {
	f, ok := to_float64(value)
	if !ok {
		return fmt.Errorf("%v: cannot encode %T as a float",
			self.type_name, value)
	}

	buf := make([]byte, self.size)
	switch self.size {
	case 4:
		self.order.PutUint32(buf, math.Float32bits(float32(f)))
	case 8:
		self.order.PutUint64(buf, math.Float64bits(f))
	default:
		return fmt.Errorf("%v: unsupported size %v", self.type_name, self.size)
	}

	return io.WriteBytes(buf)
}
