package bindata

import "fmt"

// Variable length LEB128 integers. Unsigned values up to 64 bits use
// at most 10 bytes.

const max_leb128_bytes = 10

type Uleb128Codec struct{}

func (self *Uleb128Codec) TypeName() string {
	return "uleb128"
}

func (self *Uleb128Codec) Default() interface{} {
	return uint64(0)
}

func (self *Uleb128Codec) Normalize(value interface{}) (interface{}, error) {
	raw, ok := encode_int(value)
	if !ok {
		return nil, fmt.Errorf("uleb128: cannot convert %T to an integer", value)
	}
	return raw, nil
}

func (self *Uleb128Codec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	var result uint64

	for i := 0; i < max_leb128_bytes; i++ {
		b, err := io.ReadByte()
		if err != nil {
			return nil, err
		}

		result |= uint64(b&0x7f) << uint(i*7)
		if b&0x80 == 0 {
			return result, nil
		}
	}

	return nil, fmt.Errorf("%w: leb128 longer than %v bytes",
		ValidityError, max_leb128_bytes)
}

func (self *Uleb128Codec) Encode(p *Primitive, io *Stream, value interface{}) error {
	raw, ok := encode_int(value)
	if !ok {
		return fmt.Errorf("uleb128: cannot encode %T as an integer", value)
	}
	return io.WriteBytes(uleb128_bytes(raw))
}

func (self *Uleb128Codec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	raw, ok := encode_int(value)
	if !ok {
		return 0, fmt.Errorf("uleb128: cannot encode %T as an integer", value)
	}
	return int64(len(uleb128_bytes(raw))) * 8, nil
}

func uleb128_bytes(value uint64) []byte {
	var result []byte
	for {
		b := byte(value & 0x7f)
		value >>= 7
		if value != 0 {
			b |= 0x80
		}
		result = append(result, b)
		if value == 0 {
			return result
		}
	}
}

type Sleb128Codec struct{}

func (self *Sleb128Codec) TypeName() string {
	return "sleb128"
}

func (self *Sleb128Codec) Default() interface{} {
	return int64(0)
}

func (self *Sleb128Codec) Normalize(value interface{}) (interface{}, error) {
	raw, ok := to_int64(value)
	if !ok {
		return nil, fmt.Errorf("sleb128: cannot convert %T to an integer", value)
	}
	return raw, nil
}

func (self *Sleb128Codec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	var result uint64
	var shift uint

	for i := 0; i < max_leb128_bytes; i++ {
		b, err := io.ReadByte()
		if err != nil {
			return nil, err
		}

		result |= uint64(b&0x7f) << shift
		shift += 7

		if b&0x80 == 0 {
			// Sign extend from the final group.
			if shift < 64 && b&0x40 != 0 {
				result |= ^uint64(0) << shift
			}
			return int64(result), nil
		}
	}

	return nil, fmt.Errorf("%w: leb128 longer than %v bytes",
		ValidityError, max_leb128_bytes)
}

func (self *Sleb128Codec) Encode(p *Primitive, io *Stream, value interface{}) error {
	raw, ok := to_int64(value)
	if !ok {
		return fmt.Errorf("sleb128: cannot encode %T as an integer", value)
	}
	return io.WriteBytes(sleb128_bytes(raw))
}

func (self *Sleb128Codec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	raw, ok := to_int64(value)
	if !ok {
		return 0, fmt.Errorf("sleb128: cannot encode %T as an integer", value)
	}
	return int64(len(sleb128_bytes(raw))) * 8, nil
}

func sleb128_bytes(value int64) []byte {
	var result []byte
	for {
		b := byte(value & 0x7f)
		value >>= 7

		done := (value == 0 && b&0x40 == 0) ||
			(value == -1 && b&0x40 != 0)
		if !done {
			b |= 0x80
		}
		result = append(result, b)
		if done {
			return result
		}
	}
}
