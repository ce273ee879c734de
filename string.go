package bindata

import (
	"fmt"
	"strings"
)

// StringCodec is a length delimited byte string. Strings are byte
// sequences; no character encoding is applied.
//
// Parameters:
//
//	length       - encoded length; values are padded or truncated
//	read_length  - length used when reading (overrides length)
//	pad_char     - padding byte, default "\x00"
//	trim_padding - strip trailing padding after a read
type StringCodec struct{}

func (self *StringCodec) TypeName() string {
	return "string"
}

func (self *StringCodec) CodecParameters(accepted *AcceptedParameters) {
	accepted.Optional("length", "read_length", "trim_padding")
	accepted.Default("pad_char", "\x00")
}

func (self *StringCodec) Default() interface{} {
	return ""
}

func (self *StringCodec) Normalize(value interface{}) (interface{}, error) {
	str, ok := to_string(value)
	if !ok {
		return nil, fmt.Errorf("string: cannot convert %T", value)
	}
	return str, nil
}

func (self *StringCodec) padByte(p *Primitive) (byte, error) {
	value, pres, err := p.evalParam("pad_char", nil)
	if err != nil {
		return 0, err
	}
	if !pres {
		return 0, nil
	}

	str, ok := to_string(value)
	if ok && len(str) > 0 {
		return str[0], nil
	}

	i, ok := to_int64(value)
	if ok {
		return byte(i), nil
	}

	return 0, fmt.Errorf("string: pad_char should be a byte, got %T", value)
}

func (self *StringCodec) readLength(p *Primitive) (int64, error) {
	length, pres, err := p.evalParamInt("read_length", nil)
	if err != nil {
		return 0, err
	}
	if pres {
		return length, nil
	}

	length, pres, err = p.evalParamInt("length", nil)
	if err != nil {
		return 0, err
	}
	if pres {
		return length, nil
	}

	return 0, nil
}

func (self *StringCodec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	length, err := self.readLength(p)
	if err != nil {
		return nil, err
	}

	buf, err := io.ReadBytes(length)
	if err != nil {
		return nil, err
	}

	result := string(buf)

	trim, pres, err := p.evalParam("trim_padding", nil)
	if err != nil {
		return nil, err
	}
	if pres && to_bool(trim) {
		pad, err := self.padByte(p)
		if err != nil {
			return nil, err
		}
		result = strings.TrimRight(result, string([]byte{pad}))
	}

	return result, nil
}

func (self *StringCodec) encoded(p *Primitive, value interface{}) (string, error) {
	str, ok := to_string(value)
	if !ok {
		return "", fmt.Errorf("string: cannot encode %T", value)
	}

	length, pres, err := p.evalParamInt("length", nil)
	if err != nil {
		return "", err
	}
	if !pres {
		return str, nil
	}

	if int64(len(str)) > length {
		return str[:length], nil
	}

	if int64(len(str)) < length {
		pad, err := self.padByte(p)
		if err != nil {
			return "", err
		}
		str += strings.Repeat(string([]byte{pad}), int(length-int64(len(str))))
	}
	return str, nil
}

func (self *StringCodec) Encode(p *Primitive, io *Stream, value interface{}) error {
	str, err := self.encoded(p, value)
	if err != nil {
		return err
	}
	return io.WriteBytes([]byte(str))
}

func (self *StringCodec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	str, err := self.encoded(p, value)
	if err != nil {
		return 0, err
	}
	return int64(len(str)) * 8, nil
}

// StringzCodec is a zero terminated byte string. The decoded value
// excludes the terminator; the encoded form always ends with exactly
// one zero byte. max_length bounds the total including the
// terminator, truncating content to at most max_length-1 bytes.
type StringzCodec struct{}

func (self *StringzCodec) TypeName() string {
	return "stringz"
}

func (self *StringzCodec) CodecParameters(accepted *AcceptedParameters) {
	accepted.Optional("max_length")
}

func (self *StringzCodec) SanitizeCodec(
	sanitizer *Sanitizer, params *SanitizedParameters) error {

	// A literal max_length below 1 cannot hold the terminator.
	value, pres := params.Get("max_length")
	if pres {
		max, ok := to_int64(value)
		if ok && max < 1 {
			return fmt.Errorf("%w: max_length must be at least 1, got %v",
				ValidityError, max)
		}
	}
	return nil
}

func (self *StringzCodec) Default() interface{} {
	return ""
}

func (self *StringzCodec) Normalize(value interface{}) (interface{}, error) {
	str, ok := to_string(value)
	if !ok {
		return nil, fmt.Errorf("stringz: cannot convert %T", value)
	}
	return str, nil
}

func (self *StringzCodec) maxLength(p *Primitive) (int64, bool, error) {
	max, pres, err := p.evalParamInt("max_length", nil)
	if err != nil {
		return 0, pres, err
	}
	if pres && max < 1 {
		return 0, true, fmt.Errorf("%w: max_length must be at least 1, got %v",
			ValidityError, max)
	}
	return max, pres, nil
}

func (self *StringzCodec) Decode(p *Primitive, io *Stream) (interface{}, error) {
	max, has_max, err := self.maxLength(p)
	if err != nil {
		return nil, err
	}

	var result []byte
	for {
		if has_max && int64(len(result)) >= max {
			break
		}

		b, err := io.ReadByte()
		if err != nil {
			// A terminator is part of the wire format; running
			// out of bytes first is a short read, not a shorter
			// string.
			return nil, err
		}

		if b == 0 {
			break
		}
		result = append(result, b)
	}

	return string(result), nil
}

func (self *StringzCodec) encoded(p *Primitive, value interface{}) ([]byte, error) {
	str, ok := to_string(value)
	if !ok {
		return nil, fmt.Errorf("stringz: cannot encode %T", value)
	}

	max, has_max, err := self.maxLength(p)
	if err != nil {
		return nil, err
	}

	// Content stops at any embedded zero.
	idx := strings.IndexByte(str, 0)
	if idx >= 0 {
		str = str[:idx]
	}

	if has_max && int64(len(str)) > max-1 {
		str = str[:max-1]
	}

	return append([]byte(str), 0), nil
}

func (self *StringzCodec) Encode(p *Primitive, io *Stream, value interface{}) error {
	data, err := self.encoded(p, value)
	if err != nil {
		return err
	}
	return io.WriteBytes(data)
}

func (self *StringzCodec) SizeBits(p *Primitive, value interface{}) (int64, error) {
	data, err := self.encoded(p, value)
	if err != nil {
		return 0, err
	}
	return int64(len(data)) * 8, nil
}
