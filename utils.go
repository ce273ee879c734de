package bindata

import (
	"bytes"
	"reflect"

	"www.velocidex.com/golang/vfilter"
)

func to_int64(x interface{}) (int64, bool) {
	switch t := x.(type) {
	case bool:
		if t {
			return 1, true
		} else {
			return 0, true
		}
	case int:
		return int64(t), true
	case uint8:
		return int64(t), true
	case int8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case int16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint64:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case float64:
		return int64(t), true
	case float32:
		return int64(t), true

	case *int:
		return int64(*t), true
	case *uint8:
		return int64(*t), true
	case *int8:
		return int64(*t), true
	case *uint16:
		return int64(*t), true
	case *int16:
		return int64(*t), true
	case *uint32:
		return int64(*t), true
	case *int32:
		return int64(*t), true
	case *uint64:
		return int64(*t), true
	case *int64:
		return int64(*t), true
	case *float64:
		return int64(*t), true

	default:
		return 0, false
	}
}

func to_float64(x interface{}) (float64, bool) {
	switch t := x.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case *float64:
		return *t, true
	}

	value, ok := to_int64(x)
	if ok {
		return float64(value), true
	}
	return 0, false
}

func to_bool(x interface{}) bool {
	switch t := x.(type) {
	case nil, vfilter.Null, *vfilter.Null:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []byte:
		return len(t) > 0
	}

	value, ok := to_int64(x)
	if ok {
		return value != 0
	}
	return true
}

func to_string(x interface{}) (string, bool) {
	switch t := x.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case Sym:
		return string(t), true
	}
	return "", false
}

// Compare two values the way check_value does: numerics compare by
// magnitude regardless of Go type, strings and byte strings compare by
// content, anything else falls back to DeepEqual.
func values_equal(a, b interface{}) bool {
	a_int, a_ok := to_int64(a)
	b_int, b_ok := to_int64(b)
	if a_ok && b_ok {
		return a_int == b_int
	}

	a_str, a_ok2 := to_string(a)
	b_str, b_ok2 := to_string(b)
	if a_ok2 && b_ok2 {
		return a_str == b_str
	}

	a_bytes, a_ok3 := a.([]byte)
	b_bytes, b_ok3 := b.([]byte)
	if a_ok3 && b_ok3 {
		return bytes.Equal(a_bytes, b_bytes)
	}

	return reflect.DeepEqual(a, b)
}

// We need to do this stupid check because Go does not allow
// comparison to nil with interfaces.
func IsNil(v interface{}) bool {
	return v == nil || (reflect.ValueOf(v).Kind() == reflect.Ptr &&
		reflect.ValueOf(v).IsNil())
}

// vfilter expressions yield Null for missing bindings. Normalize to nil
// so the engine has a single "no value" representation.
func normalize_value(v interface{}) interface{} {
	switch v.(type) {
	case vfilter.Null, *vfilter.Null:
		return nil
	}
	return v
}
