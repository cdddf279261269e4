package histcache

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Transform converts raw stored bytes into a caller-facing value.
type Transform func(raw []byte) (any, error)

// As adapts a typed conversion to Transform.
func As[T any](fn func([]byte) (T, error)) Transform {
	return func(raw []byte) (any, error) { return fn(raw) }
}

// GetAs reads key and converts it with fn.
func GetAs[T any](ctx context.Context, c Cache, key string, fn func([]byte) (T, error)) (T, bool, error) {
	var zero T
	v, ok, err := c.Get(ctx, key, nil)
	if err != nil || !ok {
		return zero, ok, err
	}
	out, err := fn(v.([]byte))
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

var littleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// GetInt reads up to 8 bytes in native byte order. Shorter inputs are
// zero-extended; an 8-byte input is read as two's complement, so
// GetInt(PutInt(n)) == n for every int64.
func GetInt(raw []byte) (int64, error) {
	if len(raw) > 8 {
		return 0, fmt.Errorf("%w: %d bytes", ErrIntOverflow, len(raw))
	}
	var buf [8]byte
	if littleEndian {
		copy(buf[:], raw)
	} else {
		copy(buf[8-len(raw):], raw)
	}
	return int64(binary.NativeEndian.Uint64(buf[:])), nil
}

// PutInt is the inverse of GetInt.
func PutInt(n int64) []byte {
	b := make([]byte, 8)
	binary.NativeEndian.PutUint64(b, uint64(n))
	return b
}

// GetStr decodes raw as UTF-8 text.
func GetStr(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}
	return string(raw), nil
}

// GetFloat parses the decimal text written for float values.
// A float32 is written with its own shortest text, so read it back with
// GetFloat32 to get the identical value.
func GetFloat(raw []byte) (float64, error) {
	return strconv.ParseFloat(string(raw), 64)
}

// GetFloat32 is GetFloat for values stored as float32.
func GetFloat32(raw []byte) (float32, error) {
	f, err := strconv.ParseFloat(string(raw), 32)
	return float32(f), err
}

// putUint stores x as a signed 8-byte integer; values above MaxInt64 would
// read back negative through GetInt and are rejected.
func putUint(x uint64) ([]byte, error) {
	if x > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d exceeds int64", ErrIntOverflow, x)
	}
	return PutInt(int64(x)), nil
}

// encodeValue is the stored form of v: text and binary as-is,
// integers as 8 native-endian bytes, floats as shortest decimal text.
func encodeValue(v any) ([]byte, error) {
	switch x := v.(type) {
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case int:
		return PutInt(int64(x)), nil
	case int8:
		return PutInt(int64(x)), nil
	case int16:
		return PutInt(int64(x)), nil
	case int32:
		return PutInt(int64(x)), nil
	case int64:
		return PutInt(x), nil
	case uint:
		return putUint(uint64(x))
	case uint8:
		return PutInt(int64(x)), nil
	case uint16:
		return PutInt(int64(x)), nil
	case uint32:
		return PutInt(int64(x)), nil
	case uint64:
		return putUint(x)
	case float32:
		return []byte(strconv.FormatFloat(float64(x), 'g', -1, 32)), nil
	case float64:
		return []byte(strconv.FormatFloat(x, 'g', -1, 64)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
