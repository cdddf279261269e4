package histcache

import (
	"errors"
	"math"
	"testing"
)

func TestGetIntInvertsPutInt(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 255, 256, -256, math.MaxInt32, math.MinInt32, math.MaxInt64, math.MinInt64} {
		got, err := GetInt(PutInt(n))
		if err != nil || got != n {
			t.Fatalf("GetInt(PutInt(%d)) = %d, %v", n, got, err)
		}
	}
}

func TestGetIntShortInputsZeroExtend(t *testing.T) {
	if n, err := GetInt(nil); err != nil || n != 0 {
		t.Fatalf("GetInt(nil) = %d, %v", n, err)
	}
	if n, err := GetInt([]byte{1}); err != nil || n != 1 {
		t.Fatalf("GetInt([1]) = %d, %v", n, err)
	}
	if n, _ := GetInt([]byte{0xff}); n != 255 {
		t.Fatalf("single 0xff byte should read as 255, got %d", n)
	}
}

func TestGetIntRejectsWideInput(t *testing.T) {
	if _, err := GetInt(make([]byte, 9)); !errors.Is(err, ErrIntOverflow) {
		t.Fatalf("err=%v want ErrIntOverflow", err)
	}
}

func TestGetStr(t *testing.T) {
	if s, err := GetStr([]byte("héllo")); err != nil || s != "héllo" {
		t.Fatalf("GetStr = %q, %v", s, err)
	}
	if _, err := GetStr([]byte{0xc3, 0x28}); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("err=%v want ErrInvalidUTF8", err)
	}
}

func TestEncodeValueKinds(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"text", "text"},
		{[]byte("bin"), "bin"},
		{2.5, "2.5"},
		{float32(0.1), "0.1"},
	}
	for _, tc := range cases {
		b, err := encodeValue(tc.in)
		if err != nil || string(b) != tc.want {
			t.Fatalf("encodeValue(%v) = %q, %v want %q", tc.in, b, err, tc.want)
		}
	}
	if b, _ := encodeValue(uint8(7)); len(b) != 8 {
		t.Fatalf("integers should encode to 8 bytes, got %d", len(b))
	}
	if _, err := encodeValue(true); !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("bool: err=%v want ErrUnsupportedValue", err)
	}
}

func TestEncodeValueUnsignedRange(t *testing.T) {
	b, err := encodeValue(uint64(math.MaxInt64))
	if err != nil {
		t.Fatalf("MaxInt64 as uint64: %v", err)
	}
	if n, _ := GetInt(b); n != math.MaxInt64 {
		t.Fatalf("GetInt = %d want MaxInt64", n)
	}
	for _, v := range []any{uint64(math.MaxUint64), uint64(math.MaxInt64) + 1, uint(math.MaxUint64)} {
		if _, err := encodeValue(v); !errors.Is(err, ErrIntOverflow) {
			t.Fatalf("encodeValue(%v): err=%v want ErrIntOverflow", v, err)
		}
	}
}

func TestGetFloat32MatchesStoredFloat32(t *testing.T) {
	for _, f := range []float32{0.1, 1.0 / 3, math.MaxFloat32, -2.5} {
		b, err := encodeValue(f)
		if err != nil {
			t.Fatal(err)
		}
		if got, err := GetFloat32(b); err != nil || got != f {
			t.Fatalf("GetFloat32 = %v, %v want %v", got, err, f)
		}
	}
}
