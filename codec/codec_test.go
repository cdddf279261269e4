package codec

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestArgsCodecsRoundTripText(t *testing.T) {
	for _, name := range []string{"json", "msgpack", "cbor", "proto"} {
		c, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		in := []any{"hello", true, nil}
		b, err := c.Encode(in)
		if err != nil {
			t.Fatalf("%s Encode: %v", name, err)
		}
		got, err := c.Decode(b)
		if err != nil {
			t.Fatalf("%s Decode: %v", name, err)
		}
		if !reflect.DeepEqual(got, in) {
			t.Fatalf("%s round trip: got %#v want %#v", name, got, in)
		}
	}
}

func TestArgsCodecsKeepNumbers(t *testing.T) {
	for _, name := range []string{"json", "msgpack", "cbor", "proto"} {
		c, _ := ByName(name)
		b, err := c.Encode([]any{42, 2.5})
		if err != nil {
			t.Fatalf("%s Encode: %v", name, err)
		}
		got, err := c.Decode(b)
		if err != nil || len(got) != 2 {
			t.Fatalf("%s Decode: got=%v err=%v", name, got, err)
		}
		if s := toFloat(got[0]); s != 42 {
			t.Fatalf("%s: first arg %#v not 42", name, got[0])
		}
		if s := toFloat(got[1]); s != 2.5 {
			t.Fatalf("%s: second arg %#v not 2.5", name, got[1])
		}
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return -1
	}
}

func TestCBORMapsDecodeWithStringKeys(t *testing.T) {
	c := MustCBOR[[]any](true)
	b, err := c.Encode([]any{map[string]any{"a": "b"}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got[0].(map[string]any); !ok {
		t.Fatalf("expected map[string]any, got %T", got[0])
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName("yaml"); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	c := Limit[[]any]{Inner: JSON[[]any]{}, MaxDecode: 8}
	b, _ := c.Encode([]any{strings.Repeat("x", 32)})
	if _, err := c.Decode(b); err == nil {
		t.Fatalf("expected size error")
	}
	if _, err := c.Decode([]byte(`["x"]`)); err != nil {
		t.Fatalf("small payload rejected: %v", err)
	}
}

func TestArgsJSONRestoresTaggedValues(t *testing.T) {
	in := []any{
		[]byte{0, 0xff},
		int64(math.MaxInt64),
		int64(math.MinInt64),
		uint64(math.MaxUint64),
		42,
		2.5,
		[]any{[]byte("x"), int64(1<<53 + 1)},
		map[string]any{"b": []byte("y")},
	}
	b, err := ArgsJSON{}.Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ArgsJSON{}.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	want := []any{
		[]byte{0, 0xff},
		int64(math.MaxInt64),
		int64(math.MinInt64),
		uint64(math.MaxUint64),
		int64(42),
		2.5,
		[]any{[]byte("x"), int64(1<<53 + 1)},
		map[string]any{"b": []byte("y")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v\nwant %#v", got, want)
	}
	if !strings.Contains(string(b), `{"$binary":"AP8="}`) {
		t.Fatalf("binary not tagged in %s", b)
	}
}

func TestArgsJSONRejectsTrailingData(t *testing.T) {
	if _, err := (ArgsJSON{}).Decode([]byte(`["a"] ["b"]`)); err == nil {
		t.Fatalf("expected trailing data error")
	}
}

func TestProtoArgsRestoresTaggedValues(t *testing.T) {
	c := NewProtoArgs()
	b, err := c.Encode([]any{[]byte("hi"), int64(math.MinInt64), uint64(1 << 60), 7})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	want := []any{[]byte("hi"), int64(math.MinInt64), uint64(1 << 60), float64(7)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestByNameDefaultIsMsgpack(t *testing.T) {
	c, err := ByName("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(Msgpack[[]any]); !ok {
		t.Fatalf("default codec %T", c)
	}
}
