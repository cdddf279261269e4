package codec

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
)

// Values that JSON-shaped encodings cannot carry are written as one-key maps:
//
//	[]byte                  {"$binary": "<base64>"}
//	int beyond +/-2^53      {"$int": "<decimal>"}
//	uint beyond 2^53        {"$uint": "<decimal>"}
//
// A caller map with exactly one of these keys and a string value decodes as
// the tagged type.
const (
	binaryKey = "$binary"
	intKey    = "$int"
	uintKey   = "$uint"

	maxExactFloat = 1 << 53
)

func tagArgs(args []any) []any {
	if args == nil {
		return nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = tag(a)
	}
	return out
}

func tag(v any) any {
	switch x := v.(type) {
	case []byte:
		return map[string]any{binaryKey: base64.StdEncoding.EncodeToString(x)}
	case int:
		return tagInt(int64(x))
	case int64:
		return tagInt(x)
	case uint:
		return tagUint(uint64(x))
	case uint64:
		return tagUint(x)
	case []any:
		return tagArgs(x)
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = tag(e)
		}
		return m
	default:
		return v
	}
}

func tagInt(n int64) any {
	if n > maxExactFloat || n < -maxExactFloat {
		return map[string]any{intKey: strconv.FormatInt(n, 10)}
	}
	return n
}

func tagUint(n uint64) any {
	if n > maxExactFloat {
		return map[string]any{uintKey: strconv.FormatUint(n, 10)}
	}
	return n
}

func untagArgs(args []any) []any {
	if args == nil {
		return nil
	}
	for i, a := range args {
		args[i] = untag(a)
	}
	return args
}

func untag(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		return untagArgs(x)
	case map[string]any:
		if len(x) == 1 {
			if t, ok := untagScalar(x); ok {
				return t
			}
		}
		for k, e := range x {
			x[k] = untag(e)
		}
		return x
	default:
		return v
	}
}

func untagScalar(m map[string]any) (any, bool) {
	for k, e := range m {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		switch k {
		case binaryKey:
			b, err := base64.StdEncoding.DecodeString(s)
			return b, err == nil
		case intKey:
			n, err := strconv.ParseInt(s, 10, 64)
			return n, err == nil
		case uintKey:
			n, err := strconv.ParseUint(s, 10, 64)
			return n, err == nil
		}
	}
	return nil, false
}
