package codec

import "fmt"

// ByName returns the argument codec registered under name:
// "msgpack" (default when empty), "json", "cbor" or "proto".
func ByName(name string) (Args, error) {
	switch name {
	case "", "msgpack":
		return Msgpack[[]any]{}, nil
	case "json":
		return ArgsJSON{}, nil
	case "cbor":
		c, err := NewCBOR[[]any](true)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "proto", "protobuf":
		return NewProtoArgs(), nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}
