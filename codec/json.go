package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// JSON encodes values as JSON text. Recorded inputs stay human-readable in the store.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

// ArgsJSON stores argument lists as JSON text that decodes back to the same
// Go values: numbers keep their integer type and []byte stays binary
// (see the tags in tagged.go).
type ArgsJSON struct{}

var _ Args = ArgsJSON{}

func (ArgsJSON) Encode(args []any) ([]byte, error) { return json.Marshal(tagArgs(args)) }

func (ArgsJSON) Decode(b []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var args []any
	if err := dec.Decode(&args); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("codec: trailing data after JSON argument list")
	}
	return untagArgs(args), nil
}
