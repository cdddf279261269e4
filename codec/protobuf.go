package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *mypb.User { return &mypb.User{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// ProtoArgs stores argument lists as a google.protobuf.ListValue.
// Only JSON-like values survive (nil, bool, numbers, strings, []any,
// map[string]any) plus []byte and wide integers, which travel tagged
// (see tagged.go). Integers within +/-2^53 come back as float64.
type ProtoArgs struct {
	pb Protobuf[*structpb.ListValue]
}

var _ Args = ProtoArgs{}

func NewProtoArgs() ProtoArgs {
	return ProtoArgs{pb: NewProtobuf(func() *structpb.ListValue { return &structpb.ListValue{} })}
}

func (c ProtoArgs) Encode(args []any) ([]byte, error) {
	lv, err := structpb.NewList(tagArgs(args))
	if err != nil {
		return nil, err
	}
	return c.pb.Encode(lv)
}

func (c ProtoArgs) Decode(b []byte) ([]any, error) {
	lv, err := c.pb.Decode(b)
	if err != nil {
		return nil, err
	}
	return untagArgs(lv.AsSlice()), nil
}
