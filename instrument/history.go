package instrument

import (
	"context"
	"fmt"
	"strings"

	"github.com/unkn0wn-root/histcache/codec"
	"github.com/unkn0wn-root/histcache/internal/util"
	pr "github.com/unkn0wn-root/histcache/provider"
)

// FailedPrefix marks an output entry recorded for a call that returned an error.
// Successful outputs starting with "!" are stored with one extra "!" so they
// can never be mistaken for a failure; Records strips it again.
const FailedPrefix = "!error: "

// History appends each call's arguments to "<name>:inputs" before the call
// and its result to "<name>:outputs" after it. Failed calls still get an
// output entry (FailedPrefix + error text) so both lists stay index-aligned.
type History struct {
	kv   pr.Provider
	args codec.Args
}

var _ Instrument = (*History)(nil)

// NewHistory records into kv. A nil args codec means msgpack.
func NewHistory(kv pr.Provider, args codec.Args) *History {
	if args == nil {
		args = codec.Msgpack[[]any]{}
	}
	return &History{kv: kv, args: args}
}

func (h *History) Before(ctx context.Context, name string, args []any) error {
	if args == nil {
		args = []any{}
	}
	b, err := h.args.Encode(args)
	if err != nil {
		return fmt.Errorf("encode inputs: %w", err)
	}
	_, err = h.kv.RPush(ctx, util.InputsKey(name), b)
	return err
}

func (h *History) After(ctx context.Context, name string, _ []any, result any, callErr error) error {
	text := OutputText(result, callErr)
	if callErr == nil && strings.HasPrefix(text, "!") {
		text = "!" + text
	}
	_, err := h.kv.RPush(ctx, util.OutputsKey(name), []byte(text))
	return err
}

// OutputText is the textual form stored for a call outcome.
func OutputText(result any, callErr error) string {
	if callErr != nil {
		return FailedPrefix + callErr.Error()
	}
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Record is one replayed call.
type Record struct {
	Args      []any
	RawInput  string
	DecodeErr error // set when RawInput could not be decoded; Args is nil
	Output    string
	Failed    bool // call returned an error
	Pending   bool // input recorded but no output (writer crashed mid-call)
}

// Log is the recorded history of one operation.
type Log struct {
	Name    string
	Records []Record
	Inputs  int
	Outputs int
}

// Aligned reports whether both lists have the same length.
func (l Log) Aligned() bool { return l.Inputs == l.Outputs }

// Records reads the full history of name in call order.
func (h *History) Records(ctx context.Context, name string) (Log, error) {
	ins, err := h.kv.LRange(ctx, util.InputsKey(name), 0, -1)
	if err != nil {
		return Log{}, fmt.Errorf("read inputs of %q: %w", name, err)
	}
	outs, err := h.kv.LRange(ctx, util.OutputsKey(name), 0, -1)
	if err != nil {
		return Log{}, fmt.Errorf("read outputs of %q: %w", name, err)
	}

	l := Log{Name: name, Inputs: len(ins), Outputs: len(outs), Records: make([]Record, 0, len(ins))}
	for i, raw := range ins {
		r := Record{RawInput: string(raw)}
		if args, err := h.args.Decode(raw); err != nil {
			r.DecodeErr = err
		} else {
			r.Args = args
		}
		if i < len(outs) {
			r.Output = string(outs[i])
			switch {
			case strings.HasPrefix(r.Output, FailedPrefix):
				r.Failed = true
			case strings.HasPrefix(r.Output, "!!"):
				r.Output = r.Output[1:]
			}
		} else {
			r.Pending = true
		}
		l.Records = append(l.Records, r)
	}
	return l, nil
}
