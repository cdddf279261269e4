package histcache

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unkn0wn-root/histcache/instrument"
)

// WriteReplay renders a call log:
//
//	Cache.store was called 2 times:
//	Cache.store(*("foo")) -> 5f1c...
//	Cache.store(*(42)) -> 9a0e...
//
// Inputs that could not be decoded are shown quoted and raw; calls with no
// recorded output end in "-> <pending>".
func WriteReplay(w io.Writer, name string, calls int64, l instrument.Log) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s was called %d times:\n", name, calls)
	for _, r := range l.Records {
		args := formatArgs(r)
		out := r.Output
		if r.Pending {
			out = "<pending>"
		}
		fmt.Fprintf(bw, "%s(*%s) -> %s\n", name, args, out)
	}
	return bw.Flush()
}

func formatArgs(r instrument.Record) string {
	if r.DecodeErr != nil {
		return "<undecodable " + strconv.Quote(r.RawInput) + ">"
	}
	parts := make([]string, len(r.Args))
	for i, a := range r.Args {
		parts[i] = formatArg(a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatArg(a any) string {
	switch v := a.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case []byte:
		return strconv.Quote(string(v))
	default:
		return fmt.Sprint(v)
	}
}
