package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/histcache"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	As string // raw | str | int | float
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Read a stored value",
		Long: `Read the value stored under KEY, optionally converting it.

Exits with code 1 when the key does not exist.

Examples:
  histcache get 3c1e... --as str
  histcache get 3c1e... --as int`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "raw", "conversion (raw|str|int|float)")
	return cmd
}

func runGet(opts *GetOptions, cmd *cobra.Command, key string) error {
	ctx := context.Background()

	fn, err := transformFor(opts.As)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid conversion", err)
	}

	c, err := opts.openCache(ctx, cmd)
	if err != nil {
		return err
	}
	defer c.Close(ctx)

	v, ok, err := c.Get(ctx, key, fn)
	if err != nil {
		return WrapExitError(ExitCommandError, "get failed", err)
	}
	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("key %q not found", key))
	}
	out := cmd.OutOrStdout()
	switch x := v.(type) {
	case []byte:
		fmt.Fprintln(out, strconv.Quote(string(x)))
	default:
		fmt.Fprintln(out, x)
	}
	return nil
}

func transformFor(as string) (histcache.Transform, error) {
	switch as {
	case "raw", "":
		return nil, nil
	case "str":
		return histcache.As(histcache.GetStr), nil
	case "int":
		return histcache.As(histcache.GetInt), nil
	case "float":
		return histcache.As(histcache.GetFloat), nil
	default:
		return nil, fmt.Errorf("unknown conversion %q", as)
	}
}
