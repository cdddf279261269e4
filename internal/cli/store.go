package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// StoreOptions holds flags for the store command.
type StoreOptions struct {
	*RootOptions
	Type string // string | bytes | int | float
}

var ValidValueTypes = []string{"string", "bytes", "int", "float"}

// NewStoreCommand creates the store command.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "store VALUE",
		Short: "Store a value under a fresh identifier",
		Long: `Store a value under a freshly generated identifier and print the identifier.

The call is counted and its input and output are recorded under Cache.store.

Examples:
  histcache store hello
  histcache store 42 --type int`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "string", "value type (string|bytes|int|float)")
	return cmd
}

func runStore(opts *StoreOptions, cmd *cobra.Command, raw string) error {
	ctx := context.Background()

	v, err := parseValue(opts.Type, raw)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid value", err)
	}

	c, err := opts.openCache(ctx, cmd)
	if err != nil {
		return err
	}
	defer c.Close(ctx)

	key, err := c.Store(ctx, v)
	if err != nil {
		return WrapExitError(ExitCommandError, "store failed", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}

func parseValue(typ, raw string) (any, error) {
	switch typ {
	case "string":
		return raw, nil
	case "bytes":
		return []byte(raw), nil
	case "int":
		return strconv.ParseInt(raw, 10, 64)
	case "float":
		return strconv.ParseFloat(raw, 64)
	default:
		return nil, fmt.Errorf("invalid type %q: must be one of %v", typ, ValidValueTypes)
	}
}

// autoValue reads integers as int64 and everything else as text.
func autoValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
