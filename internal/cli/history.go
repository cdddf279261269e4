package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/histcache"
)

// NewCallsCommand creates the calls command.
func NewCallsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calls [NAME]",
		Short: "Print how many times an operation was called",
		Long: `Print the call counter of an operation (default Cache.store).

Examples:
  histcache calls
  histcache calls Cache.store`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := opts.openCache(ctx, cmd)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			n, err := c.Calls(ctx, opName(args))
			if err != nil {
				return WrapExitError(ExitCommandError, "read counter failed", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [NAME]",
		Short: "Print the recorded calls of an operation",
		Long: `Print the call count of an operation (default Cache.store) followed by
one line per recorded call with its arguments and result.

Examples:
  histcache replay
  histcache replay Cache.store --config histcache.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := opts.openCache(ctx, cmd)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			if err := c.Replay(ctx, opName(args)); err != nil {
				return WrapExitError(ExitCommandError, "replay failed", err)
			}
			return nil
		},
	}
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo [VALUE...]",
		Short: "Store values in one session and replay them",
		Long: `Store each VALUE (integers as int, everything else as text) and replay
Cache.store. Without arguments stores foo, bar and 42.

Useful with the in-process backends, whose data does not outlive the command.

Examples:
  histcache demo --backend memory
  histcache demo a b 7 --backend ristretto`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if len(args) == 0 {
				args = []string{"foo", "bar", "42"}
			}
			c, err := opts.openCache(ctx, cmd)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			for _, raw := range args {
				if _, err := c.Store(ctx, autoValue(raw)); err != nil {
					return WrapExitError(ExitCommandError, "store failed", err)
				}
			}
			if err := c.Replay(ctx, histcache.StoreOp); err != nil {
				return WrapExitError(ExitCommandError, "replay failed", err)
			}
			return nil
		},
	}
}

func opName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return histcache.StoreOp
}
