package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/unkn0wn-root/histcache/docstore"
)

// NewDocsCommand creates the docs command group.
func NewDocsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List and insert documents in the configured collection",
	}
	cmd.AddCommand(newDocsListCommand(opts))
	cmd.AddCommand(newDocsInsertCommand(opts))
	return cmd
}

func newDocsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every document as relaxed extended JSON, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			coll, release, err := opts.openCollection(ctx)
			if err != nil {
				return err
			}
			defer release(ctx)

			cur, err := docstore.ListAll(ctx, coll)
			if err != nil {
				return WrapExitError(ExitCommandError, "list failed", err)
			}
			defer cur.Close(ctx)

			out := cmd.OutOrStdout()
			for cur.Next(ctx) {
				line, err := bson.MarshalExtJSON(cur.Current, false, false)
				if err != nil {
					return WrapExitError(ExitCommandError, "render document", err)
				}
				fmt.Fprintln(out, string(line))
			}
			if err := cur.Err(); err != nil {
				return WrapExitError(ExitCommandError, "list failed", err)
			}
			return nil
		},
	}
}

func newDocsInsertCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insert FIELD=VALUE...",
		Short: "Insert one document and print its _id",
		Long: `Insert one document built from FIELD=VALUE pairs. Integer values are
stored as integers, everything else as strings.

Examples:
  histcache docs insert name=UCSF address="505 Parnassus Ave"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			fields, err := parseFields(args)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid field", err)
			}
			coll, release, err := opts.openCollection(ctx)
			if err != nil {
				return err
			}
			defer release(ctx)

			id, err := docstore.Insert(ctx, coll, fields)
			if err != nil {
				return WrapExitError(ExitCommandError, "insert failed", err)
			}
			if oid, ok := id.(primitive.ObjectID); ok {
				fmt.Fprintln(cmd.OutOrStdout(), oid.Hex())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func parseFields(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected FIELD=VALUE, got %q", a)
		}
		fields[k] = autoValue(v)
	}
	return fields, nil
}
