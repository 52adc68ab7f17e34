package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/requestctx"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load a screen and print its state as JSON",
		Long:  `Inspect runs the same loaders the web pages use and prints the resulting state, which helps when debugging upstream data.`,
	}

	run := func(load func(ctx context.Context, l loaders) any) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := root.loadConfig(ctx)
			if err != nil {
				return err
			}
			// Failures surface in the printed state; logs would interleave with it.
			logger := zap.NewNop()
			l, err := newLoaders(cfg.PokeAPI, logger)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(ctx, cfg.Server.RequestTimeout)
			defer cancel()
			ctx = requestctx.WithLogger(ctx, logger)
			ctx = requestctx.WithNavigationID(ctx, ulid.Make().String())
			return writeJSON(cmd.OutOrStdout(), load(ctx, l))
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the pokemon list",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, l loaders) any {
			return l.list.Load(ctx).Snapshot()
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "pokemon <name>",
		Short: "Print a pokemon's detail state",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(func(ctx context.Context, l loaders) any {
				return l.pokemon.Load(ctx, args[0]).Snapshot()
			})(c, args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "ability <name>",
		Short: "Print an ability's detail state",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(func(ctx context.Context, l loaders) any {
				return l.ability.Load(ctx, args[0]).Snapshot()
			})(c, args)
		},
	})
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return nil
}
