package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/catalog"
	"finitefield.org/pokedex-web/internal/config"
	"finitefield.org/pokedex-web/internal/pokeapi"
)

const userAgent = "pokedex-web/1.0 (+https://github.com/finitefield/pokedex-web)"

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "pokedex-web",
		Short:         "Pokédex web server",
		Long:          `pokedex-web renders the PokeAPI catalog: a list of pokemon, their details and their abilities.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with local overrides (empty to disable)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newInspectCmd(opts))
	return cmd
}

func (o *rootOptions) loadConfig(ctx context.Context) (config.Config, error) {
	cfg, err := config.Load(ctx, config.WithEnvFile(o.envFile))
	if err != nil {
		return config.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// loaders wires the catalog screens to PokeAPI.
type loaders struct {
	list    *catalog.ListLoader
	pokemon *catalog.PokemonLoader
	ability *catalog.AbilityLoader
}

func newLoaders(cfg config.PokeAPIConfig, logger *zap.Logger) (loaders, error) {
	transport := pokeapi.NewHTTPTransport(
		pokeapi.WithTimeout(cfg.Timeout),
		pokeapi.WithUserAgent(userAgent),
		pokeapi.WithLogger(logger.Named("pokeapi")),
	)
	client, err := pokeapi.NewClient(transport, cfg.BaseURL)
	if err != nil {
		return loaders{}, err
	}
	return loaders{
		list:    catalog.NewListLoader(client),
		pokemon: catalog.NewPokemonLoader(client),
		ability: catalog.NewAbilityLoader(client),
	}, nil
}
