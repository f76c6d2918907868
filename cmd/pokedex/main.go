// Command pokedex is a terminal consumer of the catalog and detail pipelines.
//
// Usage:
//
//	pokedex catalog --type fire --pages 2
//	pokedex catalog --generation generation-i --name saur
//	pokedex entry 25 --json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/pokedex-client/internal/config"
	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/Sternrassler/pokedex-client/pkg/metrics"
	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	pretty     bool
	metrics    bool
}

// app holds the wired pipeline dependencies of one invocation.
type app struct {
	cfg     *config.Config
	client  *client.Client
	api     *pokeapi.API
	fetcher *pagination.BatchFetcher
	redis   *redis.Client
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var a *app

	root := &cobra.Command{
		Use:           "pokedex",
		Short:         "Browse the PokeAPI catalog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = opts.logLevel
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Log.Pretty = opts.pretty
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logCfg := cfg.LoggingConfig()
			logCfg.Output = cmd.ErrOrStderr()
			logging.Setup(logCfg)

			a, err = newApp(cmd.Context(), cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.metrics {
				return metrics.WriteText(cmd.ErrOrStderr(), "pokeapi_")
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (default $POKEDEX_CONFIG)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.pretty, "pretty", false, "human-readable log output")
	flags.BoolVar(&opts.metrics, "metrics", false, "dump pokeapi_* metrics to stderr on exit")

	appFn := func() *app { return a }
	root.AddCommand(newCatalogCmd(appFn), newEntryCmd(appFn))

	return root
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := logging.NewLogger("cli")
	a := &app{
		cfg:     cfg,
		fetcher: pagination.NewBatchFetcher(cfg.FanoutConfig()),
	}

	clientCfg := cfg.ClientConfig()
	if cfg.Cache.Enabled {
		opts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.redis = redis.NewClient(opts)
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.redis.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
		clientCfg.Redis = a.redis
	}

	c, err := client.New(clientCfg)
	if err != nil {
		if a.redis != nil {
			a.redis.Close()
		}
		return nil, fmt.Errorf("create client: %w", err)
	}
	a.client = c
	a.api = pokeapi.New(c)

	logger.Debug().
		Str("base_url", cfg.API.BaseURL).
		Bool("cache", cfg.Cache.Enabled).
		Int("page_size", cfg.Catalog.PageSize).
		Bool("unlimited", c.Limiter().State().Unlimited()).
		Msg("Client ready")

	return a, nil
}

// Close releases the client and the Redis connection.
func (a *app) Close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
