// Package cli defines the menusvc command line: serve (default) and seed.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"menusvc/internal/app"
	"menusvc/internal/config"
	"menusvc/internal/logging"
	"menusvc/internal/seed"

	"github.com/urfave/cli/v3"
)

const name = "menusvc"

// overridden during build with ldflags
var version = "dev"

type configKey struct{}

// NewCommand builds the root command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Restaurant menu CRUD service",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				Sources: cli.EnvVars("MENUSVC_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); overrides LOG_LEVEL",
			},
		},
		Before:   setup,
		Action:   serve,
		Commands: []*cli.Command{serveCmd(), seedCmd()},
	}
}

// setup loads configuration and installs the logger before any command runs.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	logging.SetDefault(name, version, cfg.LogLevel)
	slog.Debug("configuration loaded", "store", cfg.StoreDriver, "port", cfg.Port)
	return context.WithValue(ctx, configKey{}, cfg), nil
}

func configFrom(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the menu API and front end until interrupted",
		Action: serve,
	}
}

func serve(ctx context.Context, _ *cli.Command) error {
	cfg, err := configFrom(ctx)
	if err != nil {
		return err
	}
	return app.Run(ctx, cfg)
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Replace the menu collection with the default menu",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(ctx)
			if err != nil {
				return err
			}

			store, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(context.Background()); err != nil {
					slog.Warn("failed to close store", "error", err)
				}
			}()

			seedCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
			defer cancel()
			n, err := seed.Rebuild(seedCtx, store.Rebuilder)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.Root().Writer, "seeded %d menu items into %s store\n", n, cfg.StoreDriver)
			return err
		},
	}
}
