package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dukerupert/behaviorchart/internal/config"
	"github.com/dukerupert/behaviorchart/internal/database"
	"github.com/dukerupert/behaviorchart/internal/docstore"
	"github.com/dukerupert/behaviorchart/internal/logging"
	"github.com/dukerupert/behaviorchart/internal/store"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	ConfigFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "behaviorchart",
		Short: "Household behavior chart",
		Long: `Behavior chart for a single household: log daily tasks, earn points,
and trade them for rewards.

Settings come from BEHAVIOR_* environment variables, a .env file in the
working directory, or a config file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to a config file (yaml, toml or json)")

	cmd.AddCommand(
		newServeCommand(opts),
		newSetPINCommand(opts),
		newSeedStreakCommand(opts),
	)
	return cmd
}

// env is what every subcommand needs once configuration is loaded.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  store.Store
}

func (o *rootOptions) load(ctx context.Context) (*env, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, store: st}, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendFirestore:
		logger.Info("opening firestore", "project", cfg.FirestoreProject)
		st, err := docstore.Open(ctx, cfg.FirestoreProject, cfg.FirebaseKeyJSON)
		if err != nil {
			return nil, fmt.Errorf("open firestore: %w", err)
		}
		return st, nil
	default:
		logger.Info("opening database", "path", cfg.DBPath)
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return store.NewSQLStore(db), nil
	}
}
