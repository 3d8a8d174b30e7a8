package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"morpheusScope/internal/config"
	"morpheusScope/internal/snapshot"
	"morpheusScope/internal/storage"
	"morpheusScope/internal/storage/postgres"
	"morpheusScope/internal/subgraph"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot projects and users of every configured network",
		RunE:  runSnapshot,
	}
	addNetworkFlags(cmd)
	addClientFlags(cmd)
	cmd.Flags().String("out", "./data/builders.jsonl", "output JSONL path (ignored with --pg-dsn)")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
	cmd.Flags().String("state-file", "./data/snapshot_state.json", "local state file; empty uses Postgres state with --pg-dsn")
	cmd.Flags().String("state-name", "builders", "state row name in Postgres")
	cmd.Flags().Duration("min-interval", 0, "skip the run when the last snapshot is more recent")
	return cmd
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSnapshot(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(cfg.Networks) == 0 {
		return fmt.Errorf("no networks configured")
	}
	networks := make([]subgraph.Network, 0, len(cfg.Networks))
	for _, nc := range cfg.Networks {
		network, err := toNetwork(nc)
		if err != nil {
			return err
		}
		networks = append(networks, network)
	}

	ctx, stop := signalContext()
	defer stop()

	var (
		sink       storage.Storage
		stateStore snapshot.StateStore
	)
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = store
		if cfg.StateFile == "" {
			stateStore = &snapshot.DBStateStore{Store: store, Name: cfg.StateName}
		}
	} else {
		if cfg.Out == "" {
			return fmt.Errorf("out path or pg dsn is required")
		}
		sink = storage.NewJsonlStorage(cfg.Out)
	}
	if stateStore == nil && cfg.StateFile != "" {
		stateStore = &snapshot.FileStateStore{Path: cfg.StateFile}
	}

	runner := snapshot.NewRunner(snapshot.RunConfig{
		Networks:    networks,
		MinInterval: cfg.MinInterval,
	}, newSubgraphService(cfg.Client, logger), sink, stateStore, logger)

	logger.Info("snapshot start",
		zap.Int("networks", len(networks)),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", cfg.PGDSN != ""),
		zap.String("state_file", cfg.StateFile),
	)

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("snapshot done",
		zap.Bool("skipped", summary.Skipped),
		zap.Int("networks", len(summary.Networks)),
		zap.Int("failed", summary.Failed()),
	)
	return nil
}
