package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"morpheusScope/internal/config"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Print builder user positions of a network in canonical form",
		RunE:  runUsers,
	}
	addNetworkFlags(cmd)
	addClientFlags(cmd)
	cmd.Flags().String("project", "", "limit to one project id")
	return cmd
}

func runUsers(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	selected, err := config.SelectNetwork(cfg.Networks, cfg.Network)
	if err != nil {
		return err
	}
	network, err := toNetwork(selected)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	logger.Info("fetch users",
		zap.String("network", network.Name),
		zap.String("project", cfg.ProjectID),
	)

	out, err := newSubgraphService(cfg.Client, logger).Users(ctx, network, cfg.ProjectID)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
