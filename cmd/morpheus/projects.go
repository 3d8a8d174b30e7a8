package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"morpheusScope/internal/config"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Print builder projects of a network in canonical form",
		RunE:  runProjects,
	}
	addNetworkFlags(cmd)
	addClientFlags(cmd)
	return cmd
}

func runProjects(cmd *cobra.Command, _ []string) error {
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

	logger.Info("fetch projects",
		zap.String("network", network.Name),
		zap.String("schema", string(network.Schema)),
		zap.String("endpoint", network.Endpoint),
	)

	out, err := newSubgraphService(cfg.Client, logger).Projects(ctx, network)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
