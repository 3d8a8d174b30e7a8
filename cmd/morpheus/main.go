package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"morpheusScope/internal/config"
	"morpheusScope/internal/graphql"
	"morpheusScope/internal/subgraph"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "morpheus",
		Short:        "Morpheus builders subgraph and rewards toolkit",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newProjectsCmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newRewardsCmd())
	return root
}

func addNetworkFlags(cmd *cobra.Command) {
	cmd.Flags().String("network", "", "network name from config, or the name of --endpoint")
	cmd.Flags().String("endpoint", "", "subgraph GraphQL endpoint")
	cmd.Flags().Int64("chain-id", 0, "chain id stamped onto records from --endpoint")
	cmd.Flags().String("schema", "canonical", "schema family of --endpoint (legacy, canonical)")
}

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-retries", 5, "retries after a 429 response")
	cmd.Flags().Duration("initial-backoff", time.Second, "initial retry backoff")
	cmd.Flags().Duration("debounce-window", 2*time.Second, "window in which identical requests share one response")
	cmd.Flags().Duration("min-spacing", 250*time.Millisecond, "minimum gap between requests to one endpoint")
	cmd.Flags().Duration("max-jitter", 250*time.Millisecond, "maximum random jitter added to retry waits")
	cmd.Flags().Duration("http-timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().Int("page-size", 100, "records per subgraph page")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newGraphQLClient(cfg config.ClientConfig, logger *zap.Logger) *graphql.Client {
	return graphql.NewClient(graphql.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		DebounceWindow: cfg.DebounceWindow,
		MinSpacing:     cfg.MinSpacing,
		MaxJitter:      cfg.MaxJitter,
		HTTPTimeout:    cfg.HTTPTimeout,
	}, nil, logger)
}

func newSubgraphService(cfg config.ClientConfig, logger *zap.Logger) *subgraph.Service {
	return subgraph.NewService(subgraph.Config{PageSize: cfg.PageSize}, newGraphQLClient(cfg, logger), logger)
}

func toNetwork(cfg config.NetworkConfig) (subgraph.Network, error) {
	schema, err := subgraph.ParseSchema(cfg.Schema)
	if err != nil {
		return subgraph.Network{}, fmt.Errorf("network %s: %w", cfg.Name, err)
	}
	network := subgraph.Network{
		Name:     cfg.Name,
		ChainID:  cfg.ChainID,
		Endpoint: cfg.Endpoint,
		Schema:   schema,
	}
	if err := network.Validate(); err != nil {
		return subgraph.Network{}, err
	}
	return network, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
