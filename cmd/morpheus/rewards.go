package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"morpheusScope/internal/chain"
	"morpheusScope/internal/config"
	"morpheusScope/internal/distribution"
	"morpheusScope/internal/numeric"
	"morpheusScope/internal/rewards"
)

func newRewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Reward estimates and live positions",
	}

	estimateCmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate rewards for a deposit",
		RunE:  runEstimate,
	}
	addChainFlags(estimateCmd)
	estimateCmd.Flags().String("amount", "", "deposit amount in tokens (e.g. 12.5)")
	estimateCmd.Flags().String("pool-rate", "", "current pool rate (10^25 scale); read from chain when empty")
	estimateCmd.Flags().String("user", "", "user address whose stored rate offsets the estimate")
	estimateCmd.Flags().String("power-factor", "x1", "power factor multiplier (e.g. x1.5)")
	estimateCmd.Flags().Float64("years", 0, "project the reward over this many years; 0 disables")
	cmd.AddCommand(estimateCmd)

	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Compute a user's current reward from chain state",
		RunE:  runPosition,
	}
	addChainFlags(positionCmd)
	positionCmd.Flags().String("user", "", "user address")
	cmd.AddCommand(positionCmd)

	return cmd
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("contract", "", "distribution contract address")
	cmd.Flags().String("pool-id", "0", "distribution pool id")
	cmd.Flags().String("at", "", "evaluate at this time (unix seconds or RFC3339); empty means latest block")
	cmd.Flags().Int("max-retries", 5, "maximum RPC retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial RPC retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

type estimateOutput struct {
	rewards.Estimate
	PoolRate string `json:"poolRate,omitempty"`
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRewards(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signalContext()
	defer stop()

	var (
		poolRate *big.Int
		opts     = rewards.EstimateOptions{Years: cfg.Years}
	)
	if cfg.PoolRate != "" {
		poolRate, err = numeric.ParseBigInt(cfg.PoolRate)
		if err != nil {
			return fmt.Errorf("parse pool rate: %w", err)
		}
	} else {
		reader, closeReader, poolID, at, err := openReader(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeReader()

		poolRate, _, err = reader.CurrentPoolRate(ctx, poolID, at)
		if err != nil {
			return err
		}
		if cfg.User != "" {
			user, err := reader.UserRateData(ctx, poolID, cfg.User)
			if err != nil {
				return err
			}
			opts.UserRate = user.Rate
		}
	}

	est := rewards.CalculateEstimatedRewards(cfg.Amount, poolRate, cfg.PowerFactor, opts)
	out := estimateOutput{Estimate: est}
	if poolRate != nil {
		out.PoolRate = poolRate.String()
	}
	if !est.IsValid {
		logger.Warn("estimate invalid", zap.String("reason", string(est.Reason)), zap.String("error", est.Error))
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

type positionOutput struct {
	PoolID           string `json:"poolId"`
	User             string `json:"user"`
	Deposited        string `json:"deposited"`
	VirtualDeposited string `json:"virtualDeposited"`
	PendingRewards   string `json:"pendingRewards"`
	ClaimLockEnd     uint64 `json:"claimLockEnd"`
	PoolRate         string `json:"poolRate"`
	CurrentPoolRate  string `json:"currentPoolRate"`
	CurrentReward    string `json:"currentReward"`
	Formatted        string `json:"formatted"`
	Display          string `json:"display"`
}

func runPosition(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRewards(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.User == "" {
		return fmt.Errorf("user address is required")
	}

	ctx, stop := signalContext()
	defer stop()

	reader, closeReader, poolID, at, err := openReader(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeReader()

	pos, err := reader.UserPosition(ctx, poolID, cfg.User, at)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), positionOutput{
		PoolID:           poolID.String(),
		User:             pos.User.User,
		Deposited:        numeric.FormatBigIntFixed(pos.User.Deposited, numeric.WeiDecimals, 4),
		VirtualDeposited: numeric.FormatBigIntFixed(pos.User.VirtualDeposited, numeric.WeiDecimals, 4),
		PendingRewards:   numeric.FormatBigIntFixed(pos.User.PendingRewards, numeric.WeiDecimals, 4),
		ClaimLockEnd:     pos.User.ClaimLockEnd,
		PoolRate:         pos.Pool.Rate.String(),
		CurrentPoolRate:  pos.CurrentRate.String(),
		CurrentReward:    pos.CurrentReward.String(),
		Formatted:        numeric.FormatBigIntFixed(pos.CurrentReward, numeric.WeiDecimals, 4),
		Display:          rewards.FormatRewardDisplay(pos.CurrentReward),
	})
}

func openReader(ctx context.Context, cfg config.RewardsConfig, logger *zap.Logger) (*distribution.Reader, func(), *big.Int, uint64, error) {
	if cfg.RPCURL == "" {
		return nil, nil, nil, 0, fmt.Errorf("rpc url is required")
	}
	if cfg.Contract == "" {
		return nil, nil, nil, 0, fmt.Errorf("contract address is required")
	}
	poolID, err := numeric.ParseBigInt(cfg.PoolID)
	if err != nil || poolID.Sign() < 0 {
		return nil, nil, nil, 0, fmt.Errorf("invalid pool id %q", cfg.PoolID)
	}
	at, err := config.ParseTimestamp(cfg.At)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("parse at: %w", err)
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("connect rpc: %w", err)
	}
	chainID, err := chainClient.ChainID(ctx)
	if err != nil {
		chainClient.Close()
		return nil, nil, nil, 0, fmt.Errorf("get chain id: %w", err)
	}

	reader, err := distribution.NewReader(distribution.Config{
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryBackoff,
	}, chainClient, cfg.Contract, logger)
	if err != nil {
		chainClient.Close()
		return nil, nil, nil, 0, err
	}

	logger.Info("distribution reader ready",
		zap.String("chain_id", chainID.String()),
		zap.String("contract", cfg.Contract),
		zap.String("pool_id", poolID.String()),
	)
	return reader, chainClient.Close, poolID, at, nil
}
