package distribution

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"morpheusScope/internal/model"
	"morpheusScope/internal/rewards"
)

// Caller is the subset of chain.Client the reader needs.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	LatestBlockTime(ctx context.Context) (uint64, error)
}

const defaultRetryDelay = 100 * time.Millisecond

// Config controls RPC retries.
type Config struct {
	MaxRetries int
	RetryDelay time.Duration
}

// Reader reads pool and user snapshots from a distribution contract.
type Reader struct {
	cfg      Config
	caller   Caller
	contract common.Address
	logger   *zap.Logger
}

func NewReader(cfg Config, caller Caller, contract string, logger *zap.Logger) (*Reader, error) {
	if caller == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("invalid contract address: %q", contract)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		cfg:      cfg,
		caller:   caller,
		contract: common.HexToAddress(contract),
		logger:   logger,
	}, nil
}

// PoolRateData reads poolsData(poolID).
func (r *Reader) PoolRateData(ctx context.Context, poolID *big.Int) (model.PoolRateData, error) {
	values, err := r.call(ctx, "poolsData", poolID)
	if err != nil {
		return model.PoolRateData{}, err
	}
	if len(values) < 3 {
		return model.PoolRateData{}, fmt.Errorf("poolsData: expected 3 outputs, got %d", len(values))
	}

	out := model.PoolRateData{PoolID: new(big.Int).Set(poolID)}
	if out.LastUpdate, err = asUint64(values[0]); err != nil {
		return model.PoolRateData{}, fmt.Errorf("poolsData lastUpdate: %w", err)
	}
	if out.Rate, err = asBigInt(values[1]); err != nil {
		return model.PoolRateData{}, fmt.Errorf("poolsData rate: %w", err)
	}
	if out.TotalVirtualDeposited, err = asBigInt(values[2]); err != nil {
		return model.PoolRateData{}, fmt.Errorf("poolsData totalVirtualDeposited: %w", err)
	}
	return out, nil
}

// UserRateData reads usersData(user, poolID).
func (r *Reader) UserRateData(ctx context.Context, poolID *big.Int, user string) (model.UserRateData, error) {
	if !common.IsHexAddress(user) {
		return model.UserRateData{}, fmt.Errorf("invalid user address: %q", user)
	}
	addr := common.HexToAddress(user)

	values, err := r.call(ctx, "usersData", addr, poolID)
	if err != nil {
		return model.UserRateData{}, err
	}
	if len(values) < 9 {
		return model.UserRateData{}, fmt.Errorf("usersData: expected 9 outputs, got %d", len(values))
	}

	out := model.UserRateData{PoolID: new(big.Int).Set(poolID), User: addr.Hex()}
	ints := []struct {
		name string
		dst  **big.Int
		idx  int
	}{
		{"deposited", &out.Deposited, 1},
		{"rate", &out.Rate, 2},
		{"pendingRewards", &out.PendingRewards, 3},
		{"virtualDeposited", &out.VirtualDeposited, 6},
	}
	for _, f := range ints {
		if *f.dst, err = asBigInt(values[f.idx]); err != nil {
			return model.UserRateData{}, fmt.Errorf("usersData %s: %w", f.name, err)
		}
	}
	times := []struct {
		name string
		dst  *uint64
		idx  int
	}{
		{"lastStake", &out.LastStake, 0},
		{"claimLockStart", &out.ClaimLockStart, 4},
		{"claimLockEnd", &out.ClaimLockEnd, 5},
		{"lastClaim", &out.LastClaim, 7},
	}
	for _, f := range times {
		if *f.dst, err = asUint64(values[f.idx]); err != nil {
			return model.UserRateData{}, fmt.Errorf("usersData %s: %w", f.name, err)
		}
	}
	referrer, err := asAddress(values[8])
	if err != nil {
		return model.UserRateData{}, fmt.Errorf("usersData referrer: %w", err)
	}
	out.Referrer = referrer.Hex()
	return out, nil
}

// PeriodReward reads getPeriodReward(poolID, start, end).
func (r *Reader) PeriodReward(ctx context.Context, poolID *big.Int, start, end uint64) (*big.Int, error) {
	if end <= start {
		return big.NewInt(0), nil
	}
	values, err := r.call(ctx, "getPeriodReward", poolID,
		new(big.Int).SetUint64(start), new(big.Int).SetUint64(end))
	if err != nil {
		return nil, err
	}
	if len(values) < 1 {
		return nil, fmt.Errorf("getPeriodReward: no output")
	}
	reward, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("getPeriodReward: %w", err)
	}
	return reward, nil
}

// CurrentPoolRate reads the pool and advances its rate to at, a unix time.
// Zero means the latest block time.
func (r *Reader) CurrentPoolRate(ctx context.Context, poolID *big.Int, at uint64) (*big.Int, model.PoolRateData, error) {
	pool, err := r.PoolRateData(ctx, poolID)
	if err != nil {
		return nil, model.PoolRateData{}, err
	}

	now := at
	if now == 0 {
		err = r.retry(ctx, "latestBlockTime", func(ctx context.Context) error {
			var err error
			now, err = r.caller.LatestBlockTime(ctx)
			return err
		})
		if err != nil {
			return nil, model.PoolRateData{}, fmt.Errorf("latest block time: %w", err)
		}
	}

	reward, err := r.PeriodReward(ctx, poolID, pool.LastUpdate, now)
	if err != nil {
		return nil, model.PoolRateData{}, err
	}
	r.logger.Debug("pool rate advanced",
		zap.String("pool_id", poolID.String()),
		zap.Uint64("last_update", pool.LastUpdate),
		zap.Uint64("now", now),
		zap.String("period_reward", reward.String()),
	)
	return rewards.CurrentPoolRate(pool, reward), pool, nil
}

// Position is a user's position with its reward accrued up to now.
type Position struct {
	Pool          model.PoolRateData
	User          model.UserRateData
	CurrentRate   *big.Int
	CurrentReward *big.Int
}

// UserPosition reads pool and user state and computes the user's reward as of
// at. Zero means the latest block time.
func (r *Reader) UserPosition(ctx context.Context, poolID *big.Int, user string, at uint64) (Position, error) {
	rate, pool, err := r.CurrentPoolRate(ctx, poolID, at)
	if err != nil {
		return Position{}, err
	}
	userData, err := r.UserRateData(ctx, poolID, user)
	if err != nil {
		return Position{}, err
	}
	return Position{
		Pool:          pool,
		User:          userData,
		CurrentRate:   rate,
		CurrentReward: rewards.CurrentUserReward(rate, userData),
	}, nil
}

func (r *Reader) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	parsed, err := ABI()
	if err != nil {
		return nil, fmt.Errorf("parse distribution abi: %w", err)
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	var resp []byte
	msg := ethereum.CallMsg{To: &r.contract, Data: data}
	err = r.retry(ctx, method, func(ctx context.Context) error {
		var err error
		resp, err = r.caller.CallContract(ctx, msg, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	return unpack(parsed, method, resp)
}

func unpack(parsed abi.ABI, method string, resp []byte) ([]interface{}, error) {
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// retry runs fn up to MaxRetries+1 times, doubling RetryDelay between attempts.
func (r *Reader) retry(ctx context.Context, op string, fn func(context.Context) error) error {
	delay := r.cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	attempts := max(r.cfg.MaxRetries, 0) + 1

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == attempts {
			break
		}
		r.logger.Warn("rpc call failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}
