package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"morpheusScope/internal/model"
	"morpheusScope/internal/storage"
	"morpheusScope/internal/subgraph"
)

// Source fetches canonical builder data for a network.
type Source interface {
	Projects(ctx context.Context, network subgraph.Network) (model.BuildersProjectsResponse, error)
	Users(ctx context.Context, network subgraph.Network, projectID string) (model.BuildersUsersResponse, error)
}

// RunConfig holds runtime settings for a snapshot.
type RunConfig struct {
	Networks []subgraph.Network
	// MinInterval skips the run when the last snapshot is more recent.
	MinInterval time.Duration
}

// NetworkResult reports what one network contributed to a run.
type NetworkResult struct {
	Network  string
	ChainID  int64
	Projects int
	Users    int
	Err      error
}

// Summary reports a finished run.
type Summary struct {
	StartedAt time.Time
	Skipped   bool
	Networks  []NetworkResult
}

// Failed counts networks that errored.
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Networks {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Runner snapshots every configured network into storage.
type Runner struct {
	cfg     RunConfig
	source  Source
	storage storage.Storage
	state   StateStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewRunner builds a Runner. A nil state store disables resume and interval checks.
func NewRunner(cfg RunConfig, source Source, sink storage.Storage, state StateStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		source:  source,
		storage: sink,
		state:   state,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one snapshot. It fails only when every network failed.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{StartedAt: r.now().UTC()}
	if r.source == nil {
		return summary, fmt.Errorf("source is nil")
	}
	if r.storage == nil {
		return summary, fmt.Errorf("storage is nil")
	}
	if len(r.cfg.Networks) == 0 {
		return summary, fmt.Errorf("at least one network is required")
	}

	if r.state != nil && r.cfg.MinInterval > 0 {
		last, ok, err := r.state.Load(ctx)
		if err != nil {
			return summary, err
		}
		if ok {
			lastAt := time.Unix(int64(last), 0).UTC()
			if summary.StartedAt.Sub(lastAt) < r.cfg.MinInterval {
				r.logger.Info("snapshot skipped", zap.Time("last_snapshot", lastAt), zap.Duration("min_interval", r.cfg.MinInterval))
				summary.Skipped = true
				return summary, nil
			}
		}
	}

	var errs []error
	for _, network := range r.cfg.Networks {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := r.snapshotNetwork(ctx, network)
		summary.Networks = append(summary.Networks, result)
		if result.Err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			r.logger.Warn("network snapshot failed", zap.String("network", network.Name), zap.Error(result.Err))
			errs = append(errs, fmt.Errorf("%s: %w", network.Name, result.Err))
			continue
		}
		r.logger.Info("network snapshot complete",
			zap.String("network", network.Name),
			zap.Int64("chain_id", network.ChainID),
			zap.Int("projects", result.Projects),
			zap.Int("users", result.Users),
		)
	}

	if len(errs) == len(r.cfg.Networks) {
		return summary, fmt.Errorf("all networks failed: %w", errors.Join(errs...))
	}

	if r.state != nil {
		if err := r.state.Save(ctx, uint64(summary.StartedAt.Unix())); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (r *Runner) snapshotNetwork(ctx context.Context, network subgraph.Network) NetworkResult {
	result := NetworkResult{Network: network.Name, ChainID: network.ChainID}

	projects, err := r.source.Projects(ctx, network)
	if err != nil {
		result.Err = fmt.Errorf("fetch projects: %w", err)
		return result
	}
	if err := r.storage.PutProjects(ctx, network.Name, projects.BuildersProjects.Items); err != nil {
		result.Err = fmt.Errorf("store projects: %w", err)
		return result
	}
	result.Projects = len(projects.BuildersProjects.Items)

	users, err := r.source.Users(ctx, network, "")
	if err != nil {
		result.Err = fmt.Errorf("fetch users: %w", err)
		return result
	}
	if err := r.storage.PutUsers(ctx, network.Name, users.BuildersUsers.Items); err != nil {
		result.Err = fmt.Errorf("store users: %w", err)
		return result
	}
	result.Users = len(users.BuildersUsers.Items)
	return result
}
