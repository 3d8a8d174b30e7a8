package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"morpheusScope/internal/model"
)

const upsertProjectSQL = `
	INSERT INTO builders_projects (
		chain_id, project_id, network, name, admin, minimal_deposit, total_staked, total_claimed,
		total_users, withdraw_lock_period, slug, description, website, image, starts_at, claim_lock_end,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		NULLIF($6, '')::numeric, NULLIF($7, '')::numeric, NULLIF($8, '')::numeric,
		NULLIF($9, '')::bigint, NULLIF($10, '')::bigint,
		$11, $12, $13, $14,
		NULLIF($15, '')::bigint, NULLIF($16, '')::bigint,
		now(), now()
	)
	ON CONFLICT (chain_id, project_id)
	DO UPDATE SET
		network = EXCLUDED.network,
		name = EXCLUDED.name,
		admin = EXCLUDED.admin,
		minimal_deposit = EXCLUDED.minimal_deposit,
		total_staked = EXCLUDED.total_staked,
		total_claimed = EXCLUDED.total_claimed,
		total_users = EXCLUDED.total_users,
		withdraw_lock_period = EXCLUDED.withdraw_lock_period,
		slug = EXCLUDED.slug,
		description = EXCLUDED.description,
		website = EXCLUDED.website,
		image = EXCLUDED.image,
		starts_at = COALESCE(EXCLUDED.starts_at, builders_projects.starts_at),
		claim_lock_end = COALESCE(EXCLUDED.claim_lock_end, builders_projects.claim_lock_end),
		updated_at = now()
`

const upsertUserSQL = `
	INSERT INTO builders_users (
		chain_id, user_id, network, address, project_id, staked, claimed, last_stake, claim_lock_end,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		NULLIF($6, '')::numeric, NULLIF($7, '')::numeric,
		COALESCE(NULLIF($8, '')::bigint, 0), COALESCE(NULLIF($9, '')::bigint, 0),
		now(), now()
	)
	ON CONFLICT (chain_id, user_id)
	DO UPDATE SET
		network = EXCLUDED.network,
		address = EXCLUDED.address,
		project_id = EXCLUDED.project_id,
		staked = EXCLUDED.staked,
		claimed = EXCLUDED.claimed,
		last_stake = EXCLUDED.last_stake,
		claim_lock_end = EXCLUDED.claim_lock_end,
		updated_at = now()
`

// Store provides Postgres persistence for builder snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates missing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutProjects upserts projects.
func (s *Store) PutProjects(ctx context.Context, network string, projects []model.BuilderProject) error {
	return s.UpsertBuilderProjects(ctx, network, projects)
}

// PutUsers upserts user positions.
func (s *Store) PutUsers(ctx context.Context, network string, users []model.BuilderUser) error {
	return s.UpsertBuilderUsers(ctx, network, users)
}

// UpsertBuilderProjects inserts or updates builder projects.
func (s *Store) UpsertBuilderProjects(ctx context.Context, network string, projects []model.BuilderProject) error {
	if len(projects) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, args := range projectRows(network, projects) {
		batch.Queue(upsertProjectSQL, args...)
	}
	return s.sendBatch(ctx, batch, len(projects))
}

// UpsertBuilderUsers inserts or updates builder user positions.
func (s *Store) UpsertBuilderUsers(ctx context.Context, network string, users []model.BuilderUser) error {
	if len(users) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, args := range userRows(network, users) {
		batch.Queue(upsertUserSQL, args...)
	}
	return s.sendBatch(ctx, batch, len(users))
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, n int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func projectRows(network string, projects []model.BuilderProject) [][]interface{} {
	rows := make([][]interface{}, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []interface{}{
			p.ChainID,
			p.ID,
			network,
			p.Name,
			p.Admin,
			p.MinimalDeposit,
			p.TotalStaked,
			p.TotalClaimed,
			p.TotalUsers,
			p.WithdrawLockPeriodAfterDeposit,
			p.Slug,
			p.Description,
			p.Website,
			p.Image,
			p.StartsAt,
			p.ClaimLockEnd,
		})
	}
	return rows
}

func userRows(network string, users []model.BuilderUser) [][]interface{} {
	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{
			u.ChainID,
			u.ID,
			network,
			u.Address,
			u.BuildersProject.ID,
			u.Staked,
			u.Claimed,
			u.LastStake,
			u.ClaimLockEnd,
		})
	}
	return rows
}

// LoadState returns last_snapshot_ts for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts int64
	row := s.pool.QueryRow(ctx, `SELECT last_snapshot_ts FROM snapshot_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(ts), true, nil
}

// SaveState upserts last_snapshot_ts for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO snapshot_state (name, last_snapshot_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_snapshot_ts = EXCLUDED.last_snapshot_ts, updated_at = now()
	`, name, int64(ts))
	return err
}
