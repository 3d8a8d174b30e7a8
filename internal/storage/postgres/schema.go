package postgres

// SchemaSQL creates the tables Store writes to.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS builders_projects (
	chain_id BIGINT NOT NULL,
	project_id TEXT NOT NULL,
	network TEXT NOT NULL,
	name TEXT NOT NULL,
	admin TEXT NOT NULL DEFAULT '',
	minimal_deposit NUMERIC(78, 0),
	total_staked NUMERIC(78, 0),
	total_claimed NUMERIC(78, 0),
	total_users BIGINT,
	withdraw_lock_period BIGINT,
	slug TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	starts_at BIGINT,
	claim_lock_end BIGINT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, project_id)
);

CREATE TABLE IF NOT EXISTS builders_users (
	chain_id BIGINT NOT NULL,
	user_id TEXT NOT NULL,
	network TEXT NOT NULL,
	address TEXT NOT NULL,
	project_id TEXT NOT NULL,
	staked NUMERIC(78, 0),
	claimed NUMERIC(78, 0),
	last_stake BIGINT NOT NULL DEFAULT 0,
	claim_lock_end BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, user_id)
);

CREATE INDEX IF NOT EXISTS builders_users_project_idx ON builders_users (chain_id, project_id);

CREATE TABLE IF NOT EXISTS snapshot_state (
	name TEXT PRIMARY KEY,
	last_snapshot_ts BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
