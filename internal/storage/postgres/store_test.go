package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morpheusScope/internal/model"
)

func TestProjectRowsOrder(t *testing.T) {
	rows := projectRows("base", []model.BuilderProject{{
		ID: "p1", Name: "One", Admin: "0xadmin", MinimalDeposit: "1", TotalStaked: "2",
		TotalClaimed: "3", TotalUsers: "4", WithdrawLockPeriodAfterDeposit: "5",
		StartsAt: "", ClaimLockEnd: "6", ChainID: 8453,
	}})

	require.Len(t, rows, 1)
	require.Len(t, rows[0], 16)
	assert.Equal(t, int64(8453), rows[0][0])
	assert.Equal(t, "p1", rows[0][1])
	assert.Equal(t, "base", rows[0][2])
	assert.Equal(t, "2", rows[0][6])
	assert.Equal(t, "", rows[0][14])
	assert.Equal(t, "6", rows[0][15])
}

func TestUserRowsOrder(t *testing.T) {
	rows := userRows("base", []model.BuilderUser{{
		ID: "u1", Address: "0xabc", Staked: "10", Claimed: "1", LastStake: "0", ClaimLockEnd: "0",
		BuildersProject: model.ProjectRef{ID: "p1"}, ChainID: 8453,
	}})

	require.Len(t, rows, 1)
	require.Len(t, rows[0], 9)
	assert.Equal(t, "p1", rows[0][4])
	assert.Equal(t, "10", rows[0][5])
}

// TestStoreRoundTrip runs against a live database when MORPHEUS_TEST_PG_DSN is set.
func TestStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("MORPHEUS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("MORPHEUS_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	store, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.PutProjects(ctx, "test", []model.BuilderProject{
		{ID: "roundtrip-p1", Name: "One", TotalStaked: "1000000000000000000000", ChainID: 1},
	}))
	require.NoError(t, store.PutUsers(ctx, "test", []model.BuilderUser{
		{ID: "roundtrip-u1", Address: "0xabc", Staked: "5", LastStake: "0", ClaimLockEnd: "0",
			BuildersProject: model.ProjectRef{ID: "roundtrip-p1"}, ChainID: 1},
	}))

	require.NoError(t, store.SaveState(ctx, "roundtrip", 1700000000))
	ts, ok, err := store.LoadState(ctx, "roundtrip")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1700000000), ts)

	_, _, err = store.LoadState(ctx, "")
	assert.Error(t, err)
}
