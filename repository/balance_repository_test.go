package repository

import (
	"context"
	"testing"
	"time"

	"pointsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceRepository_GetByUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("returns nil for never-seen user", func(t *testing.T) {
		balance, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		assert.Nil(t, balance)
	})

	t.Run("returns existing row", func(t *testing.T) {
		created, err := repo.GetOrCreate(ctx, 100, 1)
		require.NoError(t, err)

		balance, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		require.NotNil(t, balance)
		assert.Equal(t, created.GuildID, balance.GuildID)
		assert.Equal(t, created.UserID, balance.UserID)
		assert.Equal(t, int64(0), balance.Points)
	})
}

func TestBalanceRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	balance, err := repo.GetOrCreate(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Points)
	assert.Equal(t, int64(0), balance.WeeklyPoints)
	assert.False(t, balance.HasGambled())

	// Idempotent: a second call returns the same row untouched
	_, err = repo.AddPoints(ctx, 100, 1, 50)
	require.NoError(t, err)

	again, err := repo.GetOrCreate(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), again.Points)
}

func TestBalanceRepository_AddActivityPoints(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates row and increments both totals", func(t *testing.T) {
		balance, err := repo.AddActivityPoints(ctx, 100, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), balance.Points)
		assert.Equal(t, int64(3), balance.WeeklyPoints)

		balance, err = repo.AddActivityPoints(ctx, 100, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(6), balance.Points)
		assert.Equal(t, int64(6), balance.WeeklyPoints)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := repo.AddActivityPoints(ctx, 100, 1, 0)
		assert.Error(t, err)

		_, err = repo.AddActivityPoints(ctx, 100, 1, -5)
		assert.Error(t, err)
	})
}

func TestBalanceRepository_AddAndRemovePoints(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("add has no clamp and leaves weekly untouched", func(t *testing.T) {
		balance, err := repo.AddPoints(ctx, 100, 1, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(500), balance.Points)
		assert.Equal(t, int64(0), balance.WeeklyPoints)

		// Negative deltas are permitted for add (gamble path uses
		// RecordGamble, but admin tooling relies on this)
		balance, err = repo.AddPoints(ctx, 100, 1, -700)
		require.NoError(t, err)
		assert.Equal(t, int64(-200), balance.Points)
	})

	t.Run("remove clamps at zero", func(t *testing.T) {
		_, err := repo.AddPoints(ctx, 100, 2, 30)
		require.NoError(t, err)

		balance, err := repo.RemovePoints(ctx, 100, 2, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance.Points)
	})

	t.Run("remove on never-seen user yields zero row", func(t *testing.T) {
		balance, err := repo.RemovePoints(ctx, 100, 3, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance.Points)
	})
}

func TestBalanceRepository_DebitPoints(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.AddPoints(ctx, 100, 1, 100)
	require.NoError(t, err)

	t.Run("debit succeeds when covered", func(t *testing.T) {
		ok, err := repo.DebitPoints(ctx, 100, 1, 60)
		require.NoError(t, err)
		assert.True(t, ok)

		balance, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(40), balance.Points)
	})

	t.Run("debit fails when short", func(t *testing.T) {
		ok, err := repo.DebitPoints(ctx, 100, 1, 41)
		require.NoError(t, err)
		assert.False(t, ok)

		balance, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(40), balance.Points)
	})

	t.Run("exact-cost debit drains to zero", func(t *testing.T) {
		ok, err := repo.DebitPoints(ctx, 100, 1, 40)
		require.NoError(t, err)
		assert.True(t, ok)

		balance, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance.Points)
	})

	t.Run("zero-cost debit succeeds on existing row", func(t *testing.T) {
		ok, err := repo.DebitPoints(ctx, 100, 1, 0)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("debit fails for missing row", func(t *testing.T) {
		ok, err := repo.DebitPoints(ctx, 100, 99, 10)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBalanceRepository_RecordGamble(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, 100, 1)
	require.NoError(t, err)

	rolledAt := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("negative delta can push points below zero", func(t *testing.T) {
		balance, err := repo.RecordGamble(ctx, 100, 1, -250, rolledAt)
		require.NoError(t, err)
		assert.Equal(t, int64(-250), balance.Points)
		assert.True(t, balance.HasGambled())
		assert.WithinDuration(t, rolledAt, balance.LastGambleAt, time.Second)
	})

	t.Run("weekly points are untouched", func(t *testing.T) {
		balance, err := repo.RecordGamble(ctx, 100, 1, 1000, rolledAt)
		require.NoError(t, err)
		assert.Equal(t, int64(750), balance.Points)
		assert.Equal(t, int64(0), balance.WeeklyPoints)
	})

	t.Run("missing row is an error", func(t *testing.T) {
		_, err := repo.RecordGamble(ctx, 100, 99, 10, rolledAt)
		assert.Error(t, err)
	})
}

func TestBalanceRepository_ZeroWeeklyPoints(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.AddActivityPoints(ctx, 100, 1, 42)
	require.NoError(t, err)

	err = repo.ZeroWeeklyPoints(ctx, 100, 1)
	require.NoError(t, err)

	balance, err := repo.GetByUser(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance.Points)
	assert.Equal(t, int64(0), balance.WeeklyPoints)
}

func TestBalanceRepository_ListByGuild(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	for _, userID := range []int64{3, 1, 2} {
		_, err := repo.GetOrCreate(ctx, 100, userID)
		require.NoError(t, err)
	}
	_, err := repo.GetOrCreate(ctx, 200, 9)
	require.NoError(t, err)

	balances, err := repo.ListByGuild(ctx, 100)
	require.NoError(t, err)
	require.Len(t, balances, 3)

	// Insertion order is preserved through the created_at ordering
	assert.Equal(t, int64(3), balances[0].UserID)
	assert.Equal(t, int64(1), balances[1].UserID)
	assert.Equal(t, int64(2), balances[2].UserID)
}

func TestBalanceRepository_ListGuildIDs(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	guildIDs, err := repo.ListGuildIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, guildIDs)

	for _, guildID := range []int64{300, 100, 100, 200} {
		_, err := repo.GetOrCreate(ctx, guildID, 1)
		require.NoError(t, err)
	}

	guildIDs, err = repo.ListGuildIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200, 300}, guildIDs)
}
