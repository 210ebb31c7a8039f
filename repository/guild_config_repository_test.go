package repository

import (
	"context"
	"testing"

	"pointsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	config, err := repo.GetOrCreate(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), config.GuildID)
	assert.Nil(t, config.RewardChannelID)
	assert.Nil(t, config.WeeklyChannelID)
}

func TestGuildConfigRepository_Update(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	config, err := repo.GetOrCreate(ctx, 100)
	require.NoError(t, err)

	rewardChannel := int64(555)
	config.RewardChannelID = &rewardChannel
	err = repo.Update(ctx, config)
	require.NoError(t, err)

	reloaded, err := repo.GetOrCreate(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, reloaded.RewardChannelID)
	assert.Equal(t, int64(555), *reloaded.RewardChannelID)
	assert.Nil(t, reloaded.WeeklyChannelID)
}

func TestGuildConfigRepository_Tiers(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	t.Run("get missing tier returns nil", func(t *testing.T) {
		tier, err := repo.GetTier(ctx, 100, "nitro")
		require.NoError(t, err)
		assert.Nil(t, tier)
	})

	t.Run("upsert creates then replaces", func(t *testing.T) {
		tier, err := repo.UpsertTier(ctx, 100, "nitro", 5000)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), tier.Cost)

		tier, err = repo.UpsertTier(ctx, 100, "nitro", 6000)
		require.NoError(t, err)
		assert.Equal(t, int64(6000), tier.Cost)

		reloaded, err := repo.GetTier(ctx, 100, "nitro")
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, int64(6000), reloaded.Cost)
	})

	t.Run("tiers are scoped per guild", func(t *testing.T) {
		tier, err := repo.GetTier(ctx, 200, "nitro")
		require.NoError(t, err)
		assert.Nil(t, tier)
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		_, err := repo.UpsertTier(ctx, 100, "emote", 1000)
		require.NoError(t, err)
		_, err = repo.UpsertTier(ctx, 100, "sticker", 2500)
		require.NoError(t, err)

		tiers, err := repo.ListTiers(ctx, 100)
		require.NoError(t, err)
		require.Len(t, tiers, 3)
		assert.Equal(t, "emote", tiers[0].Name)
		assert.Equal(t, "nitro", tiers[1].Name)
		assert.Equal(t, "sticker", tiers[2].Name)
	})

	t.Run("delete reports existence", func(t *testing.T) {
		existed, err := repo.DeleteTier(ctx, 100, "emote")
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = repo.DeleteTier(ctx, 100, "emote")
		require.NoError(t, err)
		assert.False(t, existed)
	})
}
