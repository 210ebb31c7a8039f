package service

import (
	"context"
	"testing"

	"pointsbot/events"
	"pointsbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupLeaderboardMocks() (*MockUnitOfWorkFactory, *MockBalanceRepository, *MockGuildConfigRepository, *MockEventPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockConfigRepo := new(MockGuildConfigRepository)
	mockHistoryRepo := new(MockPointsHistoryRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockBalanceRepo, mockConfigRepo, mockHistoryRepo, mockPublisher)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockBalanceRepo, mockConfigRepo, mockPublisher
}

// balances arrive in (created_at, user_id) order from the repository
func guildBalances() []*models.UserBalance {
	return []*models.UserBalance{
		{GuildID: 100, UserID: 1, Points: 500, WeeklyPoints: 50},
		{GuildID: 100, UserID: 2, Points: 0, WeeklyPoints: 0},
		{GuildID: 100, UserID: 3, Points: 1200, WeeklyPoints: 10},
		{GuildID: 100, UserID: 4, Points: -300, WeeklyPoints: 0},
		{GuildID: 100, UserID: 5, Points: 500, WeeklyPoints: 200},
	}
}

func TestLeaderboardService_TopN(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockBalanceRepo, _, _ := setupLeaderboardMocks()

	mockBalanceRepo.On("ListByGuild", ctx, int64(100)).Return(guildBalances(), nil)

	svc := NewLeaderboardService(mockFactory, 10)

	t.Run("excludes zero-point users", func(t *testing.T) {
		entries, err := svc.TopN(ctx, 100, 10, true)
		require.NoError(t, err)
		require.Len(t, entries, 4)

		assert.Equal(t, int64(3), entries[0].UserID)
		assert.Equal(t, int64(1200), entries[0].Points)
		assert.Equal(t, 1, entries[0].Rank)

		// Tie on 500: user 1 was seen first and wins the tie
		assert.Equal(t, int64(1), entries[1].UserID)
		assert.Equal(t, int64(5), entries[2].UserID)

		// Negative points rank below everyone
		assert.Equal(t, int64(4), entries[3].UserID)
		assert.Equal(t, 4, entries[3].Rank)
	})

	t.Run("truncates to n", func(t *testing.T) {
		entries, err := svc.TopN(ctx, 100, 2, true)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(3), entries[0].UserID)
	})
}

func TestLeaderboardService_BottomN(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockBalanceRepo, _, _ := setupLeaderboardMocks()

	mockBalanceRepo.On("ListByGuild", ctx, int64(100)).Return(guildBalances(), nil)

	svc := NewLeaderboardService(mockFactory, 10)

	entries, err := svc.BottomN(ctx, 100, 10)
	require.NoError(t, err)

	// Only negative balances qualify
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4), entries[0].UserID)
	assert.Equal(t, int64(-300), entries[0].Points)
}

func TestLeaderboardService_RankOf(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockBalanceRepo, _, _ := setupLeaderboardMocks()

	mockBalanceRepo.On("ListByGuild", ctx, int64(100)).Return(guildBalances(), nil)

	svc := NewLeaderboardService(mockFactory, 10)

	t.Run("ranked user", func(t *testing.T) {
		result, err := svc.RankOf(ctx, 100, 5)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 3, result.Rank)
		assert.Equal(t, 4, result.TotalRanked)
	})

	t.Run("zero-point user is unranked", func(t *testing.T) {
		result, err := svc.RankOf(ctx, 100, 2)
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("never-seen user", func(t *testing.T) {
		_, err := svc.RankOf(ctx, 100, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLeaderboardService_WeeklyTop(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockBalanceRepo, _, _ := setupLeaderboardMocks()

	mockBalanceRepo.On("ListByGuild", ctx, int64(100)).Return(guildBalances(), nil)

	svc := NewLeaderboardService(mockFactory, 10)

	entries, err := svc.WeeklyTop(ctx, 100, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, int64(5), entries[0].UserID)
	assert.Equal(t, int64(200), entries[0].Points)
	assert.Equal(t, int64(1), entries[1].UserID)
	assert.Equal(t, int64(3), entries[2].UserID)
}

func TestLeaderboardService_WeeklyReset(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockBalanceRepo, mockConfigRepo, mockPublisher := setupLeaderboardMocks()

	weeklyChannel := int64(888)

	mockBalanceRepo.On("ListByGuild", ctx, int64(100)).Return(guildBalances(), nil)

	// Only users with a non-zero weekly counter are touched
	mockBalanceRepo.On("ZeroWeeklyPoints", ctx, int64(100), int64(1)).Return(nil).Once()
	mockBalanceRepo.On("ZeroWeeklyPoints", ctx, int64(100), int64(3)).Return(nil).Once()
	mockBalanceRepo.On("ZeroWeeklyPoints", ctx, int64(100), int64(5)).Return(nil).Once()

	mockConfigRepo.On("GetOrCreate", ctx, int64(100)).
		Return(&models.GuildConfig{GuildID: 100, WeeklyChannelID: &weeklyChannel}, nil)

	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		reset, ok := e.(events.WeeklyResetEvent)
		if !ok || reset.GuildID != 100 || reset.UsersReset != 3 {
			return false
		}
		// Top list is captured before zeroing
		return len(reset.Top) == 5 &&
			reset.Top[0].UserID == 5 && reset.Top[0].Points == 200 &&
			reset.AnnounceChannelID != nil && *reset.AnnounceChannelID == 888
	})).Return()

	svc := NewLeaderboardService(mockFactory, 10)

	err := svc.WeeklyReset(ctx, 100)
	require.NoError(t, err)

	mockBalanceRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}
