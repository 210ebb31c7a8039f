package service

import (
	"context"
	"time"

	"pointsbot/events"
	"pointsbot/models"

	"github.com/stretchr/testify/mock"
)

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetByUser(ctx context.Context, guildID, userID int64) (*models.UserBalance, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockBalanceRepository) GetOrCreate(ctx context.Context, guildID, userID int64) (*models.UserBalance, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockBalanceRepository) AddActivityPoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error) {
	args := m.Called(ctx, guildID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockBalanceRepository) AddPoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error) {
	args := m.Called(ctx, guildID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockBalanceRepository) RemovePoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error) {
	args := m.Called(ctx, guildID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockBalanceRepository) DebitPoints(ctx context.Context, guildID, userID, amount int64) (bool, error) {
	args := m.Called(ctx, guildID, userID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockBalanceRepository) RecordGamble(ctx context.Context, guildID, userID, delta int64, rolledAt time.Time) (*models.UserBalance, error) {
	args := m.Called(ctx, guildID, userID, delta, rolledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockBalanceRepository) ZeroWeeklyPoints(ctx context.Context, guildID, userID int64) error {
	args := m.Called(ctx, guildID, userID)
	return args.Error(0)
}

func (m *MockBalanceRepository) ListByGuild(ctx context.Context, guildID int64) ([]*models.UserBalance, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserBalance), args.Error(1)
}

func (m *MockBalanceRepository) ListGuildIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) GetTier(ctx context.Context, guildID int64, name string) (*models.RewardTier, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RewardTier), args.Error(1)
}

func (m *MockGuildConfigRepository) UpsertTier(ctx context.Context, guildID int64, name string, cost int64) (*models.RewardTier, error) {
	args := m.Called(ctx, guildID, name, cost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RewardTier), args.Error(1)
}

func (m *MockGuildConfigRepository) DeleteTier(ctx context.Context, guildID int64, name string) (bool, error) {
	args := m.Called(ctx, guildID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildConfigRepository) ListTiers(ctx context.Context, guildID int64) ([]*models.RewardTier, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RewardTier), args.Error(1)
}

// MockPointsHistoryRepository is a mock implementation of PointsHistoryRepository
type MockPointsHistoryRepository struct {
	mock.Mock
}

func (m *MockPointsHistoryRepository) Record(ctx context.Context, history *models.PointsHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockPointsHistoryRepository) GetByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.PointsHistory, error) {
	args := m.Called(ctx, guildID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PointsHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository
// getters return the instances configured via SetRepositories rather
// than going through expectations.
type MockUnitOfWork struct {
	mock.Mock

	balanceRepo       BalanceRepository
	guildConfigRepo   GuildConfigRepository
	pointsHistoryRepo PointsHistoryRepository
	eventPublisher    EventPublisher
}

// SetRepositories configures the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(
	balanceRepo BalanceRepository,
	guildConfigRepo GuildConfigRepository,
	pointsHistoryRepo PointsHistoryRepository,
	eventPublisher EventPublisher,
) {
	m.balanceRepo = balanceRepo
	m.guildConfigRepo = guildConfigRepo
	m.pointsHistoryRepo = pointsHistoryRepo
	m.eventPublisher = eventPublisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) BalanceRepository() BalanceRepository {
	return m.balanceRepo
}

func (m *MockUnitOfWork) GuildConfigRepository() GuildConfigRepository {
	return m.guildConfigRepo
}

func (m *MockUnitOfWork) PointsHistoryRepository() PointsHistoryRepository {
	return m.pointsHistoryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventPublisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
