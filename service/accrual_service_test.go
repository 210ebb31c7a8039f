package service

import (
	"context"
	"testing"
	"time"

	"pointsbot/events"
	"pointsbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAccrualMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockBalanceRepository, *MockPointsHistoryRepository, *MockEventPublisher) {
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

	return mockFactory, mockUoW, mockBalanceRepo, mockHistoryRepo, mockPublisher
}

func TestAccrualService_HandleMessage_GrantsOncePerWindow(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockBalanceRepo, mockHistoryRepo, mockPublisher := setupAccrualMocks()

	mockBalanceRepo.On("AddActivityPoints", ctx, int64(100), int64(1), int64(3)).
		Return(&models.UserBalance{GuildID: 100, UserID: 1, Points: 3, WeeklyPoints: 3}, nil).Once()
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.PointsHistory) bool {
		return h.Reason == models.ChangeReasonMessageActivity && h.ChangeAmount == 3
	})).Return(nil).Once()
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		change, ok := e.(events.PointsChangeEvent)
		return ok && change.NewPoints == 3
	})).Return().Once()

	svc := NewAccrualService(mockFactory, AccrualConfig{
		MessageReward:   3,
		MessageCooldown: time.Hour,
		VoiceReward:     1,
	})

	granted, err := svc.HandleMessage(ctx, 100, 1)
	assert.NoError(t, err)
	assert.True(t, granted)

	// Second message inside the window is ignored without touching the DB
	granted, err = svc.HandleMessage(ctx, 100, 1)
	assert.NoError(t, err)
	assert.False(t, granted)

	mockBalanceRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestAccrualService_HandleMessage_IndependentPerUser(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockBalanceRepo, mockHistoryRepo, mockPublisher := setupAccrualMocks()

	mockBalanceRepo.On("AddActivityPoints", ctx, int64(100), mock.Anything, int64(3)).
		Return(&models.UserBalance{GuildID: 100, Points: 3, WeeklyPoints: 3}, nil).Twice()
	mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil).Twice()
	mockPublisher.On("Publish", mock.Anything).Return().Twice()

	svc := NewAccrualService(mockFactory, AccrualConfig{
		MessageReward:   3,
		MessageCooldown: time.Hour,
	})

	granted, err := svc.HandleMessage(ctx, 100, 1)
	assert.NoError(t, err)
	assert.True(t, granted)

	granted, err = svc.HandleMessage(ctx, 100, 2)
	assert.NoError(t, err)
	assert.True(t, granted)

	mockBalanceRepo.AssertExpectations(t)
}

func TestAccrualService_VoiceRosterTracking(t *testing.T) {
	mockFactory, _, _, _, _ := setupAccrualMocks()

	svc := NewAccrualService(mockFactory, AccrualConfig{VoiceReward: 1})

	svc.HandleVoiceState(100, 1, true, false)
	svc.HandleVoiceState(100, 2, true, false)
	assert.Equal(t, 2, svc.ActiveVoiceUsers())

	// Self-deafening removes a user from the roster
	svc.HandleVoiceState(100, 1, true, true)
	assert.Equal(t, 1, svc.ActiveVoiceUsers())

	// Leaving the channel removes a user
	svc.HandleVoiceState(100, 2, false, false)
	assert.Equal(t, 0, svc.ActiveVoiceUsers())
}

func TestAccrualService_GrantVoiceTick(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockBalanceRepo, mockHistoryRepo, mockPublisher := setupAccrualMocks()

	mockBalanceRepo.On("AddActivityPoints", ctx, int64(100), mock.Anything, int64(1)).
		Return(&models.UserBalance{GuildID: 100, Points: 1, WeeklyPoints: 1}, nil).Twice()
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.PointsHistory) bool {
		return h.Reason == models.ChangeReasonVoiceActivity
	})).Return(nil).Twice()
	mockPublisher.On("Publish", mock.Anything).Return().Twice()

	svc := NewAccrualService(mockFactory, AccrualConfig{VoiceReward: 1})
	svc.HandleVoiceState(100, 1, true, false)
	svc.HandleVoiceState(100, 2, true, false)

	err := svc.GrantVoiceTick(ctx)
	assert.NoError(t, err)

	mockBalanceRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestAccrualService_GrantVoiceTick_EmptyRoster(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)

	svc := NewAccrualService(mockFactory, AccrualConfig{VoiceReward: 1})

	// No roster entries: no transactions are opened at all
	err := svc.GrantVoiceTick(ctx)
	assert.NoError(t, err)
	mockFactory.AssertNotCalled(t, "Create")
}
