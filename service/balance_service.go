package service

import (
	"context"
	"fmt"

	"pointsbot/events"
	"pointsbot/models"
)

type balanceService struct {
	uowFactory UnitOfWorkFactory
}

// NewBalanceService creates a new balance service
func NewBalanceService(uowFactory UnitOfWorkFactory) BalanceService {
	return &balanceService{uowFactory: uowFactory}
}

// GetBalance retrieves a user's balance, creating a zeroed row on first
// sight so later operations always have something to update
func (s *balanceService) GetBalance(ctx context.Context, guildID, userID int64) (*models.UserBalance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.BalanceRepository().GetOrCreate(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return balance, nil
}

// GrantPoints adds points to a user. Admin path: no clamp, no weekly
// contribution.
func (s *balanceService) GrantPoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	return s.adjust(ctx, guildID, userID, amount, models.ChangeReasonAdminGrant)
}

// RevokePoints removes points from a user, clamping at zero
func (s *balanceService) RevokePoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	return s.adjust(ctx, guildID, userID, -amount, models.ChangeReasonAdminRevoke)
}

func (s *balanceService) adjust(ctx context.Context, guildID, userID, amount int64, reason models.ChangeReason) (*models.UserBalance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	before, err := uow.BalanceRepository().GetOrCreate(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	var updated *models.UserBalance
	if amount >= 0 {
		updated, err = uow.BalanceRepository().AddPoints(ctx, guildID, userID, amount)
	} else {
		updated, err = uow.BalanceRepository().RemovePoints(ctx, guildID, userID, -amount)
	}
	if err != nil {
		return nil, err
	}

	history := &models.PointsHistory{
		GuildID:      guildID,
		UserID:       userID,
		PointsBefore: before.Points,
		PointsAfter:  updated.Points,
		ChangeAmount: updated.Points - before.Points,
		Reason:       reason,
	}
	if err := uow.PointsHistoryRepository().Record(ctx, history); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.PointsChangeEvent{
		GuildID:      guildID,
		UserID:       userID,
		OldPoints:    before.Points,
		NewPoints:    updated.Points,
		ChangeAmount: updated.Points - before.Points,
		Reason:       reason,
	})

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}
