package service

import (
	"context"
	"fmt"

	"pointsbot/events"
	"pointsbot/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type rewardService struct {
	uowFactory UnitOfWorkFactory
}

// NewRewardService creates a new reward service
func NewRewardService(uowFactory UnitOfWorkFactory) RewardService {
	return &rewardService{uowFactory: uowFactory}
}

// Redeem validates and executes a redemption. Validation order is fixed:
// the reward name is checked before cost, so an unknown name never
// reveals anything about the caller's balance.
func (s *rewardService) Redeem(ctx context.Context, guildID, userID int64, rewardName string) (*models.RewardTier, int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tier, err := uow.GuildConfigRepository().GetTier(ctx, guildID, rewardName)
	if err != nil {
		return nil, 0, err
	}
	if tier == nil {
		return nil, 0, ErrUnknownReward
	}

	balance, err := uow.BalanceRepository().GetOrCreate(ctx, guildID, userID)
	if err != nil {
		return nil, 0, err
	}

	debited, err := uow.BalanceRepository().DebitPoints(ctx, guildID, userID, tier.Cost)
	if err != nil {
		return nil, 0, err
	}
	if !debited {
		return nil, 0, ErrInsufficientBalance
	}

	newPoints := balance.Points - tier.Cost
	redemptionID := uuid.NewString()

	history := &models.PointsHistory{
		GuildID:      guildID,
		UserID:       userID,
		PointsBefore: balance.Points,
		PointsAfter:  newPoints,
		ChangeAmount: -tier.Cost,
		Reason:       models.ChangeReasonRewardRedemption,
		Metadata: map[string]any{
			"redemption_id": redemptionID,
			"reward":        tier.Name,
		},
	}
	if err := uow.PointsHistoryRepository().Record(ctx, history); err != nil {
		return nil, 0, err
	}

	config, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, 0, err
	}

	uow.EventBus().Publish(events.RewardRedeemedEvent{
		RedemptionID:    redemptionID,
		GuildID:         guildID,
		UserID:          userID,
		Reward:          tier.Name,
		Cost:            tier.Cost,
		NewPoints:       newPoints,
		NotifyChannelID: config.RewardChannelID,
	})

	if err := uow.Commit(); err != nil {
		return nil, 0, err
	}

	log.WithFields(log.Fields{
		"guildID":      guildID,
		"userID":       userID,
		"reward":       tier.Name,
		"cost":         tier.Cost,
		"redemptionID": redemptionID,
	}).Info("Reward redeemed")

	return tier, newPoints, nil
}

// SetReward upserts a tier. Last writer wins on the cost.
func (s *rewardService) SetReward(ctx context.Context, guildID int64, name string, cost int64) error {
	if name == "" {
		return fmt.Errorf("reward name must not be empty")
	}
	if cost < 0 {
		return fmt.Errorf("reward cost must be non-negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.GuildConfigRepository().UpsertTier(ctx, guildID, name, cost); err != nil {
		return err
	}

	return uow.Commit()
}

// RemoveReward deletes a tier
func (s *rewardService) RemoveReward(ctx context.Context, guildID int64, name string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existed, err := uow.GuildConfigRepository().DeleteTier(ctx, guildID, name)
	if err != nil {
		return err
	}
	if !existed {
		return ErrUnknownReward
	}

	return uow.Commit()
}

// ListRewards returns all tiers for a guild
func (s *rewardService) ListRewards(ctx context.Context, guildID int64) ([]*models.RewardTier, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tiers, err := uow.GuildConfigRepository().ListTiers(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return tiers, nil
}
