package service

import (
	"context"
	"fmt"

	"pointsbot/models"
)

type guildConfigService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(uowFactory UnitOfWorkFactory) GuildConfigService {
	return &guildConfigService{uowFactory: uowFactory}
}

// GetConfig retrieves guild config, creating a default row if needed
func (s *guildConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return config, nil
}

// SetRewardChannel sets the redemption notification channel
func (s *guildConfigService) SetRewardChannel(ctx context.Context, guildID, channelID int64) error {
	return s.update(ctx, guildID, func(config *models.GuildConfig) {
		config.RewardChannelID = &channelID
	})
}

// SetWeeklyChannel sets the weekly leaderboard announcement channel
func (s *guildConfigService) SetWeeklyChannel(ctx context.Context, guildID, channelID int64) error {
	return s.update(ctx, guildID, func(config *models.GuildConfig) {
		config.WeeklyChannelID = &channelID
	})
}

func (s *guildConfigService) update(ctx context.Context, guildID int64, mutate func(*models.GuildConfig)) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return err
	}

	mutate(config)

	if err := uow.GuildConfigRepository().Update(ctx, config); err != nil {
		return err
	}

	return uow.Commit()
}
