package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"pointsbot/events"
	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

// GambleConfig holds the lucky roll tunables
type GambleConfig struct {
	MaxDelta int64
	Cooldown time.Duration
}

type gambleService struct {
	uowFactory UnitOfWorkFactory
	cfg        GambleConfig
	now        func() time.Time
	roll       func(maxDelta int64) int64
}

// NewGambleService creates a new gamble service
func NewGambleService(uowFactory UnitOfWorkFactory, cfg GambleConfig) GambleService {
	return &gambleService{
		uowFactory: uowFactory,
		cfg:        cfg,
		now:        time.Now,
		roll:       uniformDelta,
	}
}

// uniformDelta draws uniformly from [-maxDelta, maxDelta] inclusive
func uniformDelta(maxDelta int64) int64 {
	return rand.Int63n(2*maxDelta+1) - maxDelta
}

// LuckyRoll draws a delta and applies it to the user's lifetime points.
// The cooldown is persisted on the balance row, so it survives restarts.
func (s *gambleService) LuckyRoll(ctx context.Context, guildID, userID int64) (int64, int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.BalanceRepository().GetOrCreate(ctx, guildID, userID)
	if err != nil {
		return 0, 0, err
	}

	now := s.now()
	if balance.HasGambled() {
		availableAt := balance.LastGambleAt.Add(s.cfg.Cooldown)
		if now.Before(availableAt) {
			return 0, 0, &CooldownActiveError{Remaining: availableAt.Sub(now)}
		}
	}

	delta := s.roll(s.cfg.MaxDelta)

	updated, err := uow.BalanceRepository().RecordGamble(ctx, guildID, userID, delta, now)
	if err != nil {
		return 0, 0, err
	}

	history := &models.PointsHistory{
		GuildID:      guildID,
		UserID:       userID,
		PointsBefore: balance.Points,
		PointsAfter:  updated.Points,
		ChangeAmount: delta,
		Reason:       models.ChangeReasonLuckyRoll,
		Metadata: map[string]any{
			"delta": delta,
		},
	}
	if err := uow.PointsHistoryRepository().Record(ctx, history); err != nil {
		return 0, 0, err
	}

	uow.EventBus().Publish(events.LuckyRollEvent{
		GuildID:   guildID,
		UserID:    userID,
		Delta:     delta,
		NewPoints: updated.Points,
	})

	if err := uow.Commit(); err != nil {
		return 0, 0, err
	}

	log.WithFields(log.Fields{
		"guildID":   guildID,
		"userID":    userID,
		"delta":     delta,
		"newPoints": updated.Points,
	}).Info("Lucky roll completed")

	return delta, updated.Points, nil
}
