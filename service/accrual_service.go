package service

import (
	"context"
	"fmt"
	"time"

	"pointsbot/events"
	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

// AccrualConfig holds the accrual tunables
type AccrualConfig struct {
	MessageReward   int64
	MessageCooldown time.Duration
	VoiceReward     int64
}

type accrualService struct {
	uowFactory UnitOfWorkFactory
	cooldowns  *CooldownTracker
	roster     *VoiceRoster
	cfg        AccrualConfig
}

// NewAccrualService creates a new accrual service
func NewAccrualService(uowFactory UnitOfWorkFactory, cfg AccrualConfig) AccrualService {
	return &accrualService{
		uowFactory: uowFactory,
		cooldowns:  NewCooldownTracker(),
		roster:     NewVoiceRoster(),
		cfg:        cfg,
	}
}

// HandleMessage grants the message reward if the user's cooldown window
// is clear. The cooldown is acquired before the database write, so a
// burst of messages settles to exactly one grant per window.
func (s *accrualService) HandleMessage(ctx context.Context, guildID, userID int64) (bool, error) {
	if !s.cooldowns.TryAcquire(userID, ActivityMessage, s.cfg.MessageCooldown) {
		return false, nil
	}

	if err := s.grant(ctx, guildID, userID, s.cfg.MessageReward, models.ChangeReasonMessageActivity); err != nil {
		return false, err
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"userID":  userID,
		"amount":  s.cfg.MessageReward,
	}).Debug("Granted message activity points")

	return true, nil
}

// HandleVoiceState updates the roster from a gateway voice state change.
// Active means present in a voice channel and not self-deafened.
func (s *accrualService) HandleVoiceState(guildID, userID int64, channelPresent, selfDeafened bool) {
	if channelPresent && !selfDeafened {
		s.roster.Set(guildID, userID)
	} else {
		s.roster.Remove(guildID, userID)
	}
}

// GrantVoiceTick awards the voice reward to every active user. Each
// grant runs in its own transaction; one failure never blocks the rest
// of the roster.
func (s *accrualService) GrantVoiceTick(ctx context.Context) error {
	snapshot := s.roster.Snapshot()

	var failures int
	for guildID, userIDs := range snapshot {
		for _, userID := range userIDs {
			if err := s.grant(ctx, guildID, userID, s.cfg.VoiceReward, models.ChangeReasonVoiceActivity); err != nil {
				failures++
				log.WithFields(log.Fields{
					"guildID": guildID,
					"userID":  userID,
				}).WithError(err).Error("Failed to grant voice tick points")
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("voice tick failed for %d users", failures)
	}
	return nil
}

// ActiveVoiceUsers returns the current roster size
func (s *accrualService) ActiveVoiceUsers() int {
	return s.roster.Count()
}

func (s *accrualService) grant(ctx context.Context, guildID, userID, amount int64, reason models.ChangeReason) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.BalanceRepository().AddActivityPoints(ctx, guildID, userID, amount)
	if err != nil {
		return err
	}

	history := &models.PointsHistory{
		GuildID:      guildID,
		UserID:       userID,
		PointsBefore: balance.Points - amount,
		PointsAfter:  balance.Points,
		ChangeAmount: amount,
		Reason:       reason,
	}
	if err := uow.PointsHistoryRepository().Record(ctx, history); err != nil {
		return err
	}

	uow.EventBus().Publish(events.PointsChangeEvent{
		GuildID:      guildID,
		UserID:       userID,
		OldPoints:    balance.Points - amount,
		NewPoints:    balance.Points,
		ChangeAmount: amount,
		Reason:       reason,
	})

	return uow.Commit()
}
