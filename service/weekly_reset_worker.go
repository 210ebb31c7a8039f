package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// WeeklyResetWorker runs the weekly points reset for every known guild
type WeeklyResetWorker struct {
	uowFactory  UnitOfWorkFactory
	leaderboard LeaderboardService
}

// NewWeeklyResetWorker creates a new weekly reset worker
func NewWeeklyResetWorker(uowFactory UnitOfWorkFactory, leaderboard LeaderboardService) *WeeklyResetWorker {
	return &WeeklyResetWorker{
		uowFactory:  uowFactory,
		leaderboard: leaderboard,
	}
}

// Start begins the weekly reset worker and returns a stop function
func (w *WeeklyResetWorker) Start(ctx context.Context, interval time.Duration) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Weekly reset worker started, resetting every %v", interval)

		for {
			select {
			case <-ctx.Done():
				log.Info("Weekly reset worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Weekly reset worker shutting down (stop requested)...")
				return
			case <-time.After(interval):
				w.resetAllGuilds(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// resetAllGuilds resets weekly points for every guild with balance rows.
// Errors are logged per guild so one failure never blocks the rest.
func (w *WeeklyResetWorker) resetAllGuilds(ctx context.Context) {
	log.Info("Processing weekly reset for all guilds")

	guildIDs, err := w.listGuilds(ctx)
	if err != nil {
		log.Errorf("Error listing guilds for weekly reset: %v", err)
		return
	}

	for _, guildID := range guildIDs {
		if err := w.leaderboard.WeeklyReset(ctx, guildID); err != nil {
			log.WithField("guildID", guildID).Errorf("Error running weekly reset: %v", err)
		}
	}
}

func (w *WeeklyResetWorker) listGuilds(ctx context.Context) ([]int64, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	guildIDs, err := uow.BalanceRepository().ListGuildIDs(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return guildIDs, nil
}
