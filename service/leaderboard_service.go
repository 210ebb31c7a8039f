package service

import (
	"context"
	"fmt"
	"sort"

	"pointsbot/events"
	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

type leaderboardService struct {
	uowFactory UnitOfWorkFactory
	topSize    int
}

// NewLeaderboardService creates a new leaderboard service. topSize is
// the number of entries captured in the weekly reset announcement.
func NewLeaderboardService(uowFactory UnitOfWorkFactory, topSize int) LeaderboardService {
	return &leaderboardService{uowFactory: uowFactory, topSize: topSize}
}

func (s *leaderboardService) listBalances(ctx context.Context, guildID int64) ([]*models.UserBalance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balances, err := uow.BalanceRepository().ListByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return balances, nil
}

// rank converts a points-ordered slice into numbered entries
func rank(balances []*models.UserBalance, points func(*models.UserBalance) int64, n int) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, n)
	for i, b := range balances {
		if i >= n {
			break
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:   i + 1,
			UserID: b.UserID,
			Points: points(b),
		})
	}
	return entries
}

// TopN returns the top n users by lifetime points, descending. The
// underlying list arrives in (created_at, user_id) order, so the stable
// sort gives earliest-seen users the better rank on ties.
func (s *leaderboardService) TopN(ctx context.Context, guildID int64, n int, excludeZero bool) ([]models.LeaderboardEntry, error) {
	balances, err := s.listBalances(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if excludeZero {
		filtered := balances[:0]
		for _, b := range balances {
			if b.Points != 0 {
				filtered = append(filtered, b)
			}
		}
		balances = filtered
	}

	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Points > balances[j].Points
	})

	return rank(balances, func(b *models.UserBalance) int64 { return b.Points }, n), nil
}

// BottomN returns up to n users with negative points, worst first
func (s *leaderboardService) BottomN(ctx context.Context, guildID int64, n int) ([]models.LeaderboardEntry, error) {
	balances, err := s.listBalances(ctx, guildID)
	if err != nil {
		return nil, err
	}

	negative := balances[:0]
	for _, b := range balances {
		if b.Points < 0 {
			negative = append(negative, b)
		}
	}

	sort.SliceStable(negative, func(i, j int) bool {
		return negative[i].Points < negative[j].Points
	})

	return rank(negative, func(b *models.UserBalance) int64 { return b.Points }, n), nil
}

// RankOf returns a user's standing among users with non-zero points
func (s *leaderboardService) RankOf(ctx context.Context, guildID, userID int64) (*models.RankResult, error) {
	balances, err := s.listBalances(ctx, guildID)
	if err != nil {
		return nil, err
	}

	var target *models.UserBalance
	for _, b := range balances {
		if b.UserID == userID {
			target = b
			break
		}
	}
	if target == nil {
		return nil, ErrNotFound
	}
	if target.Points == 0 {
		// Zero-point users are unranked
		return nil, nil
	}

	ranked := balances[:0]
	for _, b := range balances {
		if b.Points != 0 {
			ranked = append(ranked, b)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})

	for i, b := range ranked {
		if b.UserID == userID {
			return &models.RankResult{Rank: i + 1, TotalRanked: len(ranked)}, nil
		}
	}
	return nil, ErrNotFound
}

// WeeklyTop returns the top n users by weekly points, descending
func (s *leaderboardService) WeeklyTop(ctx context.Context, guildID int64, n int) ([]models.LeaderboardEntry, error) {
	balances, err := s.listBalances(ctx, guildID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].WeeklyPoints > balances[j].WeeklyPoints
	})

	return rank(balances, func(b *models.UserBalance) int64 { return b.WeeklyPoints }, n), nil
}

// WeeklyReset captures the weekly top list, zeroes every user's weekly
// counter and publishes a WeeklyResetEvent. Zeroing runs one short
// transaction per user so a single failure leaves the rest of the
// guild reset.
func (s *leaderboardService) WeeklyReset(ctx context.Context, guildID int64) error {
	balances, err := s.listBalances(ctx, guildID)
	if err != nil {
		return err
	}

	sorted := make([]*models.UserBalance, len(balances))
	copy(sorted, balances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeeklyPoints > sorted[j].WeeklyPoints
	})
	top := rank(sorted, func(b *models.UserBalance) int64 { return b.WeeklyPoints }, s.topSize)

	var usersReset int
	for _, b := range balances {
		if b.WeeklyPoints == 0 {
			continue
		}
		if err := s.zeroWeekly(ctx, guildID, b.UserID); err != nil {
			log.WithFields(log.Fields{
				"guildID": guildID,
				"userID":  b.UserID,
			}).WithError(err).Error("Failed to zero weekly points")
			continue
		}
		usersReset++
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return err
	}

	uow.EventBus().Publish(events.WeeklyResetEvent{
		GuildID:           guildID,
		AnnounceChannelID: config.WeeklyChannelID,
		Top:               top,
		UsersReset:        usersReset,
	})

	if err := uow.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"guildID":    guildID,
		"usersReset": usersReset,
	}).Info("Weekly points reset completed")

	return nil
}

func (s *leaderboardService) zeroWeekly(ctx context.Context, guildID, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.BalanceRepository().ZeroWeeklyPoints(ctx, guildID, userID); err != nil {
		return err
	}
	return uow.Commit()
}
