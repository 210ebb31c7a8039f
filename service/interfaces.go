package service

import (
	"context"
	"time"

	"pointsbot/events"
	"pointsbot/models"
)

// BalanceRepository defines the interface for balance data access
type BalanceRepository interface {
	// GetByUser retrieves a balance row, or nil if the user was never seen
	GetByUser(ctx context.Context, guildID, userID int64) (*models.UserBalance, error)

	// GetOrCreate retrieves a balance row, creating a zeroed one if absent
	GetOrCreate(ctx context.Context, guildID, userID int64) (*models.UserBalance, error)

	// AddActivityPoints atomically adds amount to both points and weekly
	// points, creating the row if needed, and returns the updated row
	AddActivityPoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error)

	// AddPoints atomically adds amount to lifetime points only (no clamp),
	// creating the row if needed, and returns the updated row
	AddPoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error)

	// RemovePoints atomically subtracts amount from lifetime points,
	// clamping at zero, and returns the updated row
	RemovePoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error)

	// DebitPoints subtracts amount only if the user holds at least that
	// many points. Returns false when the guard fails.
	DebitPoints(ctx context.Context, guildID, userID, amount int64) (bool, error)

	// RecordGamble applies the roll delta and stamps last_gamble_at,
	// returning the updated row
	RecordGamble(ctx context.Context, guildID, userID, delta int64, rolledAt time.Time) (*models.UserBalance, error)

	// ZeroWeeklyPoints resets one user's weekly counter
	ZeroWeeklyPoints(ctx context.Context, guildID, userID int64) error

	// ListByGuild returns all balance rows for a guild, ordered by
	// creation time then user ID (the leaderboard tie-break order)
	ListByGuild(ctx context.Context, guildID int64) ([]*models.UserBalance, error)

	// ListGuildIDs returns the distinct guilds with at least one balance row
	ListGuildIDs(ctx context.Context) ([]int64, error)
}

// GuildConfigRepository defines the interface for guild config and tier data access
type GuildConfigRepository interface {
	// GetOrCreate retrieves guild config or creates a default row
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// Update persists channel settings
	Update(ctx context.Context, config *models.GuildConfig) error

	// GetTier retrieves a tier by name, or nil if absent
	GetTier(ctx context.Context, guildID int64, name string) (*models.RewardTier, error)

	// UpsertTier creates or replaces a tier (last writer wins)
	UpsertTier(ctx context.Context, guildID int64, name string, cost int64) (*models.RewardTier, error)

	// DeleteTier removes a tier, reporting whether it existed
	DeleteTier(ctx context.Context, guildID int64, name string) (bool, error)

	// ListTiers returns all tiers for a guild ordered by name
	ListTiers(ctx context.Context, guildID int64) ([]*models.RewardTier, error)
}

// PointsHistoryRepository defines the interface for the points audit trail
type PointsHistoryRepository interface {
	// Record creates a new points history entry
	Record(ctx context.Context, history *models.PointsHistory) error

	// GetByUser returns recent history for a specific user
	GetByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.PointsHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	BalanceRepository() BalanceRepository
	GuildConfigRepository() GuildConfigRepository
	PointsHistoryRepository() PointsHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// AccrualService awards points for message and voice activity
type AccrualService interface {
	// HandleMessage grants the message reward if the user's message
	// cooldown window is clear. Returns whether a grant happened.
	HandleMessage(ctx context.Context, guildID, userID int64) (bool, error)

	// HandleVoiceState updates the active-voice roster from a voice
	// state change. Active means present in a channel and not
	// self-deafened.
	HandleVoiceState(guildID, userID int64, channelPresent, selfDeafened bool)

	// GrantVoiceTick awards the voice reward to every currently-active
	// user, one transaction per user
	GrantVoiceTick(ctx context.Context) error

	// ActiveVoiceUsers returns the current roster size
	ActiveVoiceUsers() int
}

// RewardService manages reward tiers and redemption
type RewardService interface {
	// Redeem validates and executes a redemption, returning the tier and
	// the user's new points total
	Redeem(ctx context.Context, guildID, userID int64, rewardName string) (*models.RewardTier, int64, error)

	// SetReward upserts a tier; cost must be non-negative
	SetReward(ctx context.Context, guildID int64, name string, cost int64) error

	// RemoveReward deletes a tier; ErrUnknownReward if absent
	RemoveReward(ctx context.Context, guildID int64, name string) error

	// ListRewards returns all tiers for a guild
	ListRewards(ctx context.Context, guildID int64) ([]*models.RewardTier, error)
}

// GambleService implements the LuckyRoll mechanic
type GambleService interface {
	// LuckyRoll draws a uniform delta and applies it, subject to the
	// per-user gamble cooldown. Returns the delta and new total.
	LuckyRoll(ctx context.Context, guildID, userID int64) (delta int64, newPoints int64, err error)
}

// LeaderboardService provides read-only rankings and the weekly reset
type LeaderboardService interface {
	// TopN returns the top n users by lifetime points, descending
	TopN(ctx context.Context, guildID int64, n int, excludeZero bool) ([]models.LeaderboardEntry, error)

	// BottomN returns up to n users with negative points, ascending
	BottomN(ctx context.Context, guildID int64, n int) ([]models.LeaderboardEntry, error)

	// RankOf returns a user's rank among users with non-zero points.
	// Returns (nil, nil) when the user holds exactly zero points, and
	// ErrNotFound when the user was never seen.
	RankOf(ctx context.Context, guildID, userID int64) (*models.RankResult, error)

	// WeeklyTop returns the top n users by weekly points, descending
	WeeklyTop(ctx context.Context, guildID int64, n int) ([]models.LeaderboardEntry, error)

	// WeeklyReset captures the weekly top list, zeroes every user's
	// weekly points (one transaction per user, best effort) and
	// publishes a WeeklyResetEvent
	WeeklyReset(ctx context.Context, guildID int64) error
}

// BalanceService exposes balance reads and admin adjustments
type BalanceService interface {
	// GetBalance retrieves a user's balance, creating it lazily
	GetBalance(ctx context.Context, guildID, userID int64) (*models.UserBalance, error)

	// GrantPoints adds points to a user (admin operation, no clamp)
	GrantPoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error)

	// RevokePoints removes points from a user, clamping at zero
	RevokePoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error)
}

// GuildConfigService manages notification channel settings
type GuildConfigService interface {
	// GetConfig retrieves guild config, creating a default row if needed
	GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// SetRewardChannel sets the redemption notification channel
	SetRewardChannel(ctx context.Context, guildID, channelID int64) error

	// SetWeeklyChannel sets the weekly leaderboard announcement channel
	SetWeeklyChannel(ctx context.Context, guildID, channelID int64) error
}
