package models

import (
	"time"
)

// GuildConfig holds per-guild notification channels. Tiers live in
// their own table (see RewardTier) so redemption always reads the
// current cost.
type GuildConfig struct {
	GuildID         int64     `db:"guild_id"`
	RewardChannelID *int64    `db:"reward_channel_id"`
	WeeklyChannelID *int64    `db:"weekly_channel_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// RewardTier is a named reward with a point cost, unique per guild.
type RewardTier struct {
	GuildID   int64     `db:"guild_id"`
	Name      string    `db:"name"`
	Cost      int64     `db:"cost"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
