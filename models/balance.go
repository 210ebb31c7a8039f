package models

import (
	"time"
)

// UserBalance represents one user's points within a guild. Rows are
// created lazily on first activity and never deleted.
type UserBalance struct {
	GuildID      int64     `db:"guild_id"`
	UserID       int64     `db:"user_id"`
	Points       int64     `db:"points"`
	WeeklyPoints int64     `db:"weekly_points"`
	LastGambleAt time.Time `db:"last_gamble_at"` // zero value means never rolled
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// HasGambled reports whether the user has ever used LuckyRoll.
// The column defaults to the Unix epoch for "never".
func (b *UserBalance) HasGambled() bool {
	return b.LastGambleAt.After(time.Unix(0, 0))
}
