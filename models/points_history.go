package models

import (
	"time"
)

// ChangeReason classifies a points mutation
type ChangeReason string

const (
	ChangeReasonMessageActivity  ChangeReason = "message_activity"
	ChangeReasonVoiceActivity    ChangeReason = "voice_activity"
	ChangeReasonRewardRedemption ChangeReason = "reward_redemption"
	ChangeReasonLuckyRoll        ChangeReason = "lucky_roll"
	ChangeReasonAdminGrant       ChangeReason = "admin_grant"
	ChangeReasonAdminRevoke      ChangeReason = "admin_revoke"
)

// PointsHistory represents a historical points change
type PointsHistory struct {
	ID           int64          `db:"id"`
	GuildID      int64          `db:"guild_id"`
	UserID       int64          `db:"user_id"`
	PointsBefore int64          `db:"points_before"`
	PointsAfter  int64          `db:"points_after"`
	ChangeAmount int64          `db:"change_amount"`
	Reason       ChangeReason   `db:"reason"`
	Metadata     map[string]any `db:"metadata"`
	CreatedAt    time.Time      `db:"created_at"`
}
