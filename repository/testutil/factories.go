package testutil

import (
	"time"

	"pointsbot/models"
)

// CreateTestBalance creates a balance row with default values
func CreateTestBalance(guildID, userID int64) *models.UserBalance {
	now := time.Now()
	return &models.UserBalance{
		GuildID:      guildID,
		UserID:       userID,
		Points:       100,
		WeeklyPoints: 100,
		LastGambleAt: time.Unix(0, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateTestBalanceWithPoints creates a balance row with specific totals
func CreateTestBalanceWithPoints(guildID, userID, points, weekly int64) *models.UserBalance {
	balance := CreateTestBalance(guildID, userID)
	balance.Points = points
	balance.WeeklyPoints = weekly
	return balance
}

// CreateTestHistory creates a points history entry
func CreateTestHistory(guildID, userID int64, reason models.ChangeReason) *models.PointsHistory {
	return &models.PointsHistory{
		GuildID:      guildID,
		UserID:       userID,
		PointsBefore: 100,
		PointsAfter:  103,
		ChangeAmount: 3,
		Reason:       reason,
		Metadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}
