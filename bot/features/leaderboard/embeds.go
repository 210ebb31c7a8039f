package leaderboard

import (
	"fmt"
	"strings"

	"pointsbot/bot/common"
	"pointsbot/models"
)

var medals = []string{"🥇", "🥈", "🥉"}

// FormatBoard renders leaderboard entries as an embed description.
// User mentions render with server nicknames client-side, so no member
// lookups are needed here.
func FormatBoard(entries []models.LeaderboardEntry) string {
	var sb strings.Builder
	for _, entry := range entries {
		marker := fmt.Sprintf("`#%d`", entry.Rank)
		if entry.Rank <= len(medals) {
			marker = medals[entry.Rank-1]
		}
		fmt.Fprintf(&sb, "%s <@%d> — **%s points**\n", marker, entry.UserID, common.FormatPoints(entry.Points))
	}
	return sb.String()
}
