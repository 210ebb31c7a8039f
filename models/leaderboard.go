package models

// LeaderboardEntry is one ranked row of a guild leaderboard
type LeaderboardEntry struct {
	Rank   int
	UserID int64
	Points int64
}

// RankResult is a single user's position among ranked users
type RankResult struct {
	Rank        int
	TotalRanked int
}
