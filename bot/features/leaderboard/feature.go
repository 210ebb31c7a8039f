package leaderboard

import (
	"github.com/bwmarrin/discordgo"

	"pointsbot/service"
)

type Feature struct {
	leaderboardService service.LeaderboardService
	topSize            int
}

func New(leaderboardService service.LeaderboardService, topSize int) *Feature {
	return &Feature{
		leaderboardService: leaderboardService,
		topSize:            topSize,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Options[0].Name {
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "weekly":
		f.handleWeekly(s, i)
	case "losers":
		f.handleLosers(s, i)
	}
}
