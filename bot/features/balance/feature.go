package balance

import (
	"github.com/bwmarrin/discordgo"

	"pointsbot/service"
)

type Feature struct {
	balanceService     service.BalanceService
	leaderboardService service.LeaderboardService
}

func New(balanceService service.BalanceService, leaderboardService service.LeaderboardService) *Feature {
	return &Feature{
		balanceService:     balanceService,
		leaderboardService: leaderboardService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBalance(s, i)
}
