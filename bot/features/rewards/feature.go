package rewards

import (
	"github.com/bwmarrin/discordgo"

	"pointsbot/service"
)

type Feature struct {
	rewardService service.RewardService
}

func New(rewardService service.RewardService) *Feature {
	return &Feature{
		rewardService: rewardService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Options[0].Name {
	case "redeem":
		f.handleRedeem(s, i)
	case "rewards":
		f.handleList(s, i)
	}
}
