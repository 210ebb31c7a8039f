package gamble

import (
	"github.com/bwmarrin/discordgo"

	"pointsbot/service"
)

type Feature struct {
	gambleService service.GambleService
}

func New(gambleService service.GambleService) *Feature {
	return &Feature{
		gambleService: gambleService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleLuckyRoll(s, i)
}
