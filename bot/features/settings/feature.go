package settings

import (
	"github.com/bwmarrin/discordgo"

	"pointsbot/service"
)

// Feature handles the admin command group: reward tier management,
// notification channels and manual point adjustments
type Feature struct {
	rewardService      service.RewardService
	guildConfigService service.GuildConfigService
	balanceService     service.BalanceService
	leaderboardService service.LeaderboardService
}

func New(
	rewardService service.RewardService,
	guildConfigService service.GuildConfigService,
	balanceService service.BalanceService,
	leaderboardService service.LeaderboardService,
) *Feature {
	return &Feature{
		rewardService:      rewardService,
		guildConfigService: guildConfigService,
		balanceService:     balanceService,
		leaderboardService: leaderboardService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Options[0].Name {
	case "set-reward":
		f.handleSetReward(s, i)
	case "remove-reward":
		f.handleRemoveReward(s, i)
	case "reward-channel":
		f.handleRewardChannel(s, i)
	case "weekly-channel":
		f.handleWeeklyChannel(s, i)
	case "give":
		f.handleGive(s, i)
	case "take":
		f.handleTake(s, i)
	case "reset-weekly":
		f.handleResetWeekly(s, i)
	}
}
