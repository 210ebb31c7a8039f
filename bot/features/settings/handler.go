package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"pointsbot/bot/common"
	"pointsbot/service"
)

// parseTarget extracts guild ID and validates admin permissions. All
// subcommands in this group are admin-gated.
func parseTarget(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command.")
		return 0, false
	}

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, false
	}
	return guildID, true
}

func subOptions(i *discordgo.InteractionCreate) []*discordgo.ApplicationCommandInteractionDataOption {
	return i.ApplicationCommandData().Options[0].Options
}

func (f *Feature) handleSetReward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, ok := parseTarget(s, i)
	if !ok {
		return
	}

	var name string
	var cost int64
	for _, opt := range subOptions(i) {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "cost":
			cost = opt.IntValue()
		}
	}

	if cost < 0 {
		common.RespondWithError(s, i, "The cost must be zero or more.")
		return
	}

	if err := f.rewardService.SetReward(context.Background(), guildID, name, cost); err != nil {
		log.Errorf("Error setting reward %q for guild %d: %v", name, guildID, err)
		common.RespondWithError(s, i, "Unable to save the reward. Please try again.")
		return
	}

	message := fmt.Sprintf("reward **%s** now costs **%s points**", name, common.FormatPoints(cost))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to set-reward command: %v", err)
	}
}

func (f *Feature) handleRemoveReward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, ok := parseTarget(s, i)
	if !ok {
		return
	}

	var name string
	for _, opt := range subOptions(i) {
		if opt.Name == "name" {
			name = opt.StringValue()
		}
	}

	if err := f.rewardService.RemoveReward(context.Background(), guildID, name); err != nil {
		if errors.Is(err, service.ErrUnknownReward) {
			common.RespondWithError(s, i, fmt.Sprintf("There is no reward named **%s**.", name))
			return
		}
		log.Errorf("Error removing reward %q for guild %d: %v", name, guildID, err)
		common.RespondWithError(s, i, "Unable to remove the reward. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("removed reward **%s**", name), false); err != nil {
		log.Errorf("Error responding to remove-reward command: %v", err)
	}
}

func (f *Feature) handleRewardChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleChannel(s, i, "reward notifications", f.guildConfigService.SetRewardChannel)
}

func (f *Feature) handleWeeklyChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleChannel(s, i, "weekly announcements", f.guildConfigService.SetWeeklyChannel)
}

func (f *Feature) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate, purpose string, set func(context.Context, int64, int64) error) {
	guildID, ok := parseTarget(s, i)
	if !ok {
		return
	}

	var channelIDStr string
	for _, opt := range subOptions(i) {
		if opt.Name == "channel" {
			channelIDStr = opt.ChannelValue(s).ID
		}
	}

	channelID, err := strconv.ParseInt(channelIDStr, 10, 64)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", channelIDStr, err)
		common.RespondWithError(s, i, "Invalid channel selected.")
		return
	}

	if err := set(context.Background(), guildID, channelID); err != nil {
		log.Errorf("Error setting %s channel for guild %d: %v", purpose, guildID, err)
		common.RespondWithError(s, i, "Unable to update the channel. Please try again.")
		return
	}

	message := fmt.Sprintf("%s will be posted in <#%d>", purpose, channelID)
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to channel command: %v", err)
	}
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleAdjust(s, i, true)
}

func (f *Feature) handleTake(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleAdjust(s, i, false)
}

func (f *Feature) handleAdjust(s *discordgo.Session, i *discordgo.InteractionCreate, give bool) {
	guildID, ok := parseTarget(s, i)
	if !ok {
		return
	}

	var targetIDStr string
	var amount int64
	for _, opt := range subOptions(i) {
		switch opt.Name {
		case "user":
			targetIDStr = opt.UserValue(s).ID
		case "amount":
			amount = opt.IntValue()
		}
	}

	if amount <= 0 {
		common.RespondWithError(s, i, "The amount must be positive.")
		return
	}

	userID, err := strconv.ParseInt(targetIDStr, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", targetIDStr, err)
		common.RespondWithError(s, i, "Invalid user selected.")
		return
	}

	ctx := context.Background()
	var phrase string
	var newBalance int64
	if give {
		balance, err := f.balanceService.GrantPoints(ctx, guildID, userID, amount)
		if err != nil {
			log.Errorf("Error granting %d points to user %d: %v", amount, userID, err)
			common.RespondWithError(s, i, "Unable to adjust points. Please try again.")
			return
		}
		phrase = "gave **%s points** to <@%d>"
		newBalance = balance.Points
	} else {
		balance, err := f.balanceService.RevokePoints(ctx, guildID, userID, amount)
		if err != nil {
			log.Errorf("Error revoking %d points from user %d: %v", amount, userID, err)
			common.RespondWithError(s, i, "Unable to adjust points. Please try again.")
			return
		}
		phrase = "took **%s points** from <@%d>"
		newBalance = balance.Points
	}

	message := fmt.Sprintf(phrase, common.FormatPoints(amount), userID)
	message += fmt.Sprintf(", who now has **%s points**", common.FormatPoints(newBalance))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to adjust command: %v", err)
	}
}

func (f *Feature) handleResetWeekly(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, ok := parseTarget(s, i)
	if !ok {
		return
	}

	if err := f.leaderboardService.WeeklyReset(context.Background(), guildID); err != nil {
		log.Errorf("Error resetting weekly points for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to reset weekly points. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "weekly points have been reset", false); err != nil {
		log.Errorf("Error responding to reset-weekly command: %v", err)
	}
}
