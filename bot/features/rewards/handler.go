package rewards

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"pointsbot/bot/common"
	"pointsbot/service"
)

func (f *Feature) handleRedeem(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var rewardName string
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "reward" {
			rewardName = opt.StringValue()
		}
	}

	tier, newPoints, err := f.rewardService.Redeem(ctx, guildID, userID, rewardName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownReward):
			common.RespondWithError(s, i, fmt.Sprintf("There is no reward named **%s**. Use `/points rewards` to see what's available.", rewardName))
		case errors.Is(err, service.ErrInsufficientBalance):
			common.RespondWithError(s, i, fmt.Sprintf("You don't have enough points for **%s**.", rewardName))
		default:
			log.Errorf("Error redeeming reward %q for user %d: %v", rewardName, userID, err)
			common.RespondWithError(s, i, "Unable to redeem the reward. Please try again.")
		}
		return
	}

	message := fmt.Sprintf("redeemed **%s** for **%s points**! You have **%s points** left.",
		tier.Name, common.FormatPoints(tier.Cost), common.FormatPoints(newPoints))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to redeem command: %v", err)
	}
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	tiers, err := f.rewardService.ListRewards(ctx, guildID)
	if err != nil {
		log.Errorf("Error listing rewards for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to list rewards. Please try again.")
		return
	}

	if len(tiers) == 0 {
		if err := common.RespondWithContent(s, i, "No rewards are configured yet."); err != nil {
			log.Errorf("Error responding to rewards command: %v", err)
		}
		return
	}

	var sb strings.Builder
	for _, tier := range tiers {
		fmt.Fprintf(&sb, "**%s** — %s points\n", tier.Name, common.FormatPoints(tier.Cost))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎁 Available Rewards",
		Description: sb.String(),
		Color:       0x5865F2,
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to rewards command: %v", err)
	}
}
