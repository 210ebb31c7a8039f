package balance

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

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Default to the caller; an optional user option checks someone else
	targetID := i.Member.User.ID
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "user" {
			targetID = opt.UserValue(s).ID
		}
	}

	userID, err := strconv.ParseInt(targetID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	userBalance, err := f.balanceService.GetBalance(ctx, guildID, userID)
	if err != nil {
		log.Errorf("Error getting balance for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	name := common.GetDisplayName(s, i.GuildID, targetID)

	message := fmt.Sprintf("%s has **%s points** (**%s** this week)",
		name, common.FormatPoints(userBalance.Points), common.FormatPoints(userBalance.WeeklyPoints))

	rank, err := f.leaderboardService.RankOf(ctx, guildID, userID)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		log.Errorf("Error getting rank for user %d: %v", userID, err)
	}
	if rank != nil {
		message += fmt.Sprintf(", ranked **#%d** of %d", rank.Rank, rank.TotalRanked)
	}

	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}
