package gamble

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

func (f *Feature) handleLuckyRoll(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	delta, newPoints, err := f.gambleService.LuckyRoll(ctx, guildID, userID)
	if err != nil {
		var cooldownErr *service.CooldownActiveError
		if errors.As(err, &cooldownErr) {
			common.RespondWithError(s, i, fmt.Sprintf("The dice need to rest. Try again in **%s**.",
				common.FormatDuration(cooldownErr.Remaining)))
			return
		}
		log.Errorf("Error rolling for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to roll right now. Please try again.")
		return
	}

	var message string
	switch {
	case delta > 0:
		message = fmt.Sprintf("🎲 **%s rolled +%s!** New total: **%s points**",
			i.Member.User.Username, common.FormatPoints(delta), common.FormatPoints(newPoints))
	case delta < 0:
		message = fmt.Sprintf("🎲 **%s rolled %s.** New total: **%s points**",
			i.Member.User.Username, common.FormatPoints(delta), common.FormatPoints(newPoints))
	default:
		message = fmt.Sprintf("🎲 **%s rolled exactly 0.** Nothing gained, nothing lost. Total: **%s points**",
			i.Member.User.Username, common.FormatPoints(newPoints))
	}

	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to luckyroll command: %v", err)
	}
}
