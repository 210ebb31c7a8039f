package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"pointsbot/bot/common"
	"pointsbot/bot/features/leaderboard"
	"pointsbot/events"

	"github.com/bwmarrin/discordgo"
)

// handleRewardRedeemedEvent posts a redemption notification to the
// guild's configured reward channel
func (b *Bot) handleRewardRedeemedEvent(ctx context.Context, event events.Event) {
	redeemed, ok := event.(events.RewardRedeemedEvent)
	if !ok {
		return
	}
	if redeemed.NotifyChannelID == nil {
		return
	}

	channelID := strconv.FormatInt(*redeemed.NotifyChannelID, 10)
	embed := &discordgo.MessageEmbed{
		Title: "🎁 Reward Redeemed",
		Description: fmt.Sprintf("<@%d> redeemed **%s** for **%s points**",
			redeemed.UserID, redeemed.Reward, common.FormatPoints(redeemed.Cost)),
		Color: 0x5865F2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Redemption " + redeemed.RedemptionID,
		},
	}

	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Errorf("Error posting redemption notification to channel %s: %v", channelID, err)
	}
}

// handleWeeklyResetEvent announces the weekly top list in the guild's
// configured announcement channel
func (b *Bot) handleWeeklyResetEvent(ctx context.Context, event events.Event) {
	reset, ok := event.(events.WeeklyResetEvent)
	if !ok {
		return
	}
	if reset.AnnounceChannelID == nil {
		return
	}

	top := reset.Top
	for len(top) > 0 && top[len(top)-1].Points == 0 {
		top = top[:len(top)-1]
	}

	var description strings.Builder
	if len(top) == 0 {
		description.WriteString("A quiet week. Nobody earned any points.")
	} else {
		description.WriteString(leaderboard.FormatBoard(top))
	}
	fmt.Fprintf(&description, "\nWeekly points have been reset for %d users. A new week begins!", reset.UsersReset)

	embed := &discordgo.MessageEmbed{
		Title:       "📅 Weekly Points Recap",
		Description: description.String(),
		Color:       0x57F287,
	}

	channelID := strconv.FormatInt(*reset.AnnounceChannelID, 10)
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Errorf("Error posting weekly recap to channel %s: %v", channelID, err)
	}
}
