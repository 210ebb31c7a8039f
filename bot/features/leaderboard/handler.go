package leaderboard

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"pointsbot/bot/common"
	"pointsbot/models"
)

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, ok := parseGuildID(s, i)
	if !ok {
		return
	}

	entries, err := f.leaderboardService.TopN(ctx, guildID, f.topSize, true)
	if err != nil {
		log.Errorf("Error getting leaderboard for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to load the leaderboard. Please try again.")
		return
	}

	if len(entries) == 0 {
		if err := common.RespondWithContent(s, i, "Nobody has any points yet. Get chatting!"); err != nil {
			log.Errorf("Error responding to leaderboard command: %v", err)
		}
		return
	}

	embed := buildBoardEmbed("🏆 Points Leaderboard", entries, 0xFFD700)
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

func (f *Feature) handleWeekly(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, ok := parseGuildID(s, i)
	if !ok {
		return
	}

	entries, err := f.leaderboardService.WeeklyTop(ctx, guildID, f.topSize)
	if err != nil {
		log.Errorf("Error getting weekly leaderboard for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to load the weekly leaderboard. Please try again.")
		return
	}

	// Drop trailing zero entries so a quiet week shows a short board
	for len(entries) > 0 && entries[len(entries)-1].Points == 0 {
		entries = entries[:len(entries)-1]
	}

	if len(entries) == 0 {
		if err := common.RespondWithContent(s, i, "Nobody has earned points this week yet."); err != nil {
			log.Errorf("Error responding to weekly command: %v", err)
		}
		return
	}

	embed := buildBoardEmbed("📅 This Week's Top Earners", entries, 0x57F287)
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to weekly command: %v", err)
	}
}

func (f *Feature) handleLosers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, ok := parseGuildID(s, i)
	if !ok {
		return
	}

	entries, err := f.leaderboardService.BottomN(ctx, guildID, f.topSize)
	if err != nil {
		log.Errorf("Error getting losers board for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to load the board. Please try again.")
		return
	}

	if len(entries) == 0 {
		if err := common.RespondWithContent(s, i, "Nobody is in the red. The dice have been kind."); err != nil {
			log.Errorf("Error responding to losers command: %v", err)
		}
		return
	}

	embed := buildBoardEmbed("💀 Deepest in the Hole", entries, 0xED4245)
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to losers command: %v", err)
	}
}

func parseGuildID(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, false
	}
	return guildID, true
}

func buildBoardEmbed(title string, entries []models.LeaderboardEntry, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: FormatBoard(entries),
		Color:       color,
	}
}
