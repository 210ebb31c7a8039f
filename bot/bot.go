package bot

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"pointsbot/bot/features/balance"
	"pointsbot/bot/features/gamble"
	"pointsbot/bot/features/leaderboard"
	"pointsbot/bot/features/rewards"
	"pointsbot/bot/features/settings"
	"pointsbot/events"
	"pointsbot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
	TopSize int
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	accrualService service.AccrualService
	eventBus       *events.Bus

	balanceFeature     *balance.Feature
	rewardsFeature     *rewards.Feature
	gambleFeature      *gamble.Feature
	leaderboardFeature *leaderboard.Feature
	settingsFeature    *settings.Feature
}

func New(
	config Config,
	accrualService service.AccrualService,
	balanceService service.BalanceService,
	rewardService service.RewardService,
	gambleService service.GambleService,
	leaderboardService service.LeaderboardService,
	guildConfigService service.GuildConfigService,
	eventBus *events.Bus,
) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMembers

	bot := &Bot{
		config:             config,
		session:            dg,
		accrualService:     accrualService,
		eventBus:           eventBus,
		balanceFeature:     balance.New(balanceService, leaderboardService),
		rewardsFeature:     rewards.New(rewardService),
		gambleFeature:      gamble.New(gambleService),
		leaderboardFeature: leaderboard.New(leaderboardService, config.TopSize),
		settingsFeature:    settings.New(rewardService, guildConfigService, balanceService, leaderboardService),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleVoiceStateUpdate)
	dg.AddHandler(bot.handleGuildCreate)

	// Notification embeds are driven by domain events, not by the
	// command handlers, so accrual and worker paths notify too
	eventBus.Subscribe(events.EventTypeRewardRedeemed, bot.handleRewardRedeemedEvent)
	eventBus.Subscribe(events.EventTypeWeeklyReset, bot.handleWeeklyResetEvent)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil {
		// Commands only make sense inside a guild
		return
	}

	switch i.ApplicationCommandData().Name {
	case "points":
		switch i.ApplicationCommandData().Options[0].Name {
		case "balance":
			b.balanceFeature.HandleCommand(s, i)
		case "rewards", "redeem":
			b.rewardsFeature.HandleCommand(s, i)
		case "luckyroll":
			b.gambleFeature.HandleCommand(s, i)
		case "leaderboard", "weekly", "losers":
			b.leaderboardFeature.HandleCommand(s, i)
		}
	case "points-admin":
		b.settingsFeature.HandleCommand(s, i)
	}
}

// handleMessageCreate feeds guild messages into the accrual engine
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	guildID, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", m.GuildID, err)
		return
	}
	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", m.Author.ID, err)
		return
	}

	if _, err := b.accrualService.HandleMessage(context.Background(), guildID, userID); err != nil {
		log.Errorf("Error handling message accrual for user %d: %v", userID, err)
	}
}

// handleVoiceStateUpdate keeps the voice roster in sync with the gateway
func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.GuildID == "" {
		return
	}
	if user, err := s.User(v.UserID); err == nil && user != nil && user.Bot {
		return
	}

	guildID, err := strconv.ParseInt(v.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", v.GuildID, err)
		return
	}
	userID, err := strconv.ParseInt(v.UserID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", v.UserID, err)
		return
	}

	b.accrualService.HandleVoiceState(guildID, userID, v.ChannelID != "", v.SelfDeaf)
}

// handleGuildCreate seeds the voice roster from the guild's current
// voice states, so users already in a channel at startup earn points
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	guildID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", g.ID, err)
		return
	}

	for _, vs := range g.VoiceStates {
		userID, err := strconv.ParseInt(vs.UserID, 10, 64)
		if err != nil {
			continue
		}
		b.accrualService.HandleVoiceState(guildID, userID, vs.ChannelID != "", vs.SelfDeaf)
	}

	log.WithFields(log.Fields{
		"guildID":     g.ID,
		"voiceStates": len(g.VoiceStates),
	}).Debug("Seeded voice roster from guild state")
}
