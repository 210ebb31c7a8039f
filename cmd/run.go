package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"pointsbot/bot"
	"pointsbot/config"
	"pointsbot/database"
	"pointsbot/events"
	"pointsbot/models"
	"pointsbot/observability"
	"pointsbot/repository"
	"pointsbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting points bot...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	log.Info("Initializing services...")
	accrualService := service.NewAccrualService(uowFactory, service.AccrualConfig{
		MessageReward:   cfg.MessageReward,
		MessageCooldown: cfg.MessageCooldown,
		VoiceReward:     cfg.VoiceReward,
	})
	balanceService := service.NewBalanceService(uowFactory)
	rewardService := service.NewRewardService(uowFactory)
	gambleService := service.NewGambleService(uowFactory, service.GambleConfig{
		MaxDelta: cfg.GambleMaxDelta,
		Cooldown: cfg.GambleCooldown,
	})
	leaderboardService := service.NewLeaderboardService(uowFactory, cfg.WeeklyTopSize)
	guildConfigService := service.NewGuildConfigService(uowFactory)

	log.Info("Starting observability server...")
	metrics := observability.NewMetrics(func() float64 {
		return float64(accrualService.ActiveVoiceUsers())
	})
	wireMetrics(eventBus, metrics)
	obsServer := observability.NewServer(cfg.MetricsAddr)
	obsServer.Start()

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
		TopSize: cfg.WeeklyTopSize,
	}, accrualService, balanceService, rewardService, gambleService, leaderboardService, guildConfigService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.Info("Starting background workers...")
	voiceWorker := service.NewVoiceTickWorker(accrualService)
	stopVoiceWorker := voiceWorker.Start(ctx, cfg.VoiceTickEvery)

	weeklyWorker := service.NewWeeklyResetWorker(uowFactory, leaderboardService)
	stopWeeklyWorker := weeklyWorker.Start(ctx, cfg.WeeklyResetEvery)

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	stopVoiceWorker()
	stopWeeklyWorker()

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down observability server: %v", err)
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}

// wireMetrics bridges domain events into the Prometheus collectors
func wireMetrics(bus *events.Bus, metrics *observability.Metrics) {
	bus.Subscribe(events.EventTypePointsChange, func(ctx context.Context, event events.Event) {
		change, ok := event.(events.PointsChangeEvent)
		if !ok {
			return
		}
		switch change.Reason {
		case models.ChangeReasonMessageActivity:
			metrics.PointsGranted.WithLabelValues("message").Add(float64(change.ChangeAmount))
		case models.ChangeReasonVoiceActivity:
			metrics.PointsGranted.WithLabelValues("voice").Add(float64(change.ChangeAmount))
		}
	})
	bus.Subscribe(events.EventTypeRewardRedeemed, func(ctx context.Context, event events.Event) {
		metrics.Redemptions.Inc()
	})
	bus.Subscribe(events.EventTypeLuckyRoll, func(ctx context.Context, event events.Event) {
		metrics.LuckyRolls.Inc()
	})
	bus.Subscribe(events.EventTypeWeeklyReset, func(ctx context.Context, event events.Event) {
		metrics.WeeklyResets.Inc()
	})
}
