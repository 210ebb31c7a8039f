package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Accrual configuration
	MessageReward   int64         // points per qualifying message
	MessageCooldown time.Duration // minimum interval between message grants per user
	VoiceReward     int64         // points per voice tick
	VoiceTickEvery  time.Duration // interval between voice grant passes

	// LuckyRoll configuration
	GambleMaxDelta int64         // delta drawn uniformly from [-GambleMaxDelta, GambleMaxDelta]
	GambleCooldown time.Duration // minimum interval between rolls per user

	// Weekly reset configuration
	WeeklyResetEvery time.Duration // interval between automatic resets, from process start
	WeeklyTopSize    int           // entries in the weekly announcement leaderboard

	// Metrics endpoint ("" disables the HTTP listener)
	MetricsAddr string

	// Environment
	Environment string // "development", "production" or "test"
}

// fileConfig mirrors the optional TOML config file. Any field left unset
// in the file keeps its environment/default value.
type fileConfig struct {
	DiscordToken     string `toml:"discord_token"`
	DiscordGuildID   string `toml:"discord_guild_id"`
	DatabaseURL      string `toml:"database_url"`
	MessageReward    int64  `toml:"message_reward"`
	MessageCooldownS int64  `toml:"message_cooldown_seconds"`
	VoiceReward      int64  `toml:"voice_reward"`
	VoiceTickS       int64  `toml:"voice_tick_seconds"`
	GambleMaxDelta   int64  `toml:"gamble_max_delta"`
	GambleCooldownS  int64  `toml:"gamble_cooldown_seconds"`
	WeeklyResetS     int64  `toml:"weekly_reset_seconds"`
	WeeklyTopSize    int    `toml:"weekly_top_size"`
	MetricsAddr      string `toml:"metrics_addr"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables, then applies the
// optional TOML file named by POINTS_CONFIG_FILE on top.
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Accrual defaults (see original cog behavior: +3/message, +1/voice minute)
		MessageReward:   3,
		MessageCooldown: 60 * time.Second,
		VoiceReward:     1,
		VoiceTickEvery:  60 * time.Second,

		// LuckyRoll defaults: [-2500, 2500] once per 7 days
		GambleMaxDelta: 2500,
		GambleCooldown: 7 * 24 * time.Hour,

		// Weekly reset defaults
		WeeklyResetEvery: 7 * 24 * time.Hour,
		WeeklyTopSize:    10,

		MetricsAddr: ":9100",

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if v := os.Getenv("MESSAGE_REWARD"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MessageReward = parsed
		}
	}
	if v := os.Getenv("MESSAGE_COOLDOWN_SECONDS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MessageCooldown = time.Duration(parsed) * time.Second
		}
	}
	if v := os.Getenv("VOICE_REWARD"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.VoiceReward = parsed
		}
	}
	if v := os.Getenv("VOICE_TICK_SECONDS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.VoiceTickEvery = time.Duration(parsed) * time.Second
		}
	}
	if v := os.Getenv("GAMBLE_MAX_DELTA"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.GambleMaxDelta = parsed
		}
	}
	if v := os.Getenv("GAMBLE_COOLDOWN_SECONDS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.GambleCooldown = time.Duration(parsed) * time.Second
		}
	}
	if v := os.Getenv("WEEKLY_RESET_SECONDS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.WeeklyResetEvery = time.Duration(parsed) * time.Second
		}
	}
	if v := os.Getenv("WEEKLY_TOP_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			config.WeeklyTopSize = parsed
		}
	}
	if v, ok := os.LookupEnv("METRICS_ADDR"); ok {
		config.MetricsAddr = v
	}

	// Apply optional TOML file overrides
	if path := os.Getenv("POINTS_CONFIG_FILE"); path != "" {
		if err := applyFile(config, path); err != nil {
			return nil, err
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func applyFile(config *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.DiscordToken != "" {
		config.DiscordToken = fc.DiscordToken
	}
	if fc.DiscordGuildID != "" {
		config.DiscordGuildID = fc.DiscordGuildID
	}
	if fc.DatabaseURL != "" {
		config.DatabaseURL = fc.DatabaseURL
	}
	if fc.MessageReward > 0 {
		config.MessageReward = fc.MessageReward
	}
	if fc.MessageCooldownS > 0 {
		config.MessageCooldown = time.Duration(fc.MessageCooldownS) * time.Second
	}
	if fc.VoiceReward > 0 {
		config.VoiceReward = fc.VoiceReward
	}
	if fc.VoiceTickS > 0 {
		config.VoiceTickEvery = time.Duration(fc.VoiceTickS) * time.Second
	}
	if fc.GambleMaxDelta > 0 {
		config.GambleMaxDelta = fc.GambleMaxDelta
	}
	if fc.GambleCooldownS > 0 {
		config.GambleCooldown = time.Duration(fc.GambleCooldownS) * time.Second
	}
	if fc.WeeklyResetS > 0 {
		config.WeeklyResetEvery = time.Duration(fc.WeeklyResetS) * time.Second
	}
	if fc.WeeklyTopSize > 0 {
		config.WeeklyTopSize = fc.WeeklyTopSize
	}
	if fc.MetricsAddr != "" {
		config.MetricsAddr = fc.MetricsAddr
	}

	return nil
}
