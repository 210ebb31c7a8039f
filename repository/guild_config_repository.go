package repository

import (
	"context"
	"fmt"

	"pointsbot/database"
	"pointsbot/models"

	"github.com/jackc/pgx/v5"
)

// GuildConfigRepository implements the service.GuildConfigRepository interface
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// newGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func newGuildConfigRepositoryWithTx(tx queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

// GetOrCreate retrieves guild config or creates a default row
func (r *GuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	query := `
		INSERT INTO guild_configs (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = guild_configs.guild_id
		RETURNING guild_id, reward_channel_id, weekly_channel_id, created_at, updated_at
	`

	var config models.GuildConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&config.GuildID,
		&config.RewardChannelID,
		&config.WeeklyChannelID,
		&config.CreatedAt,
		&config.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create config for guild %d: %w", guildID, err)
	}

	return &config, nil
}

// Update persists channel settings
func (r *GuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	query := `
		UPDATE guild_configs
		SET reward_channel_id = $2,
		    weekly_channel_id = $3,
		    updated_at = NOW()
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query, config.GuildID, config.RewardChannelID, config.WeeklyChannelID)
	if err != nil {
		return fmt.Errorf("failed to update config for guild %d: %w", config.GuildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("config for guild %d not found", config.GuildID)
	}

	return nil
}

// GetTier retrieves a tier by name, or nil if absent
func (r *GuildConfigRepository) GetTier(ctx context.Context, guildID int64, name string) (*models.RewardTier, error) {
	query := `
		SELECT guild_id, name, cost, created_at, updated_at
		FROM reward_tiers
		WHERE guild_id = $1 AND name = $2
	`

	var tier models.RewardTier
	err := r.q.QueryRow(ctx, query, guildID, name).Scan(
		&tier.GuildID,
		&tier.Name,
		&tier.Cost,
		&tier.CreatedAt,
		&tier.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tier %q for guild %d: %w", name, guildID, err)
	}

	return &tier, nil
}

// UpsertTier creates or replaces a tier (last writer wins)
func (r *GuildConfigRepository) UpsertTier(ctx context.Context, guildID int64, name string, cost int64) (*models.RewardTier, error) {
	query := `
		INSERT INTO reward_tiers (guild_id, name, cost)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, name) DO UPDATE
		SET cost = $3, updated_at = NOW()
		RETURNING guild_id, name, cost, created_at, updated_at
	`

	var tier models.RewardTier
	err := r.q.QueryRow(ctx, query, guildID, name, cost).Scan(
		&tier.GuildID,
		&tier.Name,
		&tier.Cost,
		&tier.CreatedAt,
		&tier.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tier %q for guild %d: %w", name, guildID, err)
	}

	return &tier, nil
}

// DeleteTier removes a tier, reporting whether it existed
func (r *GuildConfigRepository) DeleteTier(ctx context.Context, guildID int64, name string) (bool, error) {
	query := `
		DELETE FROM reward_tiers
		WHERE guild_id = $1 AND name = $2
	`

	result, err := r.q.Exec(ctx, query, guildID, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete tier %q for guild %d: %w", name, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// ListTiers returns all tiers for a guild ordered by name
func (r *GuildConfigRepository) ListTiers(ctx context.Context, guildID int64) ([]*models.RewardTier, error) {
	query := `
		SELECT guild_id, name, cost, created_at, updated_at
		FROM reward_tiers
		WHERE guild_id = $1
		ORDER BY name
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiers for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var tiers []*models.RewardTier
	for rows.Next() {
		var tier models.RewardTier
		err := rows.Scan(
			&tier.GuildID,
			&tier.Name,
			&tier.Cost,
			&tier.CreatedAt,
			&tier.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tier: %w", err)
		}
		tiers = append(tiers, &tier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tiers: %w", err)
	}

	return tiers, nil
}
