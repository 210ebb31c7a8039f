package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pointsbot/database"
	"pointsbot/models"
)

// PointsHistoryRepository implements the service.PointsHistoryRepository interface
type PointsHistoryRepository struct {
	q queryable
}

// NewPointsHistoryRepository creates a new points history repository
func NewPointsHistoryRepository(db *database.DB) *PointsHistoryRepository {
	return &PointsHistoryRepository{q: db.Pool}
}

// newPointsHistoryRepositoryWithTx creates a new points history repository with a transaction
func newPointsHistoryRepositoryWithTx(tx queryable) *PointsHistoryRepository {
	return &PointsHistoryRepository{q: tx}
}

// Record creates a new points history entry
func (r *PointsHistoryRepository) Record(ctx context.Context, history *models.PointsHistory) error {
	metadata := history.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal history metadata: %w", err)
	}

	query := `
		INSERT INTO points_history (guild_id, user_id, points_before, points_after, change_amount, reason, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		history.GuildID,
		history.UserID,
		history.PointsBefore,
		history.PointsAfter,
		history.ChangeAmount,
		string(history.Reason),
		metadataJSON,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record points history: %w", err)
	}

	return nil
}

// GetByUser returns recent history for a specific user, newest first
func (r *PointsHistoryRepository) GetByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.PointsHistory, error) {
	query := `
		SELECT id, guild_id, user_id, points_before, points_after, change_amount, reason, metadata, created_at
		FROM points_history
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for user %d in guild %d: %w", userID, guildID, err)
	}
	defer rows.Close()

	var entries []*models.PointsHistory
	for rows.Next() {
		var entry models.PointsHistory
		var metadataJSON []byte
		err := rows.Scan(
			&entry.ID,
			&entry.GuildID,
			&entry.UserID,
			&entry.PointsBefore,
			&entry.PointsAfter,
			&entry.ChangeAmount,
			&entry.Reason,
			&metadataJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal history metadata: %w", err)
			}
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history entries: %w", err)
	}

	return entries, nil
}
