package repository

import (
	"context"
	"fmt"
	"time"

	"pointsbot/database"
	"pointsbot/models"

	"github.com/jackc/pgx/v5"
)

// BalanceRepository implements the service.BalanceRepository interface
type BalanceRepository struct {
	q queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{q: db.Pool}
}

// newBalanceRepositoryWithTx creates a new balance repository with a transaction
func newBalanceRepositoryWithTx(tx queryable) *BalanceRepository {
	return &BalanceRepository{q: tx}
}

const balanceColumns = `guild_id, user_id, points, weekly_points, last_gamble_at, created_at, updated_at`

func scanBalance(row pgx.Row) (*models.UserBalance, error) {
	var b models.UserBalance
	err := row.Scan(
		&b.GuildID,
		&b.UserID,
		&b.Points,
		&b.WeeklyPoints,
		&b.LastGambleAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByUser retrieves a balance row, or nil if the user was never seen
func (r *BalanceRepository) GetByUser(ctx context.Context, guildID, userID int64) (*models.UserBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE guild_id = $1 AND user_id = $2
	`

	balance, err := scanBalance(r.q.QueryRow(ctx, query, guildID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for user %d in guild %d: %w", userID, guildID, err)
	}

	return balance, nil
}

// GetOrCreate retrieves a balance row, creating a zeroed one if absent
func (r *BalanceRepository) GetOrCreate(ctx context.Context, guildID, userID int64) (*models.UserBalance, error) {
	query := `
		INSERT INTO balances (guild_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET guild_id = balances.guild_id
		RETURNING ` + balanceColumns + `
	`

	balance, err := scanBalance(r.q.QueryRow(ctx, query, guildID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create balance for user %d in guild %d: %w", userID, guildID, err)
	}

	return balance, nil
}

// AddActivityPoints atomically adds amount to both points and weekly points
func (r *BalanceRepository) AddActivityPoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	query := `
		INSERT INTO balances (guild_id, user_id, points, weekly_points)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET points = balances.points + $3,
		    weekly_points = balances.weekly_points + $3,
		    updated_at = NOW()
		RETURNING ` + balanceColumns + `
	`

	balance, err := scanBalance(r.q.QueryRow(ctx, query, guildID, userID, amount))
	if err != nil {
		return nil, fmt.Errorf("failed to add activity points for user %d in guild %d: %w", userID, guildID, err)
	}

	return balance, nil
}

// AddPoints atomically adds amount to lifetime points only
func (r *BalanceRepository) AddPoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error) {
	query := `
		INSERT INTO balances (guild_id, user_id, points)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET points = balances.points + $3,
		    updated_at = NOW()
		RETURNING ` + balanceColumns + `
	`

	balance, err := scanBalance(r.q.QueryRow(ctx, query, guildID, userID, amount))
	if err != nil {
		return nil, fmt.Errorf("failed to add points for user %d in guild %d: %w", userID, guildID, err)
	}

	return balance, nil
}

// RemovePoints atomically subtracts amount from lifetime points, clamping at zero
func (r *BalanceRepository) RemovePoints(ctx context.Context, guildID, userID, amount int64) (*models.UserBalance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	query := `
		INSERT INTO balances (guild_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET points = GREATEST(balances.points - $3, 0),
		    updated_at = NOW()
		RETURNING ` + balanceColumns + `
	`

	balance, err := scanBalance(r.q.QueryRow(ctx, query, guildID, userID, amount))
	if err != nil {
		return nil, fmt.Errorf("failed to remove points for user %d in guild %d: %w", userID, guildID, err)
	}

	return balance, nil
}

// DebitPoints subtracts amount only if the user holds at least that many
// points. The conditional UPDATE makes the cost check atomic: points can
// never go negative through this path.
func (r *BalanceRepository) DebitPoints(ctx context.Context, guildID, userID, amount int64) (bool, error) {
	if amount < 0 {
		return false, fmt.Errorf("amount must be non-negative")
	}

	query := `
		UPDATE balances
		SET points = points - $3, updated_at = NOW()
		WHERE guild_id = $1 AND user_id = $2 AND points >= $3
	`

	result, err := r.q.Exec(ctx, query, guildID, userID, amount)
	if err != nil {
		return false, fmt.Errorf("failed to debit points for user %d in guild %d: %w", userID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// RecordGamble applies the roll delta and stamps last_gamble_at
func (r *BalanceRepository) RecordGamble(ctx context.Context, guildID, userID, delta int64, rolledAt time.Time) (*models.UserBalance, error) {
	query := `
		UPDATE balances
		SET points = points + $3,
		    last_gamble_at = $4,
		    updated_at = NOW()
		WHERE guild_id = $1 AND user_id = $2
		RETURNING ` + balanceColumns + `
	`

	balance, err := scanBalance(r.q.QueryRow(ctx, query, guildID, userID, delta, rolledAt))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("balance for user %d in guild %d not found", userID, guildID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record gamble for user %d in guild %d: %w", userID, guildID, err)
	}

	return balance, nil
}

// ZeroWeeklyPoints resets one user's weekly counter
func (r *BalanceRepository) ZeroWeeklyPoints(ctx context.Context, guildID, userID int64) error {
	query := `
		UPDATE balances
		SET weekly_points = 0, updated_at = NOW()
		WHERE guild_id = $1 AND user_id = $2
	`

	if _, err := r.q.Exec(ctx, query, guildID, userID); err != nil {
		return fmt.Errorf("failed to zero weekly points for user %d in guild %d: %w", userID, guildID, err)
	}

	return nil
}

// ListByGuild returns all balance rows for a guild. The ordering
// (creation time, then user ID) is the stable tie-break order used by
// the leaderboards: on equal points the earliest-seen user ranks first.
func (r *BalanceRepository) ListByGuild(ctx context.Context, guildID int64) ([]*models.UserBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE guild_id = $1
		ORDER BY created_at, user_id
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var balances []*models.UserBalance
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, balance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}

// ListGuildIDs returns the distinct guilds with at least one balance row
func (r *BalanceRepository) ListGuildIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT DISTINCT guild_id
		FROM balances
		ORDER BY guild_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild IDs: %w", err)
	}
	defer rows.Close()

	var guildIDs []int64
	for rows.Next() {
		var guildID int64
		if err := rows.Scan(&guildID); err != nil {
			return nil, fmt.Errorf("failed to scan guild ID: %w", err)
		}
		guildIDs = append(guildIDs, guildID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guild IDs: %w", err)
	}

	return guildIDs, nil
}
