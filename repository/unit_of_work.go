package repository

import (
	"context"
	"fmt"

	"pointsbot/database"
	"pointsbot/events"
	"pointsbot/service"

	"github.com/jackc/pgx/v5"
)

// UnitOfWork coordinates repositories within a single database
// transaction. Events published during the transaction are stashed on a
// transactional bus and only emitted after a successful commit.
type UnitOfWork struct {
	db       *database.DB
	tx       pgx.Tx
	eventBus *events.TransactionalBus

	balanceRepo       *BalanceRepository
	guildConfigRepo   *GuildConfigRepository
	pointsHistoryRepo *PointsHistoryRepository
}

// UnitOfWorkFactory creates UnitOfWork instances bound to the pool and
// the real event bus
type UnitOfWorkFactory struct {
	db  *database.DB
	bus *events.Bus
}

// NewUnitOfWorkFactory creates a new unit of work factory
func NewUnitOfWorkFactory(db *database.DB, bus *events.Bus) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, bus: bus}
}

// Create returns a fresh UnitOfWork. Begin must be called before use.
func (f *UnitOfWorkFactory) Create() service.UnitOfWork {
	return &UnitOfWork{
		db:       f.db,
		eventBus: events.NewTransactionalBus(f.bus),
	}
}

// Begin starts a new transaction and binds the repositories to it
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.balanceRepo = newBalanceRepositoryWithTx(tx)
	u.guildConfigRepo = newGuildConfigRepositoryWithTx(tx)
	u.pointsHistoryRepo = newPointsHistoryRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction, then flushes pending events
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(context.Background()); err != nil {
		u.eventBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	return u.eventBus.Flush(context.Background())
}

// Rollback rolls back the transaction and discards pending events.
// Safe to call after Commit: it becomes a no-op, so callers may
// defer it unconditionally.
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(context.Background())
	u.tx = nil
	u.eventBus.Discard()

	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// BalanceRepository returns the transaction-bound balance repository
func (u *UnitOfWork) BalanceRepository() service.BalanceRepository {
	return u.balanceRepo
}

// GuildConfigRepository returns the transaction-bound guild config repository
func (u *UnitOfWork) GuildConfigRepository() service.GuildConfigRepository {
	return u.guildConfigRepo
}

// PointsHistoryRepository returns the transaction-bound history repository
func (u *UnitOfWork) PointsHistoryRepository() service.PointsHistoryRepository {
	return u.pointsHistoryRepo
}

// EventBus returns the transactional event publisher
func (u *UnitOfWork) EventBus() service.EventPublisher {
	return u.eventBus
}
