package repository

import (
	"context"
	"testing"
	"time"

	"pointsbot/events"
	"pointsbot/models"
	"pointsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersistsAndFlushesEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypePointsChange, func(ctx context.Context, e events.Event) {
		received <- e
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	balance, err := uow.BalanceRepository().AddActivityPoints(ctx, 100, 1, 3)
	require.NoError(t, err)

	uow.EventBus().Publish(events.PointsChangeEvent{
		GuildID:      100,
		UserID:       1,
		OldPoints:    0,
		NewPoints:    balance.Points,
		ChangeAmount: 3,
		Reason:       models.ChangeReasonMessageActivity,
	})

	// Nothing reaches the real bus before commit
	select {
	case <-received:
		t.Fatal("event emitted before commit")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, uow.Commit())

	select {
	case e := <-received:
		change, ok := e.(events.PointsChangeEvent)
		require.True(t, ok)
		assert.Equal(t, int64(3), change.NewPoints)
	case <-time.After(time.Second):
		t.Fatal("event not emitted after commit")
	}

	// Write survived the commit
	repo := NewBalanceRepository(testDB.DB)
	persisted, err := repo.GetByUser(ctx, 100, 1)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, int64(3), persisted.Points)
}

func TestUnitOfWork_RollbackDiscardsWritesAndEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypePointsChange, func(ctx context.Context, e events.Event) {
		received <- e
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.BalanceRepository().AddActivityPoints(ctx, 100, 1, 3)
	require.NoError(t, err)
	uow.EventBus().Publish(events.PointsChangeEvent{GuildID: 100, UserID: 1})

	require.NoError(t, uow.Rollback())

	select {
	case <-received:
		t.Fatal("event emitted after rollback")
	case <-time.After(50 * time.Millisecond):
	}

	repo := NewBalanceRepository(testDB.DB)
	balance, err := repo.GetByUser(ctx, 100, 1)
	require.NoError(t, err)
	assert.Nil(t, balance)
}

func TestUnitOfWork_RollbackAfterCommitIsNoop(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err := uow.BalanceRepository().GetOrCreate(ctx, 100, 1)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	assert.NoError(t, uow.Rollback())
}

func TestPointsHistoryRepository_RecordAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPointsHistoryRepository(testDB.DB)
	ctx := context.Background()

	entry := testutil.CreateTestHistory(100, 1, models.ChangeReasonMessageActivity)
	require.NoError(t, repo.Record(ctx, entry))
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	second := testutil.CreateTestHistory(100, 1, models.ChangeReasonLuckyRoll)
	second.ChangeAmount = -2500
	second.PointsAfter = second.PointsBefore - 2500
	second.Metadata = map[string]any{"delta": -2500}
	require.NoError(t, repo.Record(ctx, second))

	entries, err := repo.GetByUser(ctx, 100, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, models.ChangeReasonLuckyRoll, entries[0].Reason)
	assert.Equal(t, float64(-2500), entries[0].Metadata["delta"])
	assert.Equal(t, models.ChangeReasonMessageActivity, entries[1].Reason)

	limited, err := repo.GetByUser(ctx, 100, 1, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
