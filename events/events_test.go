package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"pointsbot/models"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitDispatchesToSubscribers(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []Event
	done := make(chan struct{}, 1)

	bus.Subscribe(EventTypePointsChange, func(ctx context.Context, e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		done <- struct{}{}
	})

	bus.Emit(context.Background(), PointsChangeEvent{
		GuildID:      1,
		UserID:       2,
		OldPoints:    0,
		NewPoints:    3,
		ChangeAmount: 3,
		Reason:       models.ChangeReasonMessageActivity,
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, received, 1)
	evt, ok := received[0].(PointsChangeEvent)
	assert.True(t, ok)
	assert.Equal(t, int64(3), evt.NewPoints)
}

func TestBus_EmitIgnoresOtherEventTypes(t *testing.T) {
	bus := NewBus()

	called := make(chan struct{}, 1)
	bus.Subscribe(EventTypeWeeklyReset, func(ctx context.Context, e Event) {
		called <- struct{}{}
	})

	bus.Emit(context.Background(), LuckyRollEvent{GuildID: 1, UserID: 2, Delta: -100})

	select {
	case <-called:
		t.Fatal("handler for a different event type was invoked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	real := NewBus()

	count := make(chan struct{}, 8)
	real.Subscribe(EventTypeLuckyRoll, func(ctx context.Context, e Event) {
		count <- struct{}{}
	})

	txBus := NewTransactionalBus(real)
	txBus.Publish(LuckyRollEvent{GuildID: 1, UserID: 2, Delta: 500})
	txBus.Publish(LuckyRollEvent{GuildID: 1, UserID: 3, Delta: -500})

	// Nothing emitted before flush
	select {
	case <-count:
		t.Fatal("event emitted before flush")
	case <-time.After(50 * time.Millisecond):
	}

	assert.NoError(t, txBus.Flush(context.Background()))

	for i := 0; i < 2; i++ {
		select {
		case <-count:
		case <-time.After(time.Second):
			t.Fatal("flushed event was not delivered")
		}
	}

	// Discard drops pending events
	txBus.Publish(LuckyRollEvent{GuildID: 1, UserID: 4, Delta: 1})
	txBus.Discard()
	assert.NoError(t, txBus.Flush(context.Background()))

	select {
	case <-count:
		t.Fatal("discarded event was delivered")
	case <-time.After(50 * time.Millisecond):
	}
}
