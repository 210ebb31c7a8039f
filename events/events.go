package events

import (
	"context"
	"sync"

	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePointsChange   EventType = "points_change"
	EventTypeRewardRedeemed EventType = "reward_redeemed"
	EventTypeLuckyRoll      EventType = "lucky_roll"
	EventTypeWeeklyReset    EventType = "weekly_reset"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PointsChangeEvent represents a points change that occurred
type PointsChangeEvent struct {
	GuildID      int64
	UserID       int64
	OldPoints    int64
	NewPoints    int64
	ChangeAmount int64
	Reason       models.ChangeReason
}

func (e PointsChangeEvent) Type() EventType {
	return EventTypePointsChange
}

// RewardRedeemedEvent represents a successful reward redemption.
// NotifyChannelID is nil when the guild has no reward channel configured.
type RewardRedeemedEvent struct {
	RedemptionID    string
	GuildID         int64
	UserID          int64
	Reward          string
	Cost            int64
	NewPoints       int64
	NotifyChannelID *int64
}

func (e RewardRedeemedEvent) Type() EventType {
	return EventTypeRewardRedeemed
}

// LuckyRollEvent represents a completed gamble
type LuckyRollEvent struct {
	GuildID   int64
	UserID    int64
	Delta     int64
	NewPoints int64
}

func (e LuckyRollEvent) Type() EventType {
	return EventTypeLuckyRoll
}

// WeeklyResetEvent represents a completed weekly points reset for one
// guild. Top holds the weekly leaderboard captured before zeroing.
type WeeklyResetEvent struct {
	GuildID           int64
	AnnounceChannelID *int64
	Top               []models.LeaderboardEntry
	UsersReset        int
}

func (e WeeklyResetEvent) Type() EventType {
	return EventTypeWeeklyReset
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events are processed independently of the transaction lifecycle,
	// so emission uses a background context.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
