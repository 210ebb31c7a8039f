package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownTracker_TryAcquire(t *testing.T) {
	tracker := NewCooldownTracker()

	assert.True(t, tracker.TryAcquire(1, ActivityMessage, time.Hour))
	assert.False(t, tracker.TryAcquire(1, ActivityMessage, time.Hour))

	// Different user, same kind
	assert.True(t, tracker.TryAcquire(2, ActivityMessage, time.Hour))

	// Same user, different kind
	assert.True(t, tracker.TryAcquire(1, ActivityVoice, time.Hour))
}

func TestCooldownTracker_ExpiryReleases(t *testing.T) {
	tracker := NewCooldownTracker()

	assert.True(t, tracker.TryAcquire(1, ActivityMessage, 20*time.Millisecond))
	assert.False(t, tracker.TryAcquire(1, ActivityMessage, 20*time.Millisecond))

	time.Sleep(50 * time.Millisecond)

	assert.True(t, tracker.TryAcquire(1, ActivityMessage, 20*time.Millisecond))
}

func TestCooldownTracker_Clear(t *testing.T) {
	tracker := NewCooldownTracker()

	assert.True(t, tracker.TryAcquire(1, ActivityMessage, time.Hour))
	tracker.Clear()
	assert.True(t, tracker.TryAcquire(1, ActivityMessage, time.Hour))
}

func TestVoiceRoster_SetRemoveContains(t *testing.T) {
	roster := NewVoiceRoster()

	roster.Set(10, 1)
	roster.Set(10, 2)
	roster.Set(20, 1)

	assert.True(t, roster.Contains(10, 1))
	assert.True(t, roster.Contains(20, 1))
	assert.False(t, roster.Contains(20, 2))
	assert.Equal(t, 3, roster.Count())

	roster.Remove(10, 1)
	assert.False(t, roster.Contains(10, 1))
	assert.Equal(t, 2, roster.Count())

	// Removing an absent user is a no-op
	roster.Remove(10, 99)
	assert.Equal(t, 2, roster.Count())
}

func TestVoiceRoster_SetIsIdempotent(t *testing.T) {
	roster := NewVoiceRoster()

	// Rapid join/leave/join toggling must never produce duplicate
	// roster entries for one user
	roster.Set(10, 1)
	roster.Set(10, 1)
	roster.Set(10, 1)

	assert.Equal(t, 1, roster.Count())

	snapshot := roster.Snapshot()
	assert.Len(t, snapshot[10], 1)
}

func TestVoiceRoster_SnapshotIsDetached(t *testing.T) {
	roster := NewVoiceRoster()
	roster.Set(10, 1)

	snapshot := roster.Snapshot()
	roster.Remove(10, 1)

	// The snapshot taken before removal is unaffected
	assert.Len(t, snapshot[10], 1)
	assert.Equal(t, 0, roster.Count())
}

func TestVoiceRoster_Clear(t *testing.T) {
	roster := NewVoiceRoster()
	roster.Set(10, 1)
	roster.Set(20, 2)

	roster.Clear()

	assert.Equal(t, 0, roster.Count())
	assert.False(t, roster.Contains(10, 1))
}
