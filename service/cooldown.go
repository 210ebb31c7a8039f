package service

import (
	"sync"
	"time"
)

// ActivityKind distinguishes point-granting activity types for cooldown
// purposes
type ActivityKind string

const (
	ActivityMessage ActivityKind = "message"
	ActivityVoice   ActivityKind = "voice"
)

type cooldownKey struct {
	userID int64
	kind   ActivityKind
}

// CooldownTracker enforces a minimum interval between point-granting
// events per (user, activity) pair. State is process-lifetime only: a
// restart clears all cooldowns.
type CooldownTracker struct {
	mu    sync.Mutex
	until map[cooldownKey]time.Time
}

// NewCooldownTracker creates an empty tracker
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		until: make(map[cooldownKey]time.Time),
	}
}

// TryAcquire returns true and starts the window if no active cooldown
// exists for the (user, activity) pair, false otherwise. The entry is
// removed automatically once the window elapses.
func (t *CooldownTracker) TryAcquire(userID int64, kind ActivityKind, window time.Duration) bool {
	key := cooldownKey{userID: userID, kind: kind}
	now := time.Now()

	t.mu.Lock()
	if deadline, ok := t.until[key]; ok && now.Before(deadline) {
		t.mu.Unlock()
		return false
	}
	t.until[key] = now.Add(window)
	t.mu.Unlock()

	time.AfterFunc(window, func() {
		t.mu.Lock()
		// A later TryAcquire may have extended the deadline
		if deadline, ok := t.until[key]; ok && !time.Now().Before(deadline) {
			delete(t.until, key)
		}
		t.mu.Unlock()
	})

	return true
}

// Clear drops all active cooldowns
func (t *CooldownTracker) Clear() {
	t.mu.Lock()
	t.until = make(map[cooldownKey]time.Time)
	t.mu.Unlock()
}

// VoiceRoster tracks which users currently earn voice points, per guild.
// Membership is a set: repeated joins for the same user are idempotent,
// so at most one grant per tick can ever occur for a user.
type VoiceRoster struct {
	mu     sync.RWMutex
	active map[int64]map[int64]struct{} // guildID -> set of userIDs
}

// NewVoiceRoster creates an empty roster
func NewVoiceRoster() *VoiceRoster {
	return &VoiceRoster{
		active: make(map[int64]map[int64]struct{}),
	}
}

// Set marks a user as actively earning voice points
func (r *VoiceRoster) Set(guildID, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.active[guildID]
	if !ok {
		users = make(map[int64]struct{})
		r.active[guildID] = users
	}
	users[userID] = struct{}{}
}

// Remove stops a user from earning voice points immediately
func (r *VoiceRoster) Remove(guildID, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if users, ok := r.active[guildID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(r.active, guildID)
		}
	}
}

// Snapshot returns a copy of the roster. The tick loop iterates the
// copy so membership may change mid-pass without affecting iteration.
func (r *VoiceRoster) Snapshot() map[int64][]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[int64][]int64, len(r.active))
	for guildID, users := range r.active {
		ids := make([]int64, 0, len(users))
		for userID := range users {
			ids = append(ids, userID)
		}
		snapshot[guildID] = ids
	}
	return snapshot
}

// Contains reports whether a user is currently active
func (r *VoiceRoster) Contains(guildID, userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users, ok := r.active[guildID]
	if !ok {
		return false
	}
	_, ok = users[userID]
	return ok
}

// Count returns the total number of active users across guilds
func (r *VoiceRoster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, users := range r.active {
		total += len(users)
	}
	return total
}

// Clear empties the roster (used when the gateway connection drops)
func (r *VoiceRoster) Clear() {
	r.mu.Lock()
	r.active = make(map[int64]map[int64]struct{})
	r.mu.Unlock()
}
