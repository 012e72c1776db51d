package access

import (
	"sync"
	"time"
)

type ownedEntry struct {
	ids       []int64
	expiresAt time.Time
}

// OwnedIDCache holds each user's owned-company-ID set for a short
// TTL. It is purely derived state and safe to discard at any time.
// Company create/delete must call Invalidate for the owner; otherwise
// staleness is bounded by the TTL only.
type OwnedIDCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]ownedEntry
	now     func() time.Time
}

func NewOwnedIDCache(ttl time.Duration) *OwnedIDCache {
	return &OwnedIDCache{
		ttl:     ttl,
		entries: make(map[int64]ownedEntry),
		now:     time.Now,
	}
}

func (c *OwnedIDCache) Get(userID int64) ([]int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		delete(c.entries, userID)
		return nil, false
	}

	ids := make([]int64, len(entry.ids))
	copy(ids, entry.ids)
	return ids, true
}

func (c *OwnedIDCache) Set(userID int64, ids []int64) {
	stored := make([]int64, len(ids))
	copy(stored, ids)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = ownedEntry{
		ids:       stored,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *OwnedIDCache) Invalidate(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
}
