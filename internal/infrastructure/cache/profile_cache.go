package cache

import (
	"sync"
	"time"

	"mahto/internal/domain/entity"
)

type entry struct {
	user      *entity.User
	expiresAt time.Time
}

// ProfileCache is a bounded TTL cache for user profiles, used to avoid
// re-reading the same counterpart profile for every conversation row.
type ProfileCache struct {
	mutex      sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
}

func NewProfileCache(ttl time.Duration, maxEntries int) *ProfileCache {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &ProfileCache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *ProfileCache) Get(userID string) (*entity.User, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, userID)
		return nil, false
	}

	return e.user, true
}

func (c *ProfileCache) Put(userID string, user *entity.User) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}

	c.entries[userID] = entry{
		user:      user,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops a cached profile, called after the profile changes.
func (c *ProfileCache) Invalidate(userID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, userID)
}

func (c *ProfileCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.entries)
}

// evictLocked removes expired entries first, then the entry closest to
// expiry if the cache is still full.
func (c *ProfileCache) evictLocked() {
	now := time.Now()
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var oldestID string
	var oldest time.Time
	for id, e := range c.entries {
		if oldestID == "" || e.expiresAt.Before(oldest) {
			oldestID = id
			oldest = e.expiresAt
		}
	}
	if oldestID != "" {
		delete(c.entries, oldestID)
	}
}
