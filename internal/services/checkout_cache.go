package services

import (
	"context"
	"sync"
	"time"

	"conferenceregistration/internal/domain"
)

type memoryEntry struct {
	session   domain.CheckoutSession
	expiresAt time.Time
}

// MemoryCheckoutCache is a process-local domain.CheckoutSessionCache used when Redis
// is not configured. Expired entries are dropped on access and on Set.
type MemoryCheckoutCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ domain.CheckoutSessionCache = (*MemoryCheckoutCache)(nil)

func NewMemoryCheckoutCache() *MemoryCheckoutCache {
	return &MemoryCheckoutCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCheckoutCache) Get(ctx context.Context, key string) (*domain.CheckoutSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, domain.ErrNotFound
	}
	sess := e.session
	return &sess, nil
}

func (c *MemoryCheckoutCache) Set(ctx context.Context, key string, session *domain.CheckoutSession, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryEntry{session: *session, expiresAt: now.Add(ttl)}
	return nil
}
