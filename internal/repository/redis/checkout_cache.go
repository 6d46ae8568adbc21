// Package redis holds the Redis-backed stores: the checkout session replay cache
// and the fixed-window request counter used by the rate limiter.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"conferenceregistration/internal/domain"
)

const checkoutKeyPrefix = "checkout:session:"

type checkoutSessionCache struct {
	client goredis.Cmdable
}

// NewCheckoutSessionCache stores sessions as JSON under checkout:session:<idempotency key>.
func NewCheckoutSessionCache(client goredis.Cmdable) domain.CheckoutSessionCache {
	return &checkoutSessionCache{client: client}
}

type cachedSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

func (c *checkoutSessionCache) Get(ctx context.Context, key string) (*domain.CheckoutSession, error) {
	raw, err := c.client.Get(ctx, checkoutKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var cs cachedSession
	if err := json.Unmarshal([]byte(raw), &cs); err != nil {
		return nil, fmt.Errorf("decode cached session: %w", err)
	}
	return &domain.CheckoutSession{SessionID: cs.SessionID, URL: cs.URL}, nil
}

func (c *checkoutSessionCache) Set(ctx context.Context, key string, session *domain.CheckoutSession, ttl time.Duration) error {
	data, err := json.Marshal(cachedSession{SessionID: session.SessionID, URL: session.URL})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, checkoutKeyPrefix+key, string(data), ttl).Err()
}
