package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateCounter counts hits per key in fixed windows.
type RateCounter struct {
	client goredis.Cmdable
	prefix string
}

func NewRateCounter(client goredis.Cmdable, prefix string) *RateCounter {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RateCounter{client: client, prefix: prefix}
}

// Hit increments the counter for key and returns the count within the current window.
// The window starts with the first hit and lasts for window.
func (c *RateCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := c.prefix + key
	count, err := c.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.client.Expire(ctx, k, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
