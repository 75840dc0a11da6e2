package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_token:"

// RedisDenylist keeps revoked token ids in Redis until the token would have expired.
type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

// Revoke marks tokenID as revoked until the given time. Already expired tokens are ignored.
func (c *RedisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (c *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryDenylist is the in-process denylist used when no Redis address is configured.
// Entries are dropped once their expiry has passed.
type MemoryDenylist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (c *MemoryDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, exp := range c.entries {
		if !exp.After(now) {
			delete(c.entries, id)
		}
	}
	if until.After(now) {
		c.entries[tokenID] = until
	}
	return nil
}

func (c *MemoryDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	exp, ok := c.entries[tokenID]
	return ok && exp.After(c.now()), nil
}
