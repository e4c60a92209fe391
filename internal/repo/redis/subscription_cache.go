package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const subscriptionPrefix = "subscription:"

// SubscriptionCache keeps the latest oracle verdict per account with a TTL.
// It is an advisory layer in front of the persisted flag: with a nil client
// every read is a miss and every write is a no-op.
type SubscriptionCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSubscriptionCache(client *goredis.Client, ttl time.Duration) *SubscriptionCache {
	return &SubscriptionCache{client: client, ttl: ttl}
}

func (c *SubscriptionCache) Set(ctx context.Context, tgID int64, subscribed bool) error {
	if c.client == nil {
		return nil
	}

	value := "0"
	if subscribed {
		value = "1"
	}
	if err := c.client.Set(ctx, subscriptionKey(tgID), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("set subscription cache: %w", err)
	}
	return nil
}

// Get returns the cached verdict and whether the key was present.
func (c *SubscriptionCache) Get(ctx context.Context, tgID int64) (bool, bool, error) {
	if c.client == nil {
		return false, false, nil
	}

	value, err := c.client.Get(ctx, subscriptionKey(tgID)).Result()
	if errors.Is(err, goredis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("get subscription cache: %w", err)
	}
	return value == "1", true, nil
}

func subscriptionKey(tgID int64) string {
	return subscriptionPrefix + strconv.FormatInt(tgID, 10)
}
