package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/metrics"
)

const (
	subscriptionKeyPrefix = "subscription:"
	ownerListKeyPrefix    = "owner_subscriptions:"

	defaultCacheTTL = 15 * time.Minute
)

// CachedRepository keeps single records and per-owner listings in Redis.
// Cache failures are logged and never fail the call.
type CachedRepository struct {
	next  Repository
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedRepository(next Repository, client *redis.Client) *CachedRepository {
	return &CachedRepository{next: next, redis: client, ttl: defaultCacheTTL}
}

func subscriptionKey(id int64) string {
	return fmt.Sprintf("%s%d", subscriptionKeyPrefix, id)
}

func ownerListKey(ownerID int64, status Status) string {
	return fmt.Sprintf("%s%d:%s", ownerListKeyPrefix, ownerID, status)
}

func (c *CachedRepository) Create(ctx context.Context, sub *Subscription) (*Subscription, error) {
	created, err := c.next.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	c.invalidateOwner(ctx, created.OwnerID)
	return created, nil
}

func (c *CachedRepository) Get(ctx context.Context, id int64) (*Subscription, error) {
	key := subscriptionKey(id)

	var cached Subscription
	if c.read(ctx, key, &cached) {
		return &cached, nil
	}

	sub, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.write(ctx, key, sub)
	return sub, nil
}

func (c *CachedRepository) ListByOwnerAndStatus(ctx context.Context, ownerID int64, status Status) ([]*Subscription, error) {
	key := ownerListKey(ownerID, status)

	var cached []*Subscription
	if c.read(ctx, key, &cached) {
		return cached, nil
	}

	subs, err := c.next.ListByOwnerAndStatus(ctx, ownerID, status)
	if err != nil {
		return nil, err
	}
	c.write(ctx, key, subs)
	return subs, nil
}

func (c *CachedRepository) Update(ctx context.Context, id int64, updates ...FieldUpdate) (*Subscription, error) {
	sub, err := c.next.Update(ctx, id, updates...)
	if err != nil {
		return nil, err
	}
	c.drop(ctx, subscriptionKey(id))
	c.invalidateOwner(ctx, sub.OwnerID)
	return sub, nil
}

func (c *CachedRepository) Delete(ctx context.Context, id int64) error {
	sub, getErr := c.Get(ctx, id)

	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}

	c.drop(ctx, subscriptionKey(id))
	if getErr == nil {
		c.invalidateOwner(ctx, sub.OwnerID)
	}
	return nil
}

func (c *CachedRepository) ListDueForNotificationAtTime(ctx context.Context, hhmm string) ([]*Subscription, error) {
	return c.next.ListDueForNotificationAtTime(ctx, hhmm)
}

func (c *CachedRepository) SumActivePrice(ctx context.Context, ownerID int64, scope string) (decimal.Decimal, error) {
	return c.next.SumActivePrice(ctx, ownerID, scope)
}

func (c *CachedRepository) SumByPeriodGroupedForOwner(ctx context.Context, ownerID int64) ([]PeriodSum, error) {
	return c.next.SumByPeriodGroupedForOwner(ctx, ownerID)
}

func (c *CachedRepository) read(ctx context.Context, key string, dst any) bool {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Cache read failed", "key", key, "error", err)
		}
		metrics.RecordCache("miss")
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("Cache entry is corrupt", "key", key, "error", err)
		metrics.RecordCache("miss")
		return false
	}
	metrics.RecordCache("hit")
	return true
}

func (c *CachedRepository) write(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("Cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (c *CachedRepository) drop(ctx context.Context, keys ...string) {
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("Cache invalidation failed", "keys", keys, "error", err)
	}
}

func (c *CachedRepository) invalidateOwner(ctx context.Context, ownerID int64) {
	keys := make([]string, 0, len(Statuses()))
	for _, st := range Statuses() {
		keys = append(keys, ownerListKey(ownerID, st))
	}
	c.drop(ctx, keys...)
}
