package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
)

const markTTL = 48 * time.Hour

// Guard lets each (kind, target, day) notification through at most once.
type Guard interface {
	// Claim reports whether the caller is the first to claim the mark.
	Claim(ctx context.Context, kind string, targetID int64, day time.Time) (bool, error)
	// Release drops a claimed mark so a later tick can retry.
	Release(ctx context.Context, kind string, targetID int64, day time.Time) error
}

type RedisGuard struct {
	redis *redis.Client
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{redis: client}
}

func markKey(kind string, targetID int64, day time.Time) string {
	return fmt.Sprintf("notify:%s:%d:%s", kind, targetID, day.Format(calendar.DateLayout))
}

func (g *RedisGuard) Claim(ctx context.Context, kind string, targetID int64, day time.Time) (bool, error) {
	ok, err := g.redis.SetNX(ctx, markKey(kind, targetID, day), 1, markTTL).Result()
	if err != nil {
		return false, fmt.Errorf("scheduler.guard.Claim: %w", err)
	}
	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, kind string, targetID int64, day time.Time) error {
	if err := g.redis.Del(ctx, markKey(kind, targetID, day)).Err(); err != nil {
		return fmt.Errorf("scheduler.guard.Release: %w", err)
	}
	return nil
}
