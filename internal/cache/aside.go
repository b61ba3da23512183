package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	TrendingKey = "ranking:trending"
)

// Aside loads key into dest, or calls fill to populate dest and stores the
// result for ttl. Redis failures degrade to calling fill; only fill's error
// is returned. A nil client always calls fill.
func Aside(ctx context.Context, rdb *redis.Client, key string, dest any, ttl time.Duration, fill func() error) error {
	if rdb == nil || ttl <= 0 {
		return fill()
	}

	raw, err := rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
		slog.WarnContext(ctx, "discarding undecodable cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	if err := fill(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate drops key. It is a no-op without Redis.
func Invalidate(ctx context.Context, rdb *redis.Client, key string) {
	if rdb != nil {
		rdb.Del(ctx, key)
	}
}
