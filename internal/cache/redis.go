// Package cache holds the Redis connection and the read-through helpers the
// ranking and profile reads sit behind.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"kinship/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// errorCounter feeds middleware.RedisErrors. A cache miss is not an error.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countError(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countError("pipeline", err)
		return err
	}
}

func countError(op string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		middleware.RedisErrors.WithLabelValues(op).Inc()
	}
}

// parseOptions accepts host:port or a redis:// URL.
func parseOptions(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	if !strings.Contains(addr, "://") {
		return &redis.Options{Addr: addr}, nil
	}
	return redis.ParseURL(addr)
}

// InitRedis connects to addr and returns nil when Redis is not configured or
// not reachable. A nil client means no cache and no cross-instance fan-out.
func InitRedis(addr string) *redis.Client {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	opts, err := parseOptions(addr)
	if err != nil {
		slog.Warn("invalid REDIS_URL, continuing without cache", slog.String("error", err.Error()))
		return nil
	}

	client := redis.NewClient(opts)
	client.AddHook(errorCounter{})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, continuing without cache",
			slog.String("addr", opts.Addr),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return nil
	}
	slog.Info("redis connected", slog.String("addr", opts.Addr), slog.Int("db", opts.DB))
	return client
}
