// Package bootstrap assembles the runtime shared by the server and the
// command line tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"kinship/internal/authz"
	"kinship/internal/cache"
	"kinship/internal/config"
	"kinship/internal/database"
	"kinship/internal/events"
	"kinship/internal/notifications"
	"kinship/internal/otp"
	"kinship/internal/repository"
	"kinship/internal/seed"
	"kinship/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty database with generated users and content.
	SeedDemo bool
}

// Runtime is every long-lived collaborator of the process.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Bus   *events.Bus
	UoW   *events.UnitOfWork

	Notifier   *notifications.Notifier
	Hub        *notifications.Hub
	Dispatcher *notifications.Dispatcher

	OTP    *otp.Service
	Policy authz.Policy

	Users         *service.UserService
	Friends       *service.FriendService
	Posts         *service.PostService
	Comments      *service.CommentService
	Notifications *service.NotificationService
	Ranking       *service.RankingService
	Search        *service.SearchService
}

// InitRuntime connects to the database and Redis, then wires the graph
// services, the event bus and the notification pipeline.
func InitRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May be nil when Redis is unreachable; every consumer degrades.
	rdb := cache.InitRedis(cfg.RedisURL)

	rt := Wire(db, rdb, cfg, logger)

	if opts.SeedDemo {
		var n int64
		if err := db.WithContext(ctx).Table("users").Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count users: %w", err)
		}
		if n == 0 {
			if _, err := seed.Seed(ctx, rt.UoW, seed.DefaultOptions()); err != nil {
				return nil, fmt.Errorf("failed to seed demo data: %w", err)
			}
		}
	}

	return rt, nil
}

// Wire builds the runtime over existing connections. rdb may be nil.
func Wire(db *gorm.DB, rdb *redis.Client, cfg *config.Config, logger *slog.Logger) *Runtime {
	bus := events.NewBus(cfg.EventBuffer, logger)
	uow := events.NewUnitOfWork(db, bus)
	notifier := notifications.NewNotifier(rdb)

	stores := repository.NewStores(db)
	codes := otp.NewService(
		otp.NewCache(cfg.OTPMaxEntries, cfg.OTPTTL()),
		stores.Users,
		otp.LogMailer{Logger: logger},
		otp.RandomCode,
	)

	users := service.NewUserService(uow, codes)
	posts := service.NewPostService(uow)

	return &Runtime{
		DB:         db,
		Redis:      rdb,
		Bus:        bus,
		UoW:        uow,
		Notifier:   notifier,
		Hub:        notifications.NewHub(),
		Dispatcher: notifications.NewDispatcher(bus, db, notifier, logger),
		OTP:        codes,
		Policy: authz.NewOwnershipPolicy(
			stores.Users, stores.Posts, stores.Comments, stores.Notifications,
		),
		Users:         users,
		Friends:       service.NewFriendService(uow),
		Posts:         posts,
		Comments:      service.NewCommentService(uow),
		Notifications: service.NewNotificationService(uow),
		Ranking: service.NewRankingService(uow, rdb, service.RankingOptions{
			TrendingLimit:   cfg.TrendingLimit,
			TrendingTTL:     cfg.TrendingCacheTTL(),
			SuggestionLimit: cfg.SuggestLimit,
			//nolint:gosec // The suggestion shuffle is not security sensitive.
			Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		}),
		Search: service.NewSearchService(users, posts),
	}
}

// Close releases the bus and the connections.
func (r *Runtime) Close() {
	if err := r.Bus.Close(); err != nil {
		slog.Warn("failed to close event bus", slog.String("error", err.Error()))
	}
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if sqlDB, err := r.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
