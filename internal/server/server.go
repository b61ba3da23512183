package server

import (
	"context"
	"errors"
	"time"

	_ "kinship/docs" // swagger docs
	"kinship/internal/authz"
	"kinship/internal/bootstrap"
	"kinship/internal/config"
	"kinship/internal/middleware"
	"kinship/internal/models"
	"kinship/internal/notifications"
	"kinship/internal/otp"
	"kinship/internal/repository"
	"kinship/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	hub            *notifications.Hub
	otp            *otp.Service
	policy         authz.Policy

	userService         *service.UserService
	friendService       *service.FriendService
	postService         *service.PostService
	commentService      *service.CommentService
	notificationService *service.NotificationService
	rankingService      *service.RankingService
	searchService       *service.SearchService
}

// NewServer builds a Server over an initialized runtime.
func NewServer(cfg *config.Config, rt *bootstrap.Runtime) *Server {
	return &Server{
		config:              cfg,
		db:                  rt.DB,
		redis:               rt.Redis,
		promMiddleware:      middleware.InitMetrics("kinship-api"),
		userRepo:            repository.NewUserRepository(rt.DB),
		hub:                 rt.Hub,
		otp:                 rt.OTP,
		policy:              rt.Policy,
		userService:         rt.Users,
		friendService:       rt.Friends,
		postService:         rt.Posts,
		commentService:      rt.Comments,
		notificationService: rt.Notifications,
		rankingService:      rt.Ranking,
		searchService:       rt.Search,
	}
}

// NewApp returns a fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "kinship",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			return respondError(c, err)
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Bearer tokens only, so no credentials are shared cross-origin.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	auth := api.Group("/auth")
	auth.Post("/otp", middleware.RateLimit(s.redis, "otp", 3, 10*time.Minute), s.IssueCode)
	auth.Post("/signup", middleware.RateLimit(s.redis, "signup", 5, 10*time.Minute), s.Signup)

	api.Get("/swagger/*", swagger.HandlerDefault)

	// Public reads
	api.Get("/search", middleware.RateLimit(s.redis, "search", 20, time.Minute), s.Search)
	publicPosts := api.Group("/posts")
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/trending", s.GetTrendingPosts)
	publicPosts.Get("/search", middleware.RateLimit(s.redis, "search", 20, time.Minute), s.SearchPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id/likes", s.GetPostLikers)
	publicPosts.Get("/:id", s.GetPost)
	api.Get("/comments/:commentId/likes", s.GetCommentLikers)
	api.Get("/comments/:commentId", s.GetComment)

	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/", s.GetUsers)
	users.Get("/me", s.GetMyProfile)
	users.Get("/search", s.SearchUsers)
	users.Get("/suggestions", s.GetFriendSuggestions)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	users.Get("/:id/friends", s.GetUserFriends)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id/comments", s.GetUserComments)
	users.Get("/:id", s.GetUserProfile)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	friends := protected.Group("/friends")
	friends.Get("/", s.GetFriends)
	friends.Post("/requests/:userId", middleware.RateLimit(
		s.redis, "friend_request", 10, 5*time.Minute), s.SendFriendRequest)
	friends.Post("/requests/:userId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:userId/reject", s.RejectFriendRequest)
	friends.Delete("/requests/:userId", s.CancelFriendRequest)
	friends.Get("/status/:userId", s.GetFriendshipStatus)
	// Generic /:userId route must be last
	friends.Delete("/:userId", s.RemoveFriend)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(s.redis, "create_post", 10, time.Minute), s.CreatePost)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, "create_comment", 20, time.Minute), s.CreateComment)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	comments := protected.Group("/comments")
	comments.Post("/:commentId/like", s.LikeComment)
	comments.Delete("/:commentId/like", s.UnlikeComment)
	comments.Put("/:commentId", s.UpdateComment)
	comments.Delete("/:commentId", s.DeleteComment)

	notes := protected.Group("/notifications")
	notes.Get("/", s.GetNotifications)
	notes.Post("/read-all", s.MarkAllNotificationsRead)
	notes.Post("/:id/read", s.MarkNotificationRead)
	notes.Delete("/:id", s.DeleteNotification)
	notes.Delete("/", s.DeleteAllNotifications)

	ws := api.Group("/ws", s.AuthRequired())
	ws.Get("/notifications", s.NotificationsWebSocket())
}

// AuthRequired verifies the bearer token and resolves its subject to a user.
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.AuthRequired(s.config.JWTSecret, s.resolveUser)
}

func (s *Server) resolveUser(ctx context.Context, email string) (uint, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return 0, err
	}
	return user.ID, nil
}

// LivenessCheck handles liveness checks
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness checks. Redis is optional: a
// missing client degrades the trending cache and live fan-out only.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
