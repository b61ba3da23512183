// Command main is the entry point for the kinship backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kinship/internal/bootstrap"
	"kinship/internal/config"
	"kinship/internal/middleware"
	"kinship/internal/notifications"
	"kinship/internal/observability"
	"kinship/internal/server"
	"kinship/internal/supervisor"
)

// @title Kinship API
// @version 1.0
// @description Social graph and engagement API: friendships, posts, comments, likes, notifications and rankings.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@kinship.local
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8375
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := middleware.NewLogger(cfg.Env, os.Stdout)
	middleware.Logger = logger
	observability.SetGlobalLogger(logger)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "kinship-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.InitRuntime(ctx, cfg, logger, bootstrap.Options{
		SeedDemo: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Close()

	srv := server.NewServer(cfg, rt)
	app := srv.NewApp()

	tree := supervisor.NewTree(logger, supervisor.DefaultTreeConfig())
	tree.AddMessagingService(rt.Dispatcher)
	tree.AddMessagingService(notifications.HubService{Hub: rt.Hub, Notifier: rt.Notifier})
	tree.AddAPIService(supervisor.NewHTTPService(app, ":"+cfg.Port, 10*time.Second))

	logger.Info("server starting", "port", cfg.Port)
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logger.Error("supervisor stopped", "error", err)
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logger.Warn("service did not stop in time", "service", svc.Name)
		}
	}

	tracingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(tracingCtx); err != nil {
		logger.Warn("tracing shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
