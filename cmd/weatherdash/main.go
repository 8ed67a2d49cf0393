package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/weatherdash/weatherdash/internal/amap"
	httpapi "github.com/weatherdash/weatherdash/internal/api/http"
	"github.com/weatherdash/weatherdash/internal/config"
	"github.com/weatherdash/weatherdash/internal/favorites"
	"github.com/weatherdash/weatherdash/internal/geo"
	"github.com/weatherdash/weatherdash/internal/scheduler"
	"github.com/weatherdash/weatherdash/internal/search"
	"github.com/weatherdash/weatherdash/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Provider client with resilience (backoff + circuit breaker) and a
	// rate limit sized for the free AMap tier.
	client := amap.NewClient(httpClient, cfg.AMapAPIKey, amap.WithRateLimit(3, 3))

	resolver := geo.NewResolver(client)
	service := weather.NewService(resolver, client)

	// Debounced search session: rapid query changes coalesce, and only
	// the newest one resolves.
	searchSession := search.NewSession(cfg.SearchDebounce, resolver.Resolve)
	defer searchSession.Close()

	// File-backed favorites list, loaded at startup.
	favStore, err := favorites.NewStore(cfg.FavoritesFile)
	if err != nil {
		log.Fatalf("failed to load favorites: %v", err)
	}

	// Scheduler that periodically refreshes favorite cities.
	sched := scheduler.New(service, favStore, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weatherdash",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherdash",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, searchSession, favStore)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
