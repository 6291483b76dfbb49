package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmetk3436/vigil/internal/alerting"
	"github.com/ahmetk3436/vigil/internal/config"
	"github.com/ahmetk3436/vigil/internal/database"
	"github.com/ahmetk3436/vigil/internal/handlers"
	"github.com/ahmetk3436/vigil/internal/notify"
	"github.com/ahmetk3436/vigil/internal/routes"
	"github.com/ahmetk3436/vigil/internal/services"
	"github.com/ahmetk3436/vigil/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// JSON structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting Vigil", "version", handlers.Version)

	// ─── Config ──────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment")
	}
	cfg := config.Load()

	// ─── Database ────────────────────────────────────────────────────────
	if err := database.Connect(cfg); err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	db := database.DB

	// ─── Storage ────────────────────────────────────────────────────────
	alertStore := storage.NewAlertStore(db)
	readingStore := storage.NewReadingStore(db)

	// ─── Alert Engine ───────────────────────────────────────────────────
	notifier := notify.NewEmailNotifier(cfg, db)
	engine := alerting.NewEngine(alertStore, readingStore, notifier, slog.Default())

	// ─── Alert Checker ──────────────────────────────────────────────────
	alertChecker := services.NewAlertChecker(alertStore, engine, cfg.CheckIntervalSeconds)
	alertChecker.Start()

	// ─── Handlers ───────────────────────────────────────────────────────
	authHandler := handlers.NewAuthHandler(cfg)
	alertHandler := handlers.NewAlertHandler(alertStore, engine)
	readingHandler := handlers.NewReadingHandler(readingStore)
	liveHandler := handlers.NewLiveHandler(alertStore, engine, cfg.LiveIntervalSeconds)
	systemHandler := handlers.NewSystemHandler(db)

	// ─── Fiber App ──────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      "vigil v" + handlers.Version,
		ServerHeader: "vigil",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": message,
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: false,
	}))

	// Security headers
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Request logger
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if c.Path() == "/api/health" {
			return err
		}
		slog.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		)
		return err
	})

	// ─── Routes ─────────────────────────────────────────────────────────
	routes.Setup(app, cfg, authHandler, alertHandler, readingHandler, liveHandler, systemHandler)

	// ─── Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down Vigil...")

		alertChecker.Stop()

		if err := app.Shutdown(); err != nil {
			slog.Error("Fiber shutdown error", "error", err)
		}

		if sqlDB, err := database.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// ─── Start ──────────────────────────────────────────────────────────
	listenAddr := ":" + cfg.Port
	slog.Info("Vigil listening", "addr", listenAddr)

	if err := app.Listen(listenAddr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
