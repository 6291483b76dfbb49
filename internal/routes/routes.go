package routes

import (
	"github.com/ahmetk3436/vigil/internal/config"
	"github.com/ahmetk3436/vigil/internal/handlers"
	"github.com/ahmetk3436/vigil/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	alertHandler *handlers.AlertHandler,
	readingHandler *handlers.ReadingHandler,
	liveHandler *handlers.LiveHandler,
	systemHandler *handlers.SystemHandler,
) {
	// ─── Public ──────────────────────────────────────────────────────────
	app.Get("/api/health", systemHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ─── Auth ────────────────────────────────────────────────────────────
	app.Post("/api/auth/login", authHandler.Login)
	app.Post("/api/auth/refresh", authHandler.Refresh)

	// ─── Protected routes ────────────────────────────────────────────────
	api := app.Group("/api", middleware.JWTProtected(cfg.JWTSecret))

	// Auth (protected)
	api.Get("/auth/me", authHandler.Me)

	// Dashboard
	api.Get("/dashboard/overview", systemHandler.Overview)

	// Alerts
	api.Post("/alerts", alertHandler.CreateAlert)
	api.Delete("/alerts/:id", alertHandler.DeleteAlert)
	api.Get("/alerts/:id/condition", alertHandler.CheckCondition)
	api.Get("/devices/:device_name/alerts", alertHandler.ListDeviceAlerts)

	// Live alert stream (WebSocket)
	api.Use("/alerts/live", liveHandler.UpgradeCheck())
	api.Get("/alerts/live", liveHandler.HandleLive())

	// Sensor readings
	api.Post("/readings", readingHandler.Ingest)
	api.Get("/readings/:device_name/:sensor_name", readingHandler.GetRange)
	api.Get("/readings/:device_name/:sensor_name/avg", readingHandler.GetAverage)
}
