package handlers

import (
	"time"

	"github.com/ahmetk3436/vigil/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime = time.Now()
var Version = "1.0.0"

type SystemHandler struct {
	db *gorm.DB
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	statusCode := fiber.StatusOK

	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		statusCode = fiber.StatusServiceUnavailable
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "unreachable: " + err.Error()
		statusCode = fiber.StatusServiceUnavailable
	}

	overall := "ok"
	if statusCode != fiber.StatusOK {
		overall = "degraded"
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  overall,
		"service": "vigil",
		"version": Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"uptime":  time.Since(startTime).String(),
		"db":      dbStatus,
	})
}

// Overview returns the dashboard landing counters.
func (h *SystemHandler) Overview(c *fiber.Ctx) error {
	var alertCount, firingCount, readingCount, notificationCount int64
	h.db.Model(&models.Alert{}).Count(&alertCount)
	h.db.Model(&models.Alert{}).Where("notify = ?", true).Count(&firingCount)
	h.db.Model(&models.SensorReading{}).Count(&readingCount)
	h.db.Model(&models.NotificationLog{}).Count(&notificationCount)

	return c.JSON(fiber.Map{
		"version":            Version,
		"uptime":             time.Since(startTime).String(),
		"alerts":             alertCount,
		"alerts_notified":    firingCount,
		"readings":           readingCount,
		"notifications_sent": notificationCount,
	})
}
