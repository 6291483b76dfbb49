package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetk3436/vigil/internal/alerting"
	"github.com/ahmetk3436/vigil/internal/metrics"
	"github.com/ahmetk3436/vigil/internal/models"
	"github.com/gofiber/fiber/v2"
)

// ReadingArchive is the time-series surface the reading routes need.
type ReadingArchive interface {
	Insert(ctx context.Context, reading *models.SensorReading) error
	Range(ctx context.Context, device, sensor string, since time.Time) ([]models.SensorReading, error)
	Average(ctx context.Context, device, sensor string, start, end time.Time) (float64, bool, error)
}

type ReadingHandler struct {
	readings ReadingArchive
}

func NewReadingHandler(readings ReadingArchive) *ReadingHandler {
	return &ReadingHandler{readings: readings}
}

// Ingest stores one sensor reading. EventTime defaults to now.
func (h *ReadingHandler) Ingest(c *fiber.Ctx) error {
	var req struct {
		DeviceName string     `json:"device_name"`
		SensorName string     `json:"sensor_name"`
		Value      *float64   `json:"value"`
		EventTime  *time.Time `json:"event_time"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if req.DeviceName == "" || req.SensorName == "" || req.Value == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "device_name, sensor_name and value are required",
		})
	}

	eventTime := time.Now().UTC()
	if req.EventTime != nil {
		eventTime = *req.EventTime
	}

	reading := models.SensorReading{
		DeviceName: req.DeviceName,
		SensorName: req.SensorName,
		Value:      *req.Value,
		EventTime:  eventTime,
	}

	if err := h.readings.Insert(c.Context(), &reading); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to store reading",
		})
	}

	metrics.ReadingsIngestedTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(reading)
}

// GetRange returns all readings of one stream since the given instant,
// oldest first.
func (h *ReadingHandler) GetRange(c *fiber.Ctx) error {
	device := c.Params("device_name")
	sensor := c.Params("sensor_name")

	sinceStr := c.Query("since")
	if sinceStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "since is required",
		})
	}

	since, err := time.Parse(time.RFC3339, sinceStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "since must be an RFC 3339 timestamp",
		})
	}

	readings, err := h.readings.Range(c.Context(), device, sensor, since)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to fetch sensor data",
		})
	}

	return c.JSON(fiber.Map{"readings": readings})
}

// GetAverage returns the mean value of one stream over a window selected
// by ?period= — a symbolic token (1h, 1w, 1m) or an explicit RFC 3339
// start timestamp. An empty window averages to 0.
func (h *ReadingHandler) GetAverage(c *fiber.Ctx) error {
	device := c.Params("device_name")
	sensor := c.Params("sensor_name")

	period := c.Query("period")
	if period == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "period is required",
		})
	}

	start, end, err := alerting.ResolveWindow(period, time.Now().UTC())
	if err != nil {
		if errors.Is(err, alerting.ErrInvalidTimestamp) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "period must be 1h, 1w, 1m or an RFC 3339 timestamp",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to resolve time window",
		})
	}

	avg, found, err := h.readings.Average(c.Context(), device, sensor, start, end)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to fetch sensor data",
		})
	}
	if !found {
		avg = 0
	}

	return c.JSON(fiber.Map{
		"average": avg,
		"start":   start.Format(time.RFC3339),
		"end":     end.Format(time.RFC3339),
	})
}
