package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/ahmetk3436/vigil/internal/alerting"
	"github.com/ahmetk3436/vigil/internal/models"
	"github.com/gofiber/fiber/v2"
)

// AlertDirectory is the repository surface the alert routes need.
type AlertDirectory interface {
	Create(ctx context.Context, alert *models.Alert) error
	ListByDevice(ctx context.Context, device string) ([]models.Alert, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// ConditionEvaluator runs one evaluation pass for an alert id.
type ConditionEvaluator interface {
	Evaluate(ctx context.Context, id int64) (alerting.Result, error)
}

type AlertHandler struct {
	alerts AlertDirectory
	engine ConditionEvaluator
}

func NewAlertHandler(alerts AlertDirectory, engine ConditionEvaluator) *AlertHandler {
	return &AlertHandler{alerts: alerts, engine: engine}
}

// CreateAlert creates a new threshold alert.
func (h *AlertHandler) CreateAlert(c *fiber.Ctx) error {
	var req struct {
		DeviceName string   `json:"device_name"`
		SensorName string   `json:"sensor_name"`
		Condition  string   `json:"condition"`
		Threshold  *float64 `json:"threshold"`
		Color      string   `json:"color"`
		TimePeriod string   `json:"time_period"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if req.DeviceName == "" || req.SensorName == "" || req.Condition == "" ||
		req.Threshold == nil || req.Color == "" || req.TimePeriod == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "All fields are required",
		})
	}

	// Condition and period are validated here, at the boundary, so a bad
	// value never reaches the evaluation engine.
	if _, err := alerting.ParseOp(req.Condition); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid condition. Must be: <, >, <=, >=, =",
		})
	}
	if !alerting.ValidPeriod(req.TimePeriod) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid time_period. Must be: 1h, 1w, 1m",
		})
	}

	alert := models.Alert{
		DeviceName:   req.DeviceName,
		SensorName:   req.SensorName,
		Condition:    req.Condition,
		Threshold:    *req.Threshold,
		Color:        req.Color,
		PeriodOfTime: req.TimePeriod,
	}

	if err := h.alerts.Create(c.Context(), &alert); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create alert",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(alert)
}

// ListDeviceAlerts returns all alerts configured for a device.
func (h *AlertHandler) ListDeviceAlerts(c *fiber.Ctx) error {
	device := c.Params("device_name")
	if device == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "device_name is required",
		})
	}

	alerts, err := h.alerts.ListByDevice(c.Context(), device)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list alerts",
		})
	}

	return c.JSON(fiber.Map{"alerts": alerts})
}

// DeleteAlert removes an alert.
func (h *AlertHandler) DeleteAlert(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Alert ID must be a number",
		})
	}

	affected, err := h.alerts.Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to delete alert",
		})
	}
	if affected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Alert not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Alert deleted"})
}

// CheckCondition evaluates whether an alert's condition is currently met.
//
// A failed notification does not hide the evaluation outcome: the response
// still carries isMet/currentValue, plus a delivery_error field.
func (h *AlertHandler) CheckCondition(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Alert ID must be a number",
		})
	}

	res, err := h.engine.Evaluate(c.Context(), id)
	switch {
	case err == nil:
		return c.JSON(res)
	case errors.Is(err, alerting.ErrAlertNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Alert not found",
		})
	case errors.Is(err, alerting.ErrInvalidCondition), errors.Is(err, alerting.ErrInvalidTimestamp):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	case errors.Is(err, alerting.ErrNotificationFailed), errors.Is(err, alerting.ErrPersistenceFailed):
		return c.JSON(fiber.Map{
			"isMet":          res.IsMet,
			"currentValue":   res.CurrentValue,
			"delivery_error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to evaluate alert condition",
		})
	}
}
