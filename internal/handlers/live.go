package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetk3436/vigil/internal/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// AlertLister enumerates every configured alert for the live stream.
type AlertLister interface {
	ListAll(ctx context.Context) ([]models.Alert, error)
}

// LiveHandler pushes periodic evaluation results for all alerts over a
// WebSocket, replacing per-alert HTTP polling by dashboard clients.
type LiveHandler struct {
	alerts   AlertLister
	engine   ConditionEvaluator
	interval time.Duration
}

func NewLiveHandler(alerts AlertLister, engine ConditionEvaluator, intervalSecs int) *LiveHandler {
	return &LiveHandler{
		alerts:   alerts,
		engine:   engine,
		interval: time.Duration(intervalSecs) * time.Second,
	}
}

// UpgradeCheck is middleware that checks if the request is a websocket upgrade
func (h *LiveHandler) UpgradeCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

type liveStatus struct {
	AlertID      int64   `json:"alert_id"`
	IsMet        bool    `json:"isMet"`
	CurrentValue float64 `json:"currentValue"`
	Error        string  `json:"error,omitempty"`
}

// HandleLive streams evaluation snapshots until the client disconnects.
func (h *LiveHandler) HandleLive() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			if err := h.pushAll(c); err != nil {
				return
			}
			<-ticker.C
		}
	})
}

func (h *LiveHandler) pushAll(c *websocket.Conn) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.interval)
	defer cancel()

	alerts, err := h.alerts.ListAll(ctx)
	if err != nil {
		slog.Error("Live stream failed to list alerts", "error", err)
		return c.WriteJSON(fiber.Map{"error": "failed to list alerts"})
	}

	statuses := make([]liveStatus, 0, len(alerts))
	for _, alert := range alerts {
		res, err := h.engine.Evaluate(ctx, alert.ID)
		status := liveStatus{
			AlertID:      alert.ID,
			IsMet:        res.IsMet,
			CurrentValue: res.CurrentValue,
		}
		if err != nil {
			status.Error = err.Error()
		}
		statuses = append(statuses, status)
	}

	return c.WriteJSON(fiber.Map{
		"time":   time.Now().UTC().Format(time.RFC3339),
		"alerts": statuses,
	})
}
