package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetk3436/vigil/internal/alerting"
	"github.com/ahmetk3436/vigil/internal/models"
)

// AlertLister enumerates the alerts to sweep.
type AlertLister interface {
	ListAll(ctx context.Context) ([]models.Alert, error)
}

// Evaluator runs one evaluation pass for an alert id.
type Evaluator interface {
	Evaluate(ctx context.Context, id int64) (alerting.Result, error)
}

// AlertChecker periodically evaluates every alert so notifications fire
// even when no dashboard client is polling. Each sweep iteration is just
// another engine caller; the engine's per-alert serialization and the
// notify latch keep it safe next to on-demand requests.
type AlertChecker struct {
	alerts   AlertLister
	engine   Evaluator
	interval time.Duration
	stop     chan struct{}
}

func NewAlertChecker(alerts AlertLister, engine Evaluator, intervalSecs int) *AlertChecker {
	return &AlertChecker{
		alerts:   alerts,
		engine:   engine,
		interval: time.Duration(intervalSecs) * time.Second,
		stop:     make(chan struct{}),
	}
}

func (ac *AlertChecker) Start() {
	go ac.loop()
	slog.Info("Alert checker started", "interval", ac.interval)
}

func (ac *AlertChecker) Stop() {
	close(ac.stop)
	slog.Info("Alert checker stopped")
}

func (ac *AlertChecker) loop() {
	// Run an initial sweep on startup
	ac.CheckAll()

	ticker := time.NewTicker(ac.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ac.CheckAll()
		case <-ac.stop:
			return
		}
	}
}

// CheckAll evaluates every alert once, bounding each pass with a timeout.
func (ac *AlertChecker) CheckAll() {
	ctx, cancel := context.WithTimeout(context.Background(), ac.interval)
	defer cancel()

	alerts, err := ac.alerts.ListAll(ctx)
	if err != nil {
		slog.Error("Alert sweep failed to list alerts", "error", err)
		return
	}

	for _, alert := range alerts {
		res, err := ac.engine.Evaluate(ctx, alert.ID)
		if err != nil {
			// A failed send is retried on the next sweep; anything else
			// is just logged, the sweep keeps going.
			if errors.Is(err, alerting.ErrNotificationFailed) {
				slog.Warn("Alert sweep: notification failed, will retry",
					"alert_id", alert.ID, "error", err)
			} else {
				slog.Error("Alert sweep: evaluation failed",
					"alert_id", alert.ID, "error", err)
			}
			continue
		}
		if res.IsMet {
			slog.Info("Alert condition met",
				"alert_id", alert.ID,
				"device", alert.DeviceName,
				"sensor", alert.SensorName,
				"value", res.CurrentValue,
			)
		}
	}
}
