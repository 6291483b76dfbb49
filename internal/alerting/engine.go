package alerting

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ahmetk3436/vigil/internal/metrics"
	"github.com/ahmetk3436/vigil/internal/models"
)

// Result is the outcome of one evaluation pass. It is valid whenever the
// aggregate query succeeded, including when the notification sub-step
// failed afterwards.
type Result struct {
	IsMet        bool    `json:"isMet"`
	CurrentValue float64 `json:"currentValue"`
}

// Snapshot carries the alert details handed to the notifier.
type Snapshot struct {
	AlertID     int64   `json:"alert_id"`
	Device      string  `json:"device_name"`
	Sensor      string  `json:"sensor_name"`
	Condition   string  `json:"condition"`
	Threshold   float64 `json:"threshold"`
	Color       string  `json:"color"`
	PeriodLabel string  `json:"period_of_time"`
}

// AlertStore is the repository surface the engine needs. ClaimNotify must
// have compare-and-set semantics: set notify=true only where it is still
// false, reporting the number of rows changed.
type AlertStore interface {
	GetByID(ctx context.Context, id int64) (*models.Alert, error)
	ClaimNotify(ctx context.Context, id int64) (int64, error)
}

// ReadingStore answers windowed aggregate queries over a sensor stream.
// The bool result reports whether any readings fell inside the window.
type ReadingStore interface {
	Average(ctx context.Context, device, sensor string, start, end time.Time) (float64, bool, error)
}

// Notifier delivers an alert snapshot. It must be safe to retry after a
// failure; the engine only latches the notify flag on confirmed success.
type Notifier interface {
	Send(ctx context.Context, snap Snapshot) error
}

// Engine answers "is this alert's condition currently met?" and performs
// edge-triggered notification: one email per transition into the met
// state, guarded by the persisted notify latch.
type Engine struct {
	alerts   AlertStore
	readings ReadingStore
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewEngine(alerts AlertStore, readings ReadingStore, notifier Notifier, log *slog.Logger) *Engine {
	return &Engine{
		alerts:   alerts,
		readings: readings,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		locks:    map[int64]*sync.Mutex{},
	}
}

// lockFor serializes evaluations of the same alert id. Without this, two
// near-simultaneous polls could both observe notify=false and both send.
func (e *Engine) lockFor(id int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}

// Evaluate loads the alert, averages its sensor stream over the trailing
// window, applies the condition, and on a fresh transition into the met
// state sends a notification and latches the notify flag.
//
// When the returned error is ErrNotificationFailed or ErrPersistenceFailed
// the Result is still valid: delivery state never masks condition state.
func (e *Engine) Evaluate(ctx context.Context, id int64) (Result, error) {
	l := e.lockFor(id)
	l.Lock()
	defer l.Unlock()

	alert, err := e.alerts.GetByID(ctx, id)
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}

	op, err := ParseOp(alert.Condition)
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}

	start, end, err := ResolveWindow(alert.PeriodOfTime, e.now())
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}

	avg, found, err := e.readings.Average(ctx, alert.DeviceName, alert.SensorName, start, end)
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("%w: %v", ErrAggregationFailed, err)
	}
	// An empty window or a NaN aggregate evaluates as 0, not as an error.
	if !found || math.IsNaN(avg) {
		avg = 0
	}

	res := Result{IsMet: op.Met(avg, alert.Threshold), CurrentValue: avg}
	if res.IsMet {
		metrics.EvaluationsTotal.WithLabelValues("met").Inc()
	} else {
		metrics.EvaluationsTotal.WithLabelValues("not_met").Inc()
	}

	if !res.IsMet || alert.Notify {
		return res, nil
	}

	snap := Snapshot{
		AlertID:     alert.ID,
		Device:      alert.DeviceName,
		Sensor:      alert.SensorName,
		Condition:   alert.Condition,
		Threshold:   alert.Threshold,
		Color:       alert.Color,
		PeriodLabel: PeriodLabel(alert.PeriodOfTime),
	}
	if err := e.notifier.Send(ctx, snap); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		e.log.Error("alert notification failed", "alert_id", alert.ID, "error", err)
		return res, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()

	claimed, err := e.alerts.ClaimNotify(ctx, id)
	if err != nil {
		e.log.Error("notify latch write failed after send", "alert_id", alert.ID, "error", err)
		return res, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	if claimed == 0 {
		// Another process latched first; the duplicate send already
		// happened, so only record the race.
		e.log.Warn("notify latch already claimed", "alert_id", alert.ID)
	}

	e.log.Info("alert notification sent",
		"alert_id", alert.ID,
		"device", alert.DeviceName,
		"sensor", alert.SensorName,
		"value", avg,
	)
	return res, nil
}
