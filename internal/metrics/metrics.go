package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Evaluation metrics
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_alert_evaluations_total",
			Help: "Total number of alert condition evaluations",
		},
		[]string{"outcome"}, // met, not_met, error
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_alert_notifications_total",
			Help: "Total number of alert notification attempts",
		},
		[]string{"status"}, // sent, failed
	)

	// Ingest metrics
	ReadingsIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_readings_ingested_total",
			Help: "Total number of sensor readings accepted",
		},
	)
)
