// Package metrics defines the Prometheus collectors for detection sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session outcomes used as the "outcome" label.
const (
	OutcomeDetected            = "detected"
	OutcomeNotDetected         = "not_detected"
	OutcomeSourceUnreadable    = "source_unreadable"
	OutcomeProviderUnavailable = "provider_unavailable"
	OutcomeUnknownTrick        = "unknown_trick"
	OutcomeCanceled            = "canceled"
	OutcomeError               = "error"
)

var (
	SessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trickcheck_sessions_total",
		Help: "Total number of detection sessions, by outcome",
	}, []string{"outcome", "trick"})

	SessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trickcheck_session_duration_seconds",
		Help:    "Duration of detection sessions",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	FramesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trickcheck_frames_processed_total",
		Help: "Total number of frames classified across all sessions",
	})

	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trickcheck_uploads_total",
		Help: "Total number of stored uploads, by category",
	}, []string{"category"})
)
