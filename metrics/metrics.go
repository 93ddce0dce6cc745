// Package metrics exports prediction outcomes as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sartorproj/gotrend/forecast"
	"github.com/sartorproj/gotrend/prediction"
)

// Metrics holds the Prometheus collectors for prediction runs. It implements
// prediction.Recorder.
type Metrics struct {
	Forecasts          *prometheus.CounterVec
	FitDuration        *prometheus.HistogramVec
	ValidationFailures prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Forecasts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_forecasts_total",
				Help: "Number of forecast requests by model and final state",
			},
			[]string{"model", "outcome"},
		),
		FitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendcast_fit_duration_seconds",
				Help:    "Time spent fitting forecast models",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"model"},
		),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "trendcast_validation_failures_total",
			Help: "Number of requests rejected by validation",
		}),
	}
}

// RecordOutcome counts a finished forecast request by model and final state.
func (m *Metrics) RecordOutcome(model forecast.ModelType, final prediction.State) {
	m.Forecasts.WithLabelValues(string(model), final.String()).Inc()
}

// RecordFitDuration observes the time spent fitting one model.
func (m *Metrics) RecordFitDuration(model forecast.ModelType, d time.Duration) {
	m.FitDuration.WithLabelValues(string(model)).Observe(d.Seconds())
}

// RecordValidationFailure counts a request rejected by validation.
func (m *Metrics) RecordValidationFailure() {
	m.ValidationFailures.Inc()
}

var _ prediction.Recorder = (*Metrics)(nil)
