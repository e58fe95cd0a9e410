// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TeardownSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "juzbuild_api_teardown_steps_total",
			Help: "Teardown step outcomes per provider",
		},
		[]string{"provider", "outcome"},
	)

	TeardownDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "juzbuild_api_teardown_duration_seconds",
			Help:    "Total time taken for a full website teardown in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120, 180},
		},
		[]string{"overall_success"},
	)

	TeardownErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "juzbuild_api_teardown_error_count",
			Help: "Errors recorded during teardown",
		},
		[]string{"provider"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "juzbuild_api_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)
)
