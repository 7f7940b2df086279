// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_predictions_total",
			Help: "Total number of loan predictions by verdict",
		},
		[]string{"verdict", "source"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_prediction_errors_total",
			Help: "Total number of failed predictions by error code",
		},
		[]string{"error_code", "source"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loan_prediction_duration_seconds",
			Help:    "Duration of encode, align and classify in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"source"},
	)

	SchemaDefaultedFeatures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_schema_defaulted_features_total",
			Help: "Schema features absent from the encoded set and filled with zero",
		},
		[]string{"feature"},
	)

	SchemaIgnoredFeatures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_schema_ignored_features_total",
			Help: "Encoded features dropped because the schema does not declare them",
		},
		[]string{"feature"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)
