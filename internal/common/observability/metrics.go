package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "loan-predictor/scoring"

// Observability owns the OTel meter provider. The zero value is usable and
// records nothing, which is what tests and disabled metrics get.
type Observability struct {
	meterProvider      *metric.MeterProvider
	predictionCounter  otelmetric.Int64Counter
	predictionDuration otelmetric.Float64Histogram
	defaultedCounter   otelmetric.Int64Counter
}

// New registers a meter provider that exports through the Prometheus default
// registry, so the instruments show up on /metrics next to the promauto ones.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	predictionCounter, err := meter.Int64Counter(
		"predictions.processed",
		otelmetric.WithDescription("Number of loan applications scored"),
	)
	if err != nil {
		return &Observability{}, err
	}

	predictionDuration, err := meter.Float64Histogram(
		"predictions.duration",
		otelmetric.WithDescription("Prediction pipeline duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return &Observability{}, err
	}

	defaultedCounter, err := meter.Int64Counter(
		"schema.defaulted_features",
		otelmetric.WithDescription("Schema features zero-filled during alignment"),
	)
	if err != nil {
		return &Observability{}, err
	}

	return &Observability{
		meterProvider:      provider,
		predictionCounter:  predictionCounter,
		predictionDuration: predictionDuration,
		defaultedCounter:   defaultedCounter,
	}, nil
}

func (o *Observability) RecordPrediction(ctx context.Context, verdict, source string) {
	if o == nil || o.predictionCounter == nil {
		return
	}
	o.predictionCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("verdict", verdict),
		attribute.String("source", source),
	))
}

func (o *Observability) RecordPredictionDuration(ctx context.Context, duration time.Duration, status string) {
	if o == nil || o.predictionDuration == nil {
		return
	}
	o.predictionDuration.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDefaultedFeatures(ctx context.Context, count int) {
	if o == nil || o.defaultedCounter == nil || count == 0 {
		return
	}
	o.defaultedCounter.Add(ctx, int64(count))
}

// StartSpan starts a span on the globally registered tracer provider.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
