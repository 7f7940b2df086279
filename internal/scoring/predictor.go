package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"loan-predictor/internal/classifier"
	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/metrics"
	"loan-predictor/internal/common/observability"
	"loan-predictor/internal/models"
)

// Sources label which transport drove a prediction in metrics.
const (
	SourceWeb    = "web"
	SourceAPI    = "api"
	SourceWorker = "worker"
	SourceCLI    = "cli"
)

// Predictor runs encode, align, classify, interpret and comparison for one
// application at a time. It holds only read-only state and may be shared.
type Predictor struct {
	model  classifier.Classifier
	info   classifier.Info
	logger logger.Logger
	obs    *observability.Observability
}

// NewPredictor wraps an already loaded classifier. obs may be nil.
func NewPredictor(model classifier.Classifier, log logger.Logger, obs *observability.Observability) *Predictor {
	info := classifier.Describe(model)
	return &Predictor{
		model: model,
		info:  info,
		logger: log.WithFields(map[string]interface{}{
			logger.FieldComponent:    "scoring",
			logger.FieldModelVersion: info.Version,
		}),
		obs: obs,
	}
}

// Schema is the feature schema of the wrapped classifier.
func (p *Predictor) Schema() classifier.Schema {
	return p.model.Schema()
}

// Info describes the wrapped classifier.
func (p *Predictor) Info() classifier.Info {
	return p.info
}

// Predict scores app. source is one of the Source constants and only labels
// metrics. Errors are *apperrors.StandardError.
func (p *Predictor) Predict(ctx context.Context, app models.Application, source string) (*models.Prediction, error) {
	start := time.Now()
	id := uuid.NewString()

	ctx, span := p.obs.StartSpan(ctx, "scoring.Predict",
		attribute.String("prediction.id", id),
		attribute.String("prediction.source", source),
	)
	defer span.End()

	log := p.logger.WithFields(map[string]interface{}{logger.FieldPredictionID: id})

	features := Encode(app)
	alignment := Align(features, p.model.Schema())
	p.reportDrift(ctx, log, alignment)

	label, err := p.model.Predict(ctx, alignment.Vector)
	if err != nil {
		return nil, p.fail(ctx, span, log, source, start, apperrors.NewPredictionFailedError(err))
	}

	verdict, err := Interpret(label)
	if err != nil {
		return nil, p.fail(ctx, span, log, source, start, apperrors.NewUnrecognizedPredictionError(err))
	}

	prediction := &models.Prediction{
		ID:                id,
		Label:             label,
		Verdict:           verdict,
		Approved:          verdict.Approved(),
		Features:          features,
		Vector:            alignment.Vector,
		DefaultedFeatures: nonNil(alignment.Defaulted),
		IgnoredFeatures:   nonNil(alignment.Ignored),
		Comparison:        BuildComparison(app),
		ModelName:         p.info.Name,
		ModelVersion:      p.info.Version,
	}

	elapsed := time.Since(start)
	metrics.PredictionsTotal.WithLabelValues(string(verdict), source).Inc()
	metrics.PredictionDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	p.obs.RecordPrediction(ctx, string(verdict), source)
	p.obs.RecordPredictionDuration(ctx, elapsed, "success")
	span.SetAttributes(attribute.String("prediction.verdict", string(verdict)))

	log.Info("application scored", map[string]interface{}{
		"verdict":    verdict,
		"label":      label,
		"source":     source,
		"durationMs": elapsed.Milliseconds(),
	})

	return prediction, nil
}

func (p *Predictor) reportDrift(ctx context.Context, log logger.Logger, a Alignment) {
	if len(a.Defaulted) > 0 {
		for _, name := range a.Defaulted {
			metrics.SchemaDefaultedFeatures.WithLabelValues(name).Inc()
		}
		p.obs.RecordDefaultedFeatures(ctx, len(a.Defaulted))
		log.Warn("schema features missing from encoding, filled with zero", map[string]interface{}{
			"features": a.Defaulted,
		})
	}
	if len(a.Ignored) > 0 {
		for _, name := range a.Ignored {
			metrics.SchemaIgnoredFeatures.WithLabelValues(name).Inc()
		}
		log.Warn("encoded features not in schema, dropped", map[string]interface{}{
			"features": a.Ignored,
		})
	}
}

func (p *Predictor) fail(ctx context.Context, span trace.Span, log logger.Logger, source string, start time.Time, stdErr *apperrors.StandardError) error {
	metrics.PredictionErrors.WithLabelValues(string(stdErr.Code), source).Inc()
	p.obs.RecordPredictionDuration(ctx, time.Since(start), "error")
	span.RecordError(stdErr)
	span.SetStatus(codes.Error, stdErr.Message)

	log.Error("prediction failed", map[string]interface{}{
		"errorCode": stdErr.Code,
		"error":     errors.Unwrap(stdErr),
		"source":    source,
	})
	return stdErr
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// PredictRequest resolves and scores a wire-form application. Validation of
// numeric bounds is the caller's job.
func (p *Predictor) PredictRequest(ctx context.Context, req models.ApplicationRequest, source string) (*models.Prediction, error) {
	app, err := req.ToApplication()
	if err != nil {
		return nil, apperrors.NewApplicationValidationError(err.Error())
	}
	return p.Predict(ctx, app, source)
}
