// internal/workers/loan/predict-loan-approval/handler.go
package predictloanapproval

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/metrics"
	"loan-predictor/internal/common/validation"
	"loan-predictor/internal/scoring"
)

const (
	TaskType = "predict-loan-approval"
)

type Handler struct {
	config    *Config
	predictor *scoring.Predictor
	logger    logger.Logger
	errors    *apperrors.ErrorHandler
}

func NewHandler(config *Config, predictor *scoring.Predictor, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	scoped := log.WithFields(map[string]interface{}{logger.FieldTaskType: TaskType})
	return &Handler{
		config:    config,
		predictor: predictor,
		logger:    scoped,
		errors:    apperrors.NewErrorHandler(scoped, config.MaxRetries),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(ctx, client, job, apperrors.NewInvalidRequestError(fmt.Errorf("parse input: %w", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Application) == 0 || string(input.Application) == "null" {
		return nil, apperrors.NewApplicationValidationError("application: required field missing")
	}

	req, _, stdErr := validation.DecodeApplication(input.Application)
	if stdErr != nil {
		return nil, stdErr.WithMetadata("applicationId", input.ApplicationID)
	}

	prediction, err := h.predictor.PredictRequest(ctx, req, scoring.SourceWorker)
	if err != nil {
		return nil, apperrors.Normalize(err).WithMetadata("applicationId", input.ApplicationID)
	}

	h.logger.Info("loan application scored", map[string]interface{}{
		"applicationId":          input.ApplicationID,
		logger.FieldPredictionID: prediction.ID,
		"verdict":                prediction.Verdict,
	})

	return &Output{
		ApplicationID: input.ApplicationID,
		PredictionID:  prediction.ID,
		Approved:      prediction.Approved,
		Verdict:       prediction.Verdict,
		Label:         prediction.Label,
		Comparison:    prediction.Comparison,
		ModelVersion:  prediction.ModelVersion,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
