// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"loan-predictor/internal/common/logger"
)

// JobHandler is implemented by every task handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. The returned worker polls until
// Stop is called.
func NewWorker(client zbc.Client, taskType string, opts WorkerOptions, handler JobHandler, log logger.Logger) *CamundaWorker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Name(taskType).
		Open()

	w := &CamundaWorker{
		worker:   jobWorker,
		logger:   log.WithFields(map[string]interface{}{logger.FieldTaskType: taskType}),
		taskType: taskType,
	}
	w.logger.Info("worker started", map[string]interface{}{
		"maxJobsActive": opts.MaxJobsActive,
		"timeout_ms":    opts.Timeout.Milliseconds(),
	})
	return w
}

// Stop closes the job worker and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
