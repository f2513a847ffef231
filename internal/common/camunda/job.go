// internal/common/camunda/job.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"seasonal-story-workers/internal/common/errors"
	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/common/metrics"
	"seasonal-story-workers/internal/common/observability"
)

// JobErrorHandler fails or throws on a job; *errors.ErrorHandler is the production one.
type JobErrorHandler interface {
	HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) *errors.BPMNError
}

// JobResponder sends the final command for a job and records its outcome. Both
// workers finish jobs through it.
type JobResponder struct {
	TaskType       string
	CommandTimeout time.Duration
	Errors         JobErrorHandler
	Obs            *observability.Observability
	Logger         logger.Logger
}

func NewJobResponder(taskType string, commandTimeout time.Duration, obs *observability.Observability, log logger.Logger) *JobResponder {
	return &JobResponder{
		TaskType:       taskType,
		CommandTimeout: commandTimeout,
		Errors:         errors.NewErrorHandler(log),
		Obs:            obs,
		Logger:         log,
	}
}

// Complete sends output as the job variables. Output that cannot be encoded fails the
// job through the error handler instead of leaving it to time out.
func (r *JobResponder) Complete(client worker.JobClient, job entities.Job, output interface{}, status string, start time.Time) {
	vars, err := json.Marshal(output)
	if err != nil {
		r.Logger.Error("failed to encode job variables", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		r.Fail(client, job, errors.NewInternalError(err), start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.CommandTimeout)
	defer cancel()

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromString(string(vars))
	if err != nil {
		r.Logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		r.Fail(client, job, errors.NewInternalError(err), start)
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		r.Logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	elapsed := time.Since(start)
	metrics.WorkerJobsCompleted.WithLabelValues(r.TaskType, status).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.TaskType).Observe(elapsed.Seconds())
	r.Obs.RecordJobProcessed(ctx, r.TaskType, status)
	r.Obs.RecordJobDuration(ctx, r.TaskType, elapsed, status)
}

// Fail hands err to the error handler and returns the BPMN error it produced.
func (r *JobResponder) Fail(client worker.JobClient, job entities.Job, err error, start time.Time) *errors.BPMNError {
	ctx, cancel := context.WithTimeout(context.Background(), r.CommandTimeout)
	defer cancel()

	bpmnErr := r.Errors.HandleJobError(ctx, client, job, err)

	elapsed := time.Since(start)
	metrics.WorkerJobsFailed.WithLabelValues(r.TaskType, bpmnErr.Code).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.TaskType).Observe(elapsed.Seconds())
	r.Obs.RecordJobProcessed(ctx, r.TaskType, "failed")
	r.Obs.RecordJobDuration(ctx, r.TaskType, elapsed, "failed")
	return bpmnErr
}
