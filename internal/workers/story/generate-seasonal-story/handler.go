// internal/workers/story/generate-seasonal-story/handler.go
package generateseasonalstory

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"seasonal-story-workers/internal/common/camunda"
	"seasonal-story-workers/internal/common/errors"
	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/common/metrics"
	"seasonal-story-workers/internal/common/observability"
	"seasonal-story-workers/internal/story"
)

const TaskType = "generate-seasonal-story"

// NarrativeService is the part of story.Service this worker needs.
type NarrativeService interface {
	GenerateNarrative(ctx context.Context, req story.NarrativeRequest) (*story.NarrativeResult, error)
}

type Handler struct {
	config    *Config
	service   NarrativeService
	responder *camunda.JobResponder
	obs       *observability.Observability
	logger    logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Service       NarrativeService
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%s: config is required", TaskType)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Service == nil {
		return nil, fmt.Errorf("%s: story service is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:    opts.Config,
		service:   opts.Service,
		responder: camunda.NewJobResponder(TaskType, opts.Config.CommandTimeout, opts.Observability, log),
		obs:       opts.Observability,
		logger:    log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"workflowKey": job.GetProcessInstanceKey(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.GetVariables())
	if err != nil {
		h.fail(client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(client, job, err, start)
		return
	}

	h.complete(client, job, output, start)
}

// parseInput validates the raw job variables against the input schema before decoding.
func parseInput(variables string) (*Input, error) {
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}
	result := inputSchema.Validate([]byte(variables))
	if !result.Valid {
		return nil, errors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidRequestError(fmt.Sprintf("decode variables: %v", err))
	}
	return &input, nil
}

// Execute runs one narrative request. A request in which every variant failed is an error;
// a partial failure is not.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.service.GenerateNarrative(ctx, input.ToRequest())
	if err != nil {
		return nil, toStandardError(err)
	}

	output := buildOutput(result)
	h.recordOrigins(ctx, result.Context)

	if result.Status == story.StatusFailed {
		return nil, errors.NewGenerationFailedError(
			fmt.Sprintf("%d of %d variants failed", len(output.Failures), len(result.Variants)),
		).WithMetadata("failures", output.Failures).WithMetadata("requestId", result.RequestID)
	}

	h.logger.Info("narrative generated", map[string]interface{}{
		"requestId": result.RequestID,
		"status":    output.Status,
		"stories":   len(output.Stories),
		"failures":  len(output.Failures),
		"location":  input.Location,
	})
	return output, nil
}

func buildOutput(result *story.NarrativeResult) *Output {
	out := &Output{
		RequestID: result.RequestID,
		Status:    string(result.Status),
		Stories:   []Story{},
		Failures:  []Failure{},
		Context:   result.Context,
	}
	if result.Context != nil {
		out.GeneratedAt = result.Context.GeneratedAt
	}

	for _, v := range result.Variants {
		if v.OK() {
			out.Stories = append(out.Stories, Story{
				Variant:       v.Variant.Label,
				Story:         v.Variant.Text,
				Temperature:   v.Variant.Temperature,
				TrendKeywords: v.Variant.TrendKeywords,
				Truncated:     v.Variant.Truncated,
			})
			continue
		}
		out.Failures = append(out.Failures, Failure{
			Variant:   v.Label,
			ErrorCode: variantErrorCode(v.Err),
			Message:   errMessage(v.Err),
		})
	}
	return out
}

func variantErrorCode(err error) string {
	if stderrors.Is(err, story.ErrGenerationTimeout) {
		return string(errors.ErrCodeGenerationTimeout)
	}
	return string(errors.ErrCodeGenerationFailed)
}

func errMessage(err error) string {
	if err == nil {
		return "no text generated"
	}
	return err.Error()
}

func toStandardError(err error) *errors.StandardError {
	switch {
	case stderrors.Is(err, story.ErrInvalidRequest):
		return errors.NewInvalidRequestError(err.Error())
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewRequestCancelledError(err)
	case stderrors.Is(err, story.ErrGenerationFailed):
		return errors.NewGenerationFailedError(err.Error())
	default:
		return errors.NewInternalError(err)
	}
}

func (h *Handler) recordOrigins(ctx context.Context, sc *story.Context) {
	if sc == nil {
		return
	}
	h.obs.RecordContextOrigin(ctx, "weather", string(sc.Weather.Origin))
	if len(sc.Trends) > 0 {
		h.obs.RecordContextOrigin(ctx, "trends", string(sc.Trends[0].Origin))
	}
}

func (h *Handler) complete(client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	h.responder.Complete(client, job, output, output.Status, start)
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error, start time.Time) {
	h.responder.Fail(client, job, err, start)
}
