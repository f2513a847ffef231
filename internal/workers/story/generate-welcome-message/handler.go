// internal/workers/story/generate-welcome-message/handler.go
package generatewelcomemessage

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

const (
	TaskType = "generate-welcome-message"

	maxContextTrends = 5
)

type WelcomeService interface {
	GenerateWelcome(ctx context.Context, req story.WelcomeRequest) (*story.WelcomeResult, error)
}

type Handler struct {
	config    *Config
	service   WelcomeService
	responder *camunda.JobResponder
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(cfg *Config, service WelcomeService, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    cfg,
		service:   service,
		responder: camunda.NewJobResponder(TaskType, cfg.CommandTimeout, obs, log),
		obs:       obs,
		logger:    log,
	}
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
		h.responder.Fail(client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.responder.Fail(client, job, err, start)
		return
	}

	status := "completed"
	if output.Fallback {
		status = "fallback"
	}
	h.responder.Complete(client, job, output, status, start)
}

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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.service.GenerateWelcome(ctx, input.ToRequest())
	if err != nil {
		switch {
		case stderrors.Is(err, story.ErrInvalidRequest):
			return nil, errors.NewInvalidRequestError(err.Error())
		case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
			return nil, errors.NewRequestCancelledError(err)
		default:
			return nil, errors.NewInternalError(err)
		}
	}

	sc := result.Context
	h.obs.RecordContextOrigin(ctx, "weather", string(sc.Weather.Origin))

	trends := make([]string, 0, maxContextTrends)
	for _, kw := range sc.Trends {
		if len(trends) == maxContextTrends {
			break
		}
		trends = append(trends, kw.Text)
	}

	return &Output{
		Message:   result.Message.Text,
		StoreID:   input.StoreID,
		StoreName: strings.TrimSpace(input.StoreName),
		Fallback:  result.Message.Fallback,
		Context: WelcomeContext{
			Weather: sc.Weather.Description,
			Season:  sc.SeasonLabel,
			Time:    sc.Time.BucketLabel,
			Trends:  trends,
		},
		GeneratedAt: sc.GeneratedAt,
	}, nil
}
