// internal/workers/story/collect-store-context/handler.go
package collectstorecontext

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

const TaskType = "collect-store-context"

type ContextService interface {
	GetContext(ctx context.Context, location string, menuCategories []string) (*story.Context, error)
}

// HistoryReader lists previously generated stories. Optional.
type HistoryReader interface {
	ListRecent(ctx context.Context, storeID string, limit int) ([]story.StoryRecord, error)
}

type Handler struct {
	config    *Config
	service   ContextService
	history   HistoryReader
	responder *camunda.JobResponder
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(cfg *Config, service ContextService, history HistoryReader, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    cfg,
		service:   service,
		history:   history,
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

	h.responder.Complete(client, job, output, "completed", start)
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
	sc, err := h.service.GetContext(ctx, input.Location, input.MenuCategories)
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

	h.obs.RecordContextOrigin(ctx, "weather", string(sc.Weather.Origin))
	out := &Output{Context: sc}

	if input.StoreID != "" && h.history != nil {
		out.RecentStories = h.recentStories(ctx, input.StoreID, input.RecentLimit)
	}
	return out, nil
}

// recentStories never fails the job; a history outage only drops the field.
func (h *Handler) recentStories(ctx context.Context, storeID string, limit int) []RecentStory {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	records, err := h.history.ListRecent(ctx, storeID, limit)
	if err != nil {
		h.logger.Warn("recent stories unavailable", map[string]interface{}{
			"storeId": storeID,
			"error":   err.Error(),
		})
		return nil
	}

	out := make([]RecentStory, 0, len(records))
	for _, r := range records {
		out = append(out, RecentStory{
			Variant:   r.VariantLabel,
			Story:     r.Story,
			Season:    string(r.Season),
			Period:    string(r.Period),
			Weather:   string(r.WeatherCondition),
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}
