// internal/story/service.go
package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"seasonal-story-workers/internal/common/logger"
)

// NarrativeRequest is one generateNarrative call.
type NarrativeRequest struct {
	StoreID  string       `json:"storeId,omitempty" validate:"max=64"`
	Store    StoreProfile `json:"store"`
	Location string       `json:"location" validate:"required,max=100"`
	// Trends, when set, replaces the trend lookup with keywords the caller chose.
	Trends []string `json:"selectedTrends,omitempty" validate:"max=10,dive,max=40"`
	// VariantCount of zero means the configured default.
	VariantCount int `json:"variantCount,omitempty" validate:"min=0"`
}

type Status string

const (
	StatusCompleted       Status = "completed"
	StatusPartiallyFailed Status = "partially_failed"
	StatusFailed          Status = "failed"
)

// NarrativeResult always carries one entry per requested variant.
type NarrativeResult struct {
	RequestID string
	Status    Status
	Variants  []VariantResult
	Context   *Context
}

// Succeeded returns the generated variants in order.
func (r *NarrativeResult) Succeeded() []NarrativeVariant {
	var out []NarrativeVariant
	for _, v := range r.Variants {
		if v.OK() {
			out = append(out, *v.Variant)
		}
	}
	return out
}

// Failed returns the variants that did not generate.
func (r *NarrativeResult) Failed() []VariantResult {
	var out []VariantResult
	for _, v := range r.Variants {
		if !v.OK() {
			out = append(out, v)
		}
	}
	return out
}

// StoryRecord is the persisted form of one generated variant.
type StoryRecord struct {
	ID               string
	RequestID        string
	StoreID          string
	StoreName        string
	StoreType        StoreType
	Location         string
	VariantLabel     string
	Story            string
	WeatherCondition Condition
	Temperature      float64
	Season           Season
	Period           TimeBucket
	IsWeekend        bool
	TrendKeywords    []string
	CreatedAt        time.Time
}

// HistoryRecorder persists generated narratives.
type HistoryRecorder interface {
	Record(ctx context.Context, records []StoryRecord) error
}

// NoopRecorder drops records.
type NoopRecorder struct{}

func (NoopRecorder) Record(context.Context, []StoryRecord) error { return nil }

type ServiceConfig struct {
	DefaultVariantCount int
	MaxVariantCount     int
}

// Service is the entry point for the worker operations.
type Service struct {
	aggregator *Aggregator
	composer   *Composer
	history    HistoryRecorder
	validate   *validator.Validate
	cfg        ServiceConfig
	clock      Clock
	logger     logger.Logger
}

func NewService(aggregator *Aggregator, composer *Composer, history HistoryRecorder, cfg ServiceConfig, clock Clock, log logger.Logger) *Service {
	if history == nil {
		history = NoopRecorder{}
	}
	if cfg.MaxVariantCount <= 0 {
		cfg.MaxVariantCount = 3
	}
	if cfg.DefaultVariantCount <= 0 {
		cfg.DefaultVariantCount = 1
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		aggregator: aggregator,
		composer:   composer,
		history:    history,
		validate:   validator.New(),
		cfg:        cfg,
		clock:      clock,
		logger:     log.WithFields(map[string]interface{}{"component": "story-service"}),
	}
}

// Validate checks a request without doing any IO and fills in defaults.
func (s *Service) Validate(req *NarrativeRequest) error {
	req.Store.Name = strings.TrimSpace(req.Store.Name)
	if err := s.checkStruct(req); err != nil {
		return err
	}
	if err := ValidateLocation(req.Location); err != nil {
		return err
	}
	if req.VariantCount == 0 {
		req.VariantCount = s.cfg.DefaultVariantCount
	}
	if req.VariantCount < 1 || req.VariantCount > s.cfg.MaxVariantCount {
		return invalidRequest("variantCount must be between 1 and %d, got %d", s.cfg.MaxVariantCount, req.VariantCount)
	}
	return nil
}

func (s *Service) checkStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
		}
		return invalidRequest("%s", strings.Join(msgs, "; "))
	}
	return invalidRequest("%v", err)
}

// GenerateNarrative validates, builds context and generates variants. Partial failure
// is a result, not an error. If ctx ends before generation finishes the result is
// discarded and nothing is written to history.
func (s *Service) GenerateNarrative(ctx context.Context, req NarrativeRequest) (*NarrativeResult, error) {
	if err := s.Validate(&req); err != nil {
		return nil, err
	}

	sc, err := s.aggregator.BuildWithTrends(ctx, req.Location, req.Store.MenuCategories, req.Trends)
	if err != nil {
		return nil, err
	}

	variants := s.composer.Generate(ctx, sc, req.Store, req.VariantCount)
	if err := ctx.Err(); err != nil {
		s.logger.Info("narrative request cancelled, discarding variants", map[string]interface{}{
			"storeId": req.StoreID,
		})
		return nil, err
	}

	result := &NarrativeResult{
		RequestID: uuid.New().String(),
		Variants:  variants,
		Context:   sc,
	}
	result.Status = statusOf(variants)

	if ok := result.Succeeded(); len(ok) > 0 {
		if err := s.history.Record(ctx, s.records(result, req, ok)); err != nil {
			s.logger.Warn("failed to record story history", map[string]interface{}{
				"requestId": result.RequestID,
				"error":     err.Error(),
			})
		}
	}

	s.logger.Info("narrative generated", map[string]interface{}{
		"requestId": result.RequestID,
		"storeId":   req.StoreID,
		"status":    string(result.Status),
		"requested": req.VariantCount,
		"succeeded": len(result.Succeeded()),
		"degraded":  sc.Degraded,
	})
	return result, nil
}

// WelcomeRequest asks for the greeting at the top of a store's menu board.
type WelcomeRequest struct {
	StoreID  string       `json:"storeId,omitempty" validate:"max=64"`
	Store    StoreProfile `json:"store"`
	Location string       `json:"location" validate:"required,max=100"`
}

type WelcomeResult struct {
	Message *GeneratedText
	Context *Context
}

// GenerateWelcome builds the context for the store's location and writes one greeting.
// Welcome messages are not written to history.
func (s *Service) GenerateWelcome(ctx context.Context, req WelcomeRequest) (*WelcomeResult, error) {
	req.Store.Name = strings.TrimSpace(req.Store.Name)
	if err := s.checkStruct(&req); err != nil {
		return nil, err
	}
	if err := ValidateLocation(req.Location); err != nil {
		return nil, err
	}

	sc, err := s.aggregator.Build(ctx, req.Location, NormalizeCategories(req.Store.MenuCategories))
	if err != nil {
		return nil, err
	}
	msg, err := s.composer.Welcome(ctx, sc, req.Store)
	if err != nil {
		return nil, err
	}

	s.logger.Info("welcome message generated", map[string]interface{}{
		"storeId":  req.StoreID,
		"fallback": msg.Fallback,
		"degraded": sc.Degraded,
	})
	return &WelcomeResult{Message: msg, Context: sc}, nil
}

// MenuStoryRequest asks for the story behind one menu item. StoreType is optional.
type MenuStoryRequest struct {
	MenuID    string    `json:"menuId,omitempty" validate:"max=64"`
	Menu      MenuItem  `json:"menu"`
	StoreType StoreType `json:"storeType,omitempty"`
}

// GenerateMenuStory needs no context lookup, so the only IO is the backend call.
func (s *Service) GenerateMenuStory(ctx context.Context, req MenuStoryRequest) (*GeneratedText, error) {
	req.Menu.Name = strings.TrimSpace(req.Menu.Name)
	var ingredients []string
	for _, ing := range req.Menu.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	req.Menu.Ingredients = ingredients
	req.Menu.Origin = strings.TrimSpace(req.Menu.Origin)
	req.Menu.History = strings.TrimSpace(req.Menu.History)

	if err := s.checkStruct(&req); err != nil {
		return nil, err
	}
	if req.StoreType == "" {
		req.StoreType = StoreTypeOther
	}

	out, err := s.composer.MenuStory(ctx, req.Menu, req.StoreType)
	if err != nil {
		return nil, err
	}
	s.logger.Info("menu story generated", map[string]interface{}{
		"menuId":   req.MenuID,
		"fallback": out.Fallback,
	})
	return out, nil
}

// GetContext returns the situational context alone.
func (s *Service) GetContext(ctx context.Context, location string, menuCategories []string) (*Context, error) {
	return s.aggregator.Build(ctx, location, NormalizeCategories(menuCategories))
}

func statusOf(variants []VariantResult) Status {
	ok := 0
	for _, v := range variants {
		if v.OK() {
			ok++
		}
	}
	switch {
	case ok == len(variants):
		return StatusCompleted
	case ok == 0:
		return StatusFailed
	default:
		return StatusPartiallyFailed
	}
}

func (s *Service) records(result *NarrativeResult, req NarrativeRequest, variants []NarrativeVariant) []StoryRecord {
	now := s.clock.Now().UTC()
	sc := result.Context
	out := make([]StoryRecord, 0, len(variants))
	for _, v := range variants {
		out = append(out, StoryRecord{
			ID:               uuid.New().String(),
			RequestID:        result.RequestID,
			StoreID:          req.StoreID,
			StoreName:        req.Store.Name,
			StoreType:        req.Store.Type,
			Location:         sc.Location,
			VariantLabel:     v.Label,
			Story:            v.Text,
			WeatherCondition: sc.Weather.Condition,
			Temperature:      sc.Weather.Temperature,
			Season:           sc.Season,
			Period:           sc.Time.Bucket,
			IsWeekend:        sc.Time.IsWeekend,
			TrendKeywords:    v.TrendKeywords,
			CreatedAt:        now,
		})
	}
	return out
}
