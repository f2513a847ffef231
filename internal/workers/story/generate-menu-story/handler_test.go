// internal/workers/story/generate-menu-story/handler_test.go
package generatemenustory

import (
	"context"
	stderrors "errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"seasonal-story-workers/internal/common/config"
	"seasonal-story-workers/internal/common/errors"
	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/providers/generation"
	"seasonal-story-workers/internal/story"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GenerateMenuStory(ctx context.Context, req story.MenuStoryRequest) (*story.GeneratedText, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*story.GeneratedText), args.Error(1)
}

type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }

func (failingBackend) Complete(context.Context, story.GenerationRequest) (string, error) {
	return "", stderrors.New("rate limited")
}

// ==========================
// Test Helpers
// ==========================

// Menu stories never read the context, so the aggregator has no sources wired.
func newStoryService(t *testing.T, backend story.GenerationBackend) *story.Service {
	t.Helper()
	log := logger.NewTestLogger(t)
	composer := story.NewComposer(backend, story.ComposerConfig{}, log)
	return story.NewService(nil, composer, nil, story.ServiceConfig{}, story.SystemClock{}, log)
}

func newTestHandler(t *testing.T, svc MenuStoryService) *Handler {
	t.Helper()
	return NewHandler(NewConfig(config.WorkerConfig{Enabled: true}), svc, nil, logger.NewTestLogger(t))
}

func bangshoInput() *Input {
	return &Input{
		MenuID:      "menu-7",
		MenuName:    "뱅쇼",
		Ingredients: []string{"레드와인", "오렌지", "시나몬"},
		Origin:      "프랑스",
		StoreType:   "cafe",
	}
}

// ==========================
// Tests
// ==========================

func TestParseInput(t *testing.T) {
	in, err := parseInput(`{"menuName":"뱅쇼","ingredients":["레드와인"],"origin":"프랑스"}`)
	require.NoError(t, err)
	assert.Equal(t, "뱅쇼", in.MenuName)
	assert.Equal(t, []string{"레드와인"}, in.Ingredients)

	for _, bad := range []string{
		`{}`,
		`{"menuName":""}`,
		`{"menuName":"뱅쇼","ingredients":"레드와인"}`,
	} {
		_, err := parseInput(bad)
		var stdErr *errors.StandardError
		require.True(t, stderrors.As(err, &stdErr), bad)
		assert.Equal(t, errors.ErrCodeInvalidRequest, stdErr.Code, bad)
	}
}

func TestHandler_Execute_TemplateBackend(t *testing.T) {
	h := newTestHandler(t, newStoryService(t, generation.NewTemplateBackend()))

	out, err := h.Execute(context.Background(), bangshoInput())
	require.NoError(t, err)

	assert.Equal(t, "menu-7", out.MenuID)
	assert.Equal(t, "뱅쇼", out.MenuName)
	assert.False(t, out.Fallback)
	assert.Equal(t, "프랑스에서 건너온 뱅쇼. 엄선한 레드와인와 오렌지가 어우러져 특별한 맛을 냅니다.", out.Story)
	assert.LessOrEqual(t, utf8.RuneCountInString(out.Story), story.MenuStoryMaxLength)
}

func TestHandler_Execute_BackendFailureFallsBack(t *testing.T) {
	h := newTestHandler(t, newStoryService(t, failingBackend{}))

	out, err := h.Execute(context.Background(), bangshoInput())
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.Equal(t, "뱅쇼은(는) 레드와인, 오렌지, 시나몬로 만들어진 특별한 메뉴입니다.", out.Story)
}

func TestHandler_Execute_BlankMenuName(t *testing.T) {
	h := newTestHandler(t, newStoryService(t, generation.NewTemplateBackend()))
	in := bangshoInput()
	in.MenuName = "  "

	_, err := h.Execute(context.Background(), in)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInvalidRequest, stdErr.Code)
}

func TestHandler_Execute_CancelledRequest(t *testing.T) {
	svc := new(MockService)
	svc.On("GenerateMenuStory", mock.Anything, mock.MatchedBy(func(req story.MenuStoryRequest) bool {
		return req.Menu.Name == "뱅쇼" && req.StoreType == story.StoreTypeCafe
	})).Return(nil, context.Canceled)

	_, err := newTestHandler(t, svc).Execute(context.Background(), bangshoInput())

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeRequestCancelled, stdErr.Code)
	svc.AssertExpectations(t)
}
