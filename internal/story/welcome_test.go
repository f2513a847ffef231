// internal/story/welcome_test.go
package story

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bangshoItem() MenuItem {
	return MenuItem{
		Name:        "뱅쇼",
		Ingredients: []string{"레드와인", "오렌지", "시나몬", "정향"},
		Origin:      "프랑스",
	}
}

// ==========================================
// Welcome message
// ==========================================

func TestComposer_Welcome(t *testing.T) {
	backend := &scriptedBackend{respond: func(GenerationRequest) (string, error) {
		return "문구: \"가을 저녁, Maple Cafe에 오신 것을 환영해요\"", nil
	}}
	c := newTestComposer(t, backend)

	msg, err := c.Welcome(context.Background(), autumnEveningContext(), cafeProfile())
	require.NoError(t, err)

	assert.Equal(t, "가을 저녁, Maple Cafe에 오신 것을 환영해요", msg.Text)
	assert.False(t, msg.Fallback)
	assert.LessOrEqual(t, len(msg.TrendKeywords), 2)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, KindWelcome, reqs[0].Hints.Kind)
	assert.Equal(t, welcomeSystemPrompt, reqs[0].System)
	assert.Contains(t, reqs[0].Prompt, "Maple Cafe")
	assert.Contains(t, reqs[0].Prompt, "최대 60자")
}

func TestComposer_Welcome_FallsBackOnBackendError(t *testing.T) {
	backend := &scriptedBackend{respond: func(GenerationRequest) (string, error) {
		return "", errors.New("upstream 503")
	}}
	c := newTestComposer(t, backend)

	msg, err := c.Welcome(context.Background(), autumnEveningContext(), cafeProfile())
	require.NoError(t, err)

	assert.True(t, msg.Fallback)
	assert.Equal(t, "가을 저녁, Maple Cafe에 오신 것을 환영합니다.", msg.Text)
	assert.Empty(t, msg.TrendKeywords)
}

func TestComposer_Welcome_CancelledIsError(t *testing.T) {
	c := newTestComposer(t, &scriptedBackend{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg, err := c.Welcome(ctx, autumnEveningContext(), cafeProfile())
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, context.Canceled)
}

// ==========================================
// Menu story
// ==========================================

func TestComposer_MenuStory(t *testing.T) {
	long := strings.Repeat("따뜻한 향신료의 이야기 ", 20)
	backend := &scriptedBackend{respond: func(GenerationRequest) (string, error) {
		return "스토리: " + long, nil
	}}
	c := newTestComposer(t, backend)

	out, err := c.MenuStory(context.Background(), bangshoItem(), StoreTypeCafe)
	require.NoError(t, err)

	assert.False(t, out.Fallback)
	assert.True(t, out.Truncated)
	assert.LessOrEqual(t, utf8.RuneCountInString(out.Text), MenuStoryMaxLength)
	assert.Equal(t, 0.9, out.Temperature)

	req := backend.Requests()[0]
	assert.Equal(t, KindMenuStory, req.Hints.Kind)
	assert.Equal(t, "뱅쇼", req.Hints.FeaturedMenu)
	assert.Equal(t, 200, req.MaxTokens)
	assert.Contains(t, req.Prompt, "- 원산지: 프랑스")
	assert.NotContains(t, req.Prompt, "- 역사:")
}

func TestComposer_MenuStory_FallsBackOnBackendError(t *testing.T) {
	backend := &scriptedBackend{respond: func(GenerationRequest) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	c := newTestComposer(t, backend)

	out, err := c.MenuStory(context.Background(), bangshoItem(), StoreTypeCafe)
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.Equal(t, "뱅쇼은(는) 레드와인, 오렌지, 시나몬로 만들어진 특별한 메뉴입니다.", out.Text)
}

func TestMenuStoryFallback_NoIngredients(t *testing.T) {
	assert.Equal(t, "식혜은(는) 신선한 재료로 만들어진 특별한 메뉴입니다.", MenuStoryFallback(MenuItem{Name: "식혜"}))
}

// ==========================================
// Service operations
// ==========================================

func TestGenerateWelcome(t *testing.T) {
	f := newServiceFixture(t, nil, nil)

	result, err := f.service.GenerateWelcome(context.Background(), WelcomeRequest{
		StoreID:  "store-42",
		Store:    StoreProfile{Name: "  Maple Cafe ", Type: StoreTypeCafe},
		Location: "Seoul",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Context)
	assert.Equal(t, SeasonAutumn, result.Context.Season)
	assert.NotEmpty(t, result.Message.Text)
	assert.Equal(t, "Maple Cafe", f.backend.Requests()[0].Hints.StoreName)
	assert.Empty(t, f.history.records)
}

func TestGenerateWelcome_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  WelcomeRequest
	}{
		{"blank store name", WelcomeRequest{Store: StoreProfile{Name: "  ", Type: StoreTypeCafe}, Location: "Seoul"}},
		{"missing store type", WelcomeRequest{Store: StoreProfile{Name: "Maple Cafe"}, Location: "Seoul"}},
		{"numeric location", WelcomeRequest{Store: StoreProfile{Name: "Maple Cafe", Type: StoreTypeCafe}, Location: "1234"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weather := &stubWeatherProvider{}
			f := newServiceFixture(t, weather, &stubTrendProvider{})

			_, err := f.service.GenerateWelcome(context.Background(), tt.req)

			assert.True(t, errors.Is(err, ErrInvalidRequest))
			assert.Equal(t, int32(0), weather.calls)
			assert.Empty(t, f.backend.Requests())
		})
	}
}

func TestGenerateMenuStory(t *testing.T) {
	f := newServiceFixture(t, nil, nil)
	f.backend.respond = func(GenerationRequest) (string, error) {
		return "프랑스의 겨울 밤을 데우던 뱅쇼입니다.", nil
	}

	out, err := f.service.GenerateMenuStory(context.Background(), MenuStoryRequest{
		MenuID: "menu-7",
		Menu:   MenuItem{Name: " 뱅쇼 ", Ingredients: []string{"레드와인", " ", "오렌지"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "프랑스의 겨울 밤을 데우던 뱅쇼입니다.", out.Text)

	req := f.backend.Requests()[0]
	assert.Equal(t, "뱅쇼", req.Hints.FeaturedMenu)
	assert.Equal(t, []string{"레드와인", "오렌지"}, req.Hints.Ingredients)
	assert.Equal(t, StoreTypeOther, req.Hints.StoreType)
}

func TestGenerateMenuStory_InvalidRequests(t *testing.T) {
	f := newServiceFixture(t, nil, nil)

	for name, req := range map[string]MenuStoryRequest{
		"blank name":      {Menu: MenuItem{Name: "   "}},
		"long name":       {Menu: MenuItem{Name: strings.Repeat("가", 61)}},
		"long history":    {Menu: MenuItem{Name: "뱅쇼", History: strings.Repeat("a", 501)}},
		"long ingredient": {Menu: MenuItem{Name: "뱅쇼", Ingredients: []string{strings.Repeat("b", 41)}}},
	} {
		_, err := f.service.GenerateMenuStory(context.Background(), req)
		assert.True(t, errors.Is(err, ErrInvalidRequest), name)
	}
	assert.Empty(t, f.backend.Requests())
}
