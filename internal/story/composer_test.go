// internal/story/composer_test.go
package story

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasonal-story-workers/internal/common/logger"
)

func autumnEveningContext() *Context {
	return &Context{
		Location:    "Seoul",
		Weather:     SyntheticWeather(SeasonAutumn, BucketEvening),
		Season:      SeasonAutumn,
		SeasonLabel: SeasonAutumn.Label(),
		Time:        ResolveTimeInfo(saturdayEvening),
		Trends:      sampleKeywords("맥주", "주말", "호떡", "바닐라라떼", "딸기 케이크"),
		GeneratedAt: saturdayEvening,
	}
}

func cafeProfile() StoreProfile {
	return StoreProfile{Name: "Maple Cafe", Type: StoreTypeCafe, MenuCategories: []string{"coffee", "dessert"}}
}

func newTestComposer(t *testing.T, backend GenerationBackend) *Composer {
	t.Helper()
	return NewComposer(backend, ComposerConfig{MaxLength: 60}, logger.NewTestLogger(t))
}

// ==========================================
// Trend selection
// ==========================================

func TestSelectTrendKeywords(t *testing.T) {
	trends := sampleKeywords("맥주", "주말", "호떡", "바닐라라떼", "딸기 케이크")

	t.Run("menu overlap first, excluded categories dropped", func(t *testing.T) {
		got := SelectTrendKeywords(trends, []string{"커피", "dessert"}, ToneFor(StoreTypeCafe), 2)
		assert.Equal(t, []string{"바닐라라떼", "딸기 케이크"}, got)
	})

	t.Run("bar keeps alcohol", func(t *testing.T) {
		got := SelectTrendKeywords(trends, []string{"alcohol"}, ToneFor(StoreTypeBar), 2)
		assert.Equal(t, []string{"맥주", "주말"}, got)
	})

	t.Run("no overlap keeps order", func(t *testing.T) {
		got := SelectTrendKeywords(trends, nil, ToneFor(StoreTypeRestaurant), 2)
		assert.Equal(t, []string{"맥주", "주말"}, got)
	})

	t.Run("only excluded keywords are kept rather than dropped", func(t *testing.T) {
		got := SelectTrendKeywords(sampleKeywords("맥주", "소주"), nil, ToneFor(StoreTypeCafe), 2)
		assert.Equal(t, []string{"맥주", "소주"}, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, SelectTrendKeywords(nil, nil, ToneFor(StoreTypeCafe), 2))
	})
}

// ==========================================
// Length policy
// ==========================================

func TestFitLength(t *testing.T) {
	t.Run("short text passes through cleaned", func(t *testing.T) {
		got, truncated, err := FitLength("  \"가을 저녁,\n따뜻한 라떼 한 잔 어떠세요?\"  ", 60)
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t, "가을 저녁, 따뜻한 라떼 한 잔 어떠세요?", got)
	})

	t.Run("long text is cut by runes", func(t *testing.T) {
		long := strings.Repeat("가을", 40)
		got, truncated, err := FitLength(long, 60)
		require.NoError(t, err)
		assert.True(t, truncated)
		assert.Equal(t, 60, utf8.RuneCountInString(got))
	})

	t.Run("dangling separators are trimmed", func(t *testing.T) {
		got, truncated, err := FitLength("abcde, fghij", 6)
		require.NoError(t, err)
		assert.True(t, truncated)
		assert.Equal(t, "abcde", got)
	})

	t.Run("label prefix is stripped", func(t *testing.T) {
		got, _, err := FitLength("문구: 「따뜻한 주말」", 60)
		require.NoError(t, err)
		assert.Equal(t, "따뜻한 주말", got)
	})

	t.Run("empty completion fails", func(t *testing.T) {
		_, _, err := FitLength(" \"\" ", 60)
		assert.True(t, errors.Is(err, ErrGenerationFailed))
	})
}

// ==========================================
// Generate
// ==========================================

func TestComposer_Generate_LabelsAndTemperatures(t *testing.T) {
	backend := &scriptedBackend{}
	composer := newTestComposer(t, backend)

	results := composer.Generate(context.Background(), autumnEveningContext(), cafeProfile(), 3)

	require.Len(t, results, 3)
	wantTemps := []float64{0.7, 0.85, 1.0}
	for i, r := range results {
		require.True(t, r.OK(), "variant %d: %v", i+1, r.Err)
		assert.Equal(t, i+1, r.Index)
		assert.Equal(t, VariantLabel(i+1), r.Variant.Label)
		assert.InDelta(t, wantTemps[i], r.Variant.Temperature, 1e-9)
		assert.LessOrEqual(t, utf8.RuneCountInString(r.Variant.Text), 60)
		assert.LessOrEqual(t, len(r.Variant.TrendKeywords), 2)
	}
	assert.Equal(t, "Version 1", results[0].Label)

	reqs := backend.Requests()
	require.Len(t, reqs, 3)
	for _, req := range reqs {
		assert.Equal(t, systemPrompt, req.System)
		assert.Contains(t, req.Prompt, "최대 60자")
		assert.Contains(t, req.Prompt, "카페")
		assert.Equal(t, "cafe", req.Hints.ToneKey)
	}
}

func TestComposer_Generate_TemperatureClamped(t *testing.T) {
	composer := NewComposer(&scriptedBackend{}, ComposerConfig{TemperatureBase: 0.9, TemperatureStep: 0.2}, logger.NewNoOpLogger())
	assert.InDelta(t, 0.9, composer.VariantTemperature(1), 1e-9)
	assert.InDelta(t, 1.0, composer.VariantTemperature(2), 1e-9)
	assert.InDelta(t, 1.0, composer.VariantTemperature(3), 1e-9)
}

func TestComposer_Generate_PartialFailure(t *testing.T) {
	backend := &scriptedBackend{respond: func(req GenerationRequest) (string, error) {
		if req.Hints.Variant == 2 {
			return "", errors.New("upstream 500")
		}
		return "주말 저녁엔 따뜻한 바닐라라떼 한 잔 어떠세요?", nil
	}}
	composer := newTestComposer(t, backend)

	results := composer.Generate(context.Background(), autumnEveningContext(), cafeProfile(), 3)

	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.True(t, errors.Is(results[1].Err, ErrGenerationFailed))
	assert.Equal(t, "Version 2", results[1].Label)
	assert.True(t, results[2].OK())
}

func TestComposer_Generate_TruncatesLongOutput(t *testing.T) {
	backend := &scriptedBackend{respond: func(GenerationRequest) (string, error) {
		return strings.Repeat("쌀쌀한 가을 저녁 ", 20), nil
	}}
	composer := newTestComposer(t, backend)

	results := composer.Generate(context.Background(), autumnEveningContext(), cafeProfile(), 1)

	require.True(t, results[0].OK())
	assert.True(t, results[0].Variant.Truncated)
	assert.LessOrEqual(t, utf8.RuneCountInString(results[0].Variant.Text), 60)
	assert.False(t, strings.HasSuffix(results[0].Variant.Text, " "))
}

func TestComposer_Generate_TimeoutIsGenerationFailure(t *testing.T) {
	backend := &scriptedBackend{respond: func(GenerationRequest) (string, error) {
		return "", context.DeadlineExceeded
	}}
	composer := NewComposer(backend, ComposerConfig{Timeout: time.Second}, logger.NewTestLogger(t))

	results := composer.Generate(context.Background(), autumnEveningContext(), cafeProfile(), 1)

	require.False(t, results[0].OK())
	assert.True(t, errors.Is(results[0].Err, ErrGenerationTimeout))
	assert.True(t, errors.Is(results[0].Err, ErrGenerationFailed))
}

func TestComposer_Generate_EmptyOutputFails(t *testing.T) {
	backend := &scriptedBackend{respond: func(GenerationRequest) (string, error) { return "   ", nil }}
	composer := newTestComposer(t, backend)

	results := composer.Generate(context.Background(), autumnEveningContext(), cafeProfile(), 1)

	assert.True(t, errors.Is(results[0].Err, ErrGenerationFailed))
}

// ==========================================
// Prompt
// ==========================================

func TestBuildPrompt(t *testing.T) {
	sc := autumnEveningContext()
	profile := StoreProfile{Name: "Sweet Spot", Type: StoreTypeDessert, MenuCategories: []string{"케이크"}, FeaturedMenu: "밤 타르트"}

	prompt := BuildPrompt(sc, profile, ToneFor(StoreTypeDessert), []string{"딸기 케이크"}, 60, 2)

	assert.Contains(t, prompt, "매장 이름: Sweet Spot")
	assert.Contains(t, prompt, "추천 메뉴: 밤 타르트")
	assert.Contains(t, prompt, "계절: 가을")
	assert.Contains(t, prompt, "시간대: 저녁 (18:30, 토요일)")
	assert.Contains(t, prompt, "인기 트렌드: 딸기 케이크")
	assert.Contains(t, prompt, "버전 2")
	assert.Contains(t, prompt, "이모지는 사용하지 말 것")

	noTrends := BuildPrompt(sc, profile, ToneFor(StoreTypeDessert), nil, 60, 1)
	assert.NotContains(t, noTrends, "인기 트렌드")
	assert.NotContains(t, noTrends, "버전 1")
}

func TestParseStoreType(t *testing.T) {
	assert.Equal(t, StoreTypeCafe, ParseStoreType("CAFE"))
	assert.Equal(t, StoreTypeCafe, ParseStoreType("카페"))
	assert.Equal(t, StoreTypeBar, ParseStoreType(" bar "))
	assert.Equal(t, StoreTypeOther, ParseStoreType("bookstore"))
	assert.Equal(t, StoreType(""), ParseStoreType("  "))
	assert.Equal(t, "default", ToneFor(ParseStoreType("bookstore")).Key)
	assert.Equal(t, "default", ToneFor(StoreType("")).Key)
}
