// internal/story/prompt.go
package story

import (
	"context"
	"fmt"
	"strings"
)

const systemPrompt = "당신은 창의적인 카페/레스토랑 마케팅 전문가입니다. " +
	"고객의 마음을 사로잡는 감성적이고 자연스러운 추천 문구를 작성합니다."

// StoreProfile describes the store a narrative is written for.
type StoreProfile struct {
	Name           string    `json:"name" validate:"required,max=100"`
	Type           StoreType `json:"type" validate:"required"`
	MenuCategories []string  `json:"menuCategories,omitempty" validate:"max=20,dive,max=40"`
	FeaturedMenu   string    `json:"featuredMenu,omitempty" validate:"max=60"`
}

// TextKind says which kind of text a request asks for.
type TextKind string

const (
	KindNarrative TextKind = ""
	KindWelcome   TextKind = "welcome"
	KindMenuStory TextKind = "menu-story"
)

// PromptHints is the structured form of a prompt, for backends that do not read text.
// For KindMenuStory, FeaturedMenu carries the menu name.
type PromptHints struct {
	Kind         TextKind
	StoreName    string
	StoreType    StoreType
	ToneKey      string
	FeaturedMenu string
	Menu         []string
	Season       string
	Period       string
	Weather      string
	Temperature  float64
	Keywords     []string
	Variant      int
	Ingredients  []string
	Origin       string
	History      string
}

// GenerationRequest is one call to a generation backend.
type GenerationRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	Hints       PromptHints
}

// GenerationBackend turns a prompt into text. Implementations must honor ctx.
type GenerationBackend interface {
	Name() string
	Complete(ctx context.Context, req GenerationRequest) (string, error)
}

// BuildPrompt renders the user prompt for one variant.
func BuildPrompt(sc *Context, profile StoreProfile, tone Tone, keywords []string, maxLength, variant int) string {
	storeName := profile.Name
	if storeName == "" {
		storeName = profile.Type.Label()
	}
	menu := "음료"
	if len(profile.MenuCategories) > 0 {
		menu = strings.Join(profile.MenuCategories, ", ")
	}

	var parts []string
	parts = append(parts, "다음 정보를 바탕으로 고객의 마음을 사로잡는 감성적인 추천 문구를 1-2문장으로 작성해주세요.")

	parts = append(parts, "\n**매장 정보:**")
	parts = append(parts, fmt.Sprintf("- 매장 이름: %s", storeName))
	parts = append(parts, fmt.Sprintf("- 매장 타입: %s", profile.Type.Label()))
	parts = append(parts, fmt.Sprintf("- 주요 메뉴: %s", menu))
	if profile.FeaturedMenu != "" {
		parts = append(parts, fmt.Sprintf("- 추천 메뉴: %s", profile.FeaturedMenu))
	}

	parts = append(parts, "\n**현재 상황:**")
	parts = append(parts, fmt.Sprintf("- 날씨: %s, 온도 %.0f도", sc.Weather.Description, sc.Weather.Temperature))
	parts = append(parts, fmt.Sprintf("- 계절: %s", sc.Season.Label()))
	parts = append(parts, fmt.Sprintf("- 시간대: %s (%s, %s)", sc.Time.BucketLabel, sc.Time.Clock, sc.Time.WeekdayLabel))
	if len(keywords) > 0 {
		parts = append(parts, fmt.Sprintf("- 인기 트렌드: %s (어울릴 때만 자연스럽게 녹이고 억지로 넣지 말 것)", strings.Join(keywords, ", ")))
	}

	parts = append(parts, "\n**작성 가이드:**")
	guide := []string{
		fmt.Sprintf("반드시 매장 타입(%s)에 맞는 메뉴를 추천할 것", profile.Type.Label()),
		fmt.Sprintf("%s 톤으로 작성", tone.Voice),
	}
	guide = append(guide, tone.Guide...)
	guide = append(guide,
		"현재 날씨, 계절, 시간대를 자연스럽게 녹여내기",
		fmt.Sprintf("1-2문장으로 간결하게 (최대 %d자)", maxLength),
		"이모지는 사용하지 말 것",
	)
	if variant > 1 {
		guide = append(guide, fmt.Sprintf("앞선 버전과 다른 표현과 관점으로 작성할 것 (버전 %d)", variant))
	}
	for i, g := range guide {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, g))
	}

	if len(tone.Examples) > 0 {
		parts = append(parts, fmt.Sprintf("\n%s에 적합한 예시:", profile.Type.Label()))
		for _, ex := range tone.Examples {
			parts = append(parts, fmt.Sprintf("- \"%s\"", ex))
		}
	}

	parts = append(parts, "\n문구:")
	return strings.Join(parts, "\n")
}
