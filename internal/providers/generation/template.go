// internal/providers/generation/template.go
package generation

import (
	"context"
	"fmt"
	"strings"

	"seasonal-story-workers/internal/story"
)

var menuPhrases = map[story.StoreType]string{
	story.StoreTypeCafe:       "따뜻한 음료 한 잔",
	story.StoreTypeRestaurant: "든든한 한 끼",
	story.StoreTypeDessert:    "달콤한 디저트",
	story.StoreTypeBar:        "시원한 한 잔",
}

// TemplateBackend writes narratives from fixed templates. It needs no network and
// is deterministic in its hints, so it serves offline runs and tests.
type TemplateBackend struct{}

func NewTemplateBackend() *TemplateBackend { return &TemplateBackend{} }

func (TemplateBackend) Name() string { return ProviderTemplate }

func (TemplateBackend) Complete(ctx context.Context, req story.GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h := req.Hints
	switch h.Kind {
	case story.KindMenuStory:
		return menuStory(h), nil
	case story.KindWelcome:
		return welcome(h), nil
	}

	menu := strings.TrimSpace(h.FeaturedMenu)
	if menu == "" {
		menu = menuPhrases[h.StoreType]
	}
	if menu == "" {
		menu = "맛있는 메뉴"
	}
	place := strings.TrimSpace(h.StoreName)
	if place == "" {
		place = h.StoreType.Label()
	}
	weather := h.Weather
	if weather == "" {
		weather = "맑음"
	}

	templates := []string{
		fmt.Sprintf("%s %s %s, %s 어떠세요?", weather, h.Season, h.Period, menu),
		fmt.Sprintf("%.0f도의 %s 날씨, %s에서 여유를 즐겨보세요.", h.Temperature, h.Season, place),
		fmt.Sprintf("%s의 특별한 순간, %s 어떠세요?", h.Period, menu),
	}
	if len(h.Keywords) > 0 {
		templates[2] = fmt.Sprintf("요즘 뜨는 %s, %s %s엔 %s 어떠세요?", h.Keywords[0], h.Season, h.Period, menu)
	}

	idx := 0
	if h.Variant > 0 {
		idx = (h.Variant - 1) % len(templates)
	}
	return templates[idx], nil
}

func welcome(h story.PromptHints) string {
	place := strings.TrimSpace(h.StoreName)
	if place == "" {
		place = h.StoreType.Label()
	}
	if len(h.Keywords) > 0 {
		return fmt.Sprintf("%s %s, %s 소식과 함께 %s에 오신 것을 환영해요.", h.Season, h.Period, h.Keywords[0], place)
	}
	weather := h.Weather
	if weather == "" {
		weather = "맑음"
	}
	return fmt.Sprintf("%s인 %s %s, %s에 오신 것을 환영해요.", weather, h.Season, h.Period, place)
}

func menuStory(h story.PromptHints) string {
	name := strings.TrimSpace(h.FeaturedMenu)
	var b strings.Builder
	if h.Origin != "" {
		fmt.Fprintf(&b, "%s에서 건너온 %s.", h.Origin, name)
	} else {
		fmt.Fprintf(&b, "오래도록 사랑받아 온 %s.", name)
	}
	if len(h.Ingredients) > 0 {
		n := min(2, len(h.Ingredients))
		fmt.Fprintf(&b, " 엄선한 %s가 어우러져 특별한 맛을 냅니다.", strings.Join(h.Ingredients[:n], "와 "))
	} else {
		b.WriteString(" 한 입에 그 이야기를 담았습니다.")
	}
	return b.String()
}
