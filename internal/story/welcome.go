// internal/story/welcome.go
package story

import (
	"context"
	"fmt"
	"strings"
)

const (
	welcomeSystemPrompt = "당신은 매장 메뉴판 상단에 걸릴 환영 인사를 쓰는 카피라이터입니다. " +
		"지금 이 순간의 분위기를 담아 짧고 따뜻하게 손님을 맞이합니다."
	welcomeTemperature = 0.8
)

// GeneratedText is a single text produced outside the variant flow.
type GeneratedText struct {
	Text          string   `json:"text"`
	Temperature   float64  `json:"temperature"`
	TrendKeywords []string `json:"trendKeywords,omitempty"`
	Truncated     bool     `json:"truncated,omitempty"`
	// Fallback is set when the backend failed and a fixed sentence was used.
	Fallback bool `json:"fallback,omitempty"`
}

// Welcome writes the greeting shown at the top of a store's menu board. A backend
// failure falls back to a fixed greeting; only a cancelled ctx is an error.
func (c *Composer) Welcome(ctx context.Context, sc *Context, profile StoreProfile) (*GeneratedText, error) {
	tone := ToneFor(profile.Type)
	keywords := SelectTrendKeywords(sc.Trends, profile.MenuCategories, tone, maxTrendKeywords)

	req := GenerationRequest{
		System:      welcomeSystemPrompt,
		Prompt:      BuildWelcomePrompt(sc, profile, tone, keywords, c.cfg.MaxLength),
		Temperature: welcomeTemperature,
		MaxTokens:   c.cfg.MaxTokens,
		Hints: PromptHints{
			Kind:         KindWelcome,
			StoreName:    profile.Name,
			StoreType:    profile.Type,
			ToneKey:      tone.Key,
			FeaturedMenu: profile.FeaturedMenu,
			Menu:         profile.MenuCategories,
			Season:       sc.Season.Label(),
			Period:       sc.Time.BucketLabel,
			Weather:      sc.Weather.Description,
			Temperature:  sc.Weather.Temperature,
			Keywords:     keywords,
		},
	}

	out := &GeneratedText{Temperature: welcomeTemperature, TrendKeywords: keywords}
	err := c.fill(ctx, out, req, c.cfg.MaxLength, profile.Type)
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	c.logger.Warn("welcome generation failed, using fixed greeting", map[string]interface{}{
		"store": profile.Name,
		"error": err.Error(),
	})
	out.Text, out.Truncated, _ = FitLength(WelcomeFallback(sc, profile), c.cfg.MaxLength)
	out.TrendKeywords = nil
	out.Fallback = true
	c.recordOutcome(profile.Type, "fallback")
	return out, nil
}

// fill runs req and stores the fitted text in out.
func (c *Composer) fill(ctx context.Context, out *GeneratedText, req GenerationRequest, maxLength int, t StoreType) error {
	raw, err := c.call(ctx, req)
	if err != nil {
		return err
	}
	text, truncated, err := FitLength(raw, maxLength)
	if err != nil {
		return err
	}
	out.Text = text
	out.Truncated = truncated
	c.recordOutcome(t, "generated")
	return nil
}

// WelcomeFallback is the greeting used when no backend text is available.
func WelcomeFallback(sc *Context, profile StoreProfile) string {
	name := profile.Name
	if name == "" {
		name = profile.Type.Label()
	}
	return fmt.Sprintf("%s %s, %s에 오신 것을 환영합니다.", sc.Season.Label(), sc.Time.BucketLabel, name)
}

// BuildWelcomePrompt renders the user prompt for a menu board greeting.
func BuildWelcomePrompt(sc *Context, profile StoreProfile, tone Tone, keywords []string, maxLength int) string {
	storeName := profile.Name
	if storeName == "" {
		storeName = profile.Type.Label()
	}

	parts := []string{
		"메뉴판 맨 위에 보여줄 환영 인사를 한 문장으로 작성해주세요.",
		"\n**매장 정보:**",
		fmt.Sprintf("- 매장 이름: %s", storeName),
		fmt.Sprintf("- 매장 타입: %s", profile.Type.Label()),
		"\n**현재 상황:**",
		fmt.Sprintf("- 날씨: %s, 온도 %.0f도", sc.Weather.Description, sc.Weather.Temperature),
		fmt.Sprintf("- 계절: %s", sc.Season.Label()),
		fmt.Sprintf("- 시간대: %s (%s, %s)", sc.Time.BucketLabel, sc.Time.Clock, sc.Time.WeekdayLabel),
	}
	if len(keywords) > 0 {
		parts = append(parts, fmt.Sprintf("- 인기 트렌드: %s (어울릴 때만 언급)", strings.Join(keywords, ", ")))
	}

	parts = append(parts,
		"\n**작성 가이드:**",
		fmt.Sprintf("1. %s 톤으로 손님을 맞이할 것", tone.Voice),
		"2. 날씨와 시간대를 자연스럽게 녹여낼 것",
		"3. 특정 메뉴를 강요하지 말 것",
		fmt.Sprintf("4. 한 문장, 최대 %d자", maxLength),
		"5. 이모지는 사용하지 말 것",
		"\n문구:",
	)
	return strings.Join(parts, "\n")
}
