// internal/story/menustory.go
package story

import (
	"context"
	"fmt"
	"strings"
)

const (
	menuStorySystemPrompt = "당신은 음식 역사와 스토리텔링 전문가입니다."
	MenuStoryMaxLength    = 100
	menuStoryTemperature  = 0.9
	menuStoryMaxTokens    = 200
)

// MenuItem is the menu a story is told about.
type MenuItem struct {
	Name        string   `json:"name" validate:"required,max=60"`
	Ingredients []string `json:"ingredients,omitempty" validate:"max=20,dive,max=40"`
	Origin      string   `json:"origin,omitempty" validate:"max=100"`
	History     string   `json:"history,omitempty" validate:"max=500"`
}

// MenuStory writes the short story shown when a customer opens a menu item. Like
// Welcome it falls back to a fixed sentence when the backend fails.
func (c *Composer) MenuStory(ctx context.Context, item MenuItem, storeType StoreType) (*GeneratedText, error) {
	req := GenerationRequest{
		System:      menuStorySystemPrompt,
		Prompt:      BuildMenuStoryPrompt(item, MenuStoryMaxLength),
		Temperature: menuStoryTemperature,
		MaxTokens:   menuStoryMaxTokens,
		Hints: PromptHints{
			Kind:         KindMenuStory,
			StoreType:    storeType,
			FeaturedMenu: item.Name,
			Ingredients:  item.Ingredients,
			Origin:       item.Origin,
			History:      item.History,
		},
	}

	out := &GeneratedText{Temperature: menuStoryTemperature}
	err := c.fill(ctx, out, req, MenuStoryMaxLength, storeType)
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	c.logger.Warn("menu story generation failed, using fixed description", map[string]interface{}{
		"menu":  item.Name,
		"error": err.Error(),
	})
	out.Text, out.Truncated, _ = FitLength(MenuStoryFallback(item), MenuStoryMaxLength)
	out.Fallback = true
	c.recordOutcome(storeType, "fallback")
	return out, nil
}

// MenuStoryFallback names up to three ingredients, or none when the list is empty.
func MenuStoryFallback(item MenuItem) string {
	if len(item.Ingredients) == 0 {
		return fmt.Sprintf("%s은(는) 신선한 재료로 만들어진 특별한 메뉴입니다.", item.Name)
	}
	n := min(3, len(item.Ingredients))
	return fmt.Sprintf("%s은(는) %s로 만들어진 특별한 메뉴입니다.", item.Name, strings.Join(item.Ingredients[:n], ", "))
}

func BuildMenuStoryPrompt(item MenuItem, maxLength int) string {
	parts := []string{
		"다음 메뉴에 대한 감성적인 스토리를 2-3문장으로 작성해주세요.",
		"\n**메뉴 정보:**",
		fmt.Sprintf("- 이름: %s", item.Name),
	}
	if len(item.Ingredients) > 0 {
		parts = append(parts, fmt.Sprintf("- 주요 재료: %s", strings.Join(item.Ingredients, ", ")))
	}
	if item.Origin != "" {
		parts = append(parts, fmt.Sprintf("- 원산지: %s", item.Origin))
	}
	if item.History != "" {
		parts = append(parts, fmt.Sprintf("- 역사: %s", item.History))
	}

	parts = append(parts,
		"\n**작성 가이드:**",
		"1. 메뉴의 역사나 유래를 창의적으로 스토리텔링",
		"2. 재료의 특징과 원산지를 자연스럽게 언급",
		"3. 고객이 \"이야기를 소비\"하도록 감성적으로 작성",
		fmt.Sprintf("4. 2-3문장, 최대 %d자", maxLength),
		"\n스토리:",
	)
	return strings.Join(parts, "\n")
}
