// internal/story/composer.go
package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/common/metrics"
)

const maxTrendKeywords = 2

type ComposerConfig struct {
	MaxLength       int
	TemperatureBase float64
	TemperatureStep float64
	MaxTemperature  float64
	MaxTokens       int
	// Timeout bounds one backend call. Zero leaves it to ctx.
	Timeout time.Duration
}

// NarrativeVariant is one successfully generated text.
type NarrativeVariant struct {
	Index         int      `json:"index"`
	Label         string   `json:"variant"`
	Text          string   `json:"story"`
	Temperature   float64  `json:"temperature"`
	TrendKeywords []string `json:"trendKeywords"`
	Truncated     bool     `json:"truncated,omitempty"`
}

// VariantResult holds either a variant or the reason it failed.
type VariantResult struct {
	Index   int
	Label   string
	Variant *NarrativeVariant
	Err     error
}

func (r VariantResult) OK() bool { return r.Err == nil && r.Variant != nil }

// Composer turns a Context into narrative variants through a GenerationBackend.
type Composer struct {
	backend GenerationBackend
	cfg     ComposerConfig
	logger  logger.Logger
}

func NewComposer(backend GenerationBackend, cfg ComposerConfig, log logger.Logger) *Composer {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 60
	}
	if cfg.TemperatureBase <= 0 {
		cfg.TemperatureBase = 0.7
	}
	if cfg.TemperatureStep <= 0 {
		cfg.TemperatureStep = 0.15
	}
	if cfg.MaxTemperature <= 0 {
		cfg.MaxTemperature = 1.0
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 150
	}
	return &Composer{
		backend: backend,
		cfg:     cfg,
		logger:  log.WithFields(map[string]interface{}{"component": "composer", "backend": backend.Name()}),
	}
}

func (c *Composer) MaxLength() int { return c.cfg.MaxLength }

// VariantLabel names the i-th variant, starting at 1.
func VariantLabel(i int) string {
	return fmt.Sprintf("Version %d", i)
}

// VariantTemperature grows with the variant index so later versions read differently.
func (c *Composer) VariantTemperature(i int) float64 {
	t := c.cfg.TemperatureBase + float64(i-1)*c.cfg.TemperatureStep
	if t > c.cfg.MaxTemperature {
		t = c.cfg.MaxTemperature
	}
	return t
}

// Generate produces count variants concurrently. Results are ordered by index and a
// failed variant never affects the others.
func (c *Composer) Generate(ctx context.Context, sc *Context, profile StoreProfile, count int) []VariantResult {
	if count < 1 {
		count = 1
	}
	tone := ToneFor(profile.Type)
	keywords := SelectTrendKeywords(sc.Trends, profile.MenuCategories, tone, maxTrendKeywords)

	results := make([]VariantResult, count)
	var wg sync.WaitGroup
	for i := 1; i <= count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i-1] = c.generateOne(ctx, sc, profile, tone, keywords, i)
		}(i)
	}
	wg.Wait()
	return results
}

func (c *Composer) generateOne(ctx context.Context, sc *Context, profile StoreProfile, tone Tone, keywords []string, i int) VariantResult {
	res := VariantResult{Index: i, Label: VariantLabel(i)}
	temperature := c.VariantTemperature(i)

	req := GenerationRequest{
		System:      systemPrompt,
		Prompt:      BuildPrompt(sc, profile, tone, keywords, c.cfg.MaxLength, i),
		Temperature: temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Hints: PromptHints{
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
			Variant:      i,
		},
	}

	raw, err := c.call(ctx, req)
	if err != nil {
		res.Err = err
		c.recordOutcome(profile.Type, "failed")
		c.logger.Warn("variant generation failed", map[string]interface{}{
			"variant": res.Label,
			"error":   err.Error(),
		})
		return res
	}

	text, truncated, err := FitLength(raw, c.cfg.MaxLength)
	if err != nil {
		res.Err = err
		c.recordOutcome(profile.Type, "failed")
		c.logger.Warn("variant produced no usable text", map[string]interface{}{"variant": res.Label})
		return res
	}
	if truncated {
		c.logger.Debug("variant truncated", map[string]interface{}{
			"variant": res.Label,
			"length":  utf8.RuneCountInString(raw),
		})
	}

	res.Variant = &NarrativeVariant{
		Index:         i,
		Label:         res.Label,
		Text:          text,
		Temperature:   temperature,
		TrendKeywords: append([]string(nil), keywords...),
		Truncated:     truncated,
	}
	c.recordOutcome(profile.Type, "generated")
	return res
}

// call runs one backend completion under the configured timeout. Errors come back
// classified as ErrGenerationTimeout or ErrGenerationFailed.
func (c *Composer) call(ctx context.Context, req GenerationRequest) (string, error) {
	callCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.backend.Complete(callCtx, req)
	metrics.GenerationDuration.WithLabelValues(c.backend.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", classifyGenerationError(callCtx, err)
	}
	return raw, nil
}

func (c *Composer) recordOutcome(t StoreType, outcome string) {
	metrics.NarrativeVariants.WithLabelValues(string(t), outcome).Inc()
}

func classifyGenerationError(ctx context.Context, err error) error {
	if errors.Is(err, ErrGenerationFailed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
}

// SelectTrendKeywords picks at most limit keywords for the prompt. Keywords in a
// category the tone excludes are dropped unless that would leave nothing, and
// keywords sharing a category with the menu come first.
func SelectTrendKeywords(trends []TrendKeyword, menuCategories []string, tone Tone, limit int) []string {
	if limit <= 0 || len(trends) == 0 {
		return nil
	}

	candidates := make([]TrendKeyword, 0, len(trends))
	for _, kw := range trends {
		if !overlaps(kw.Categories, tone.Excluded) {
			candidates = append(candidates, kw)
		}
	}
	if len(candidates) == 0 {
		candidates = trends
	}

	menu := NormalizeCategories(menuCategories)
	var preferred, rest []string
	seen := make(map[string]struct{})
	for _, kw := range candidates {
		if _, dup := seen[kw.Text]; dup || kw.Text == "" {
			continue
		}
		seen[kw.Text] = struct{}{}
		if overlaps(kw.Categories, menu) {
			preferred = append(preferred, kw.Text)
		} else {
			rest = append(rest, kw.Text)
		}
	}

	out := append(preferred, rest...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

var answerLabels = []string{"문구:", "스토리:"}

var wrappingQuotes = []string{"\"", "'", "“", "”", "‘", "’", "「", "」"}

// FitLength cleans generated text and enforces the rune limit. Truncation cuts at
// maxLength runes and drops trailing spaces and separators. Text that is empty after
// cleaning fails with ErrGenerationFailed.
func FitLength(text string, maxLength int) (string, bool, error) {
	cleaned := strings.TrimSpace(text)
	for _, label := range answerLabels {
		cleaned = strings.TrimPrefix(cleaned, label)
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	for {
		before := cleaned
		for _, q := range wrappingQuotes {
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, q))
			cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, q))
		}
		if cleaned == before {
			break
		}
	}

	if cleaned == "" {
		return "", false, fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}
	if utf8.RuneCountInString(cleaned) <= maxLength {
		return cleaned, false, nil
	}

	runes := []rune(cleaned)
	cut := strings.TrimRight(string(runes[:maxLength]), " ,·-~/")
	if cut == "" {
		return "", false, fmt.Errorf("%w: completion has no usable prefix", ErrGenerationFailed)
	}
	return cut, true, nil
}
