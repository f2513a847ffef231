// internal/story/aggregator.go
package story

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"seasonal-story-workers/internal/common/logger"
)

const maxLocationLength = 100

// Context is the situational snapshot a narrative is written from. All fields are
// populated; Degraded lists the sources that fell back.
type Context struct {
	Location    string          `json:"location"`
	Weather     WeatherSnapshot `json:"weather"`
	Season      Season          `json:"season"`
	SeasonLabel string          `json:"seasonLabel"`
	Time        TimeInfo        `json:"time"`
	Trends      []TrendKeyword  `json:"trends"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Degraded    []string        `json:"degraded,omitempty"`
}

// TrendTexts returns the keyword strings in order.
func (c *Context) TrendTexts() []string {
	out := make([]string, 0, len(c.Trends))
	for _, kw := range c.Trends {
		out = append(out, kw.Text)
	}
	return out
}

type AggregatorConfig struct {
	TrendLimit int
	Location   *time.Location
}

// Aggregator fans out to the weather and trend sources in parallel.
type Aggregator struct {
	weather *WeatherSource
	trends  *TrendSource
	cfg     AggregatorConfig
	clock   Clock
	logger  logger.Logger
}

func NewAggregator(weather *WeatherSource, trends *TrendSource, cfg AggregatorConfig, clock Clock, log logger.Logger) *Aggregator {
	if cfg.TrendLimit <= 0 {
		cfg.TrendLimit = 5
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Aggregator{
		weather: weather,
		trends:  trends,
		cfg:     cfg,
		clock:   clock,
		logger:  log.WithFields(map[string]interface{}{"component": "aggregator"}),
	}
}

// ValidateLocation rejects empty, oversized or control-character locations.
func ValidateLocation(location string) error {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return invalidRequest("location is empty")
	}
	if !utf8.ValidString(loc) {
		return invalidRequest("location is not valid UTF-8")
	}
	if utf8.RuneCountInString(loc) > maxLocationLength {
		return invalidRequest("location exceeds %d characters", maxLocationLength)
	}
	hasLetter := false
	for _, r := range loc {
		if unicode.IsControl(r) {
			return invalidRequest("location contains control characters")
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	if !hasLetter {
		return invalidRequest("location %q does not name a place", loc)
	}
	return nil
}

// Build assembles a Context. The only error is an invalid location, or the caller's
// ctx ending while sources are in flight.
func (a *Aggregator) Build(ctx context.Context, location string, menuCategories []string) (*Context, error) {
	return a.BuildWithTrends(ctx, location, menuCategories, nil)
}

// BuildWithTrends is Build with caller-selected trend keywords. A non-empty override
// replaces the trend fetch.
func (a *Aggregator) BuildWithTrends(ctx context.Context, location string, menuCategories, override []string) (*Context, error) {
	if err := ValidateLocation(location); err != nil {
		return nil, err
	}
	location = strings.TrimSpace(location)

	now := a.clock.Now().In(a.cfg.Location)
	season := ResolveSeason(now)
	timeInfo := ResolveTimeInfo(now)

	var (
		wg           sync.WaitGroup
		weatherRes   WeatherResult
		trendRes     TrendResult
		userKeywords = overrideKeywords(override, now)
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		weatherRes = a.weather.Fetch(ctx, location, season, timeInfo.Bucket)
	}()

	if len(userKeywords) == 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trendRes = a.trends.FetchTrends(ctx, location, menuCategories, a.cfg.TrendLimit)
		}()
	} else {
		trendRes = TrendResult{Keywords: userKeywords}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &Context{
		Location:    location,
		Weather:     weatherRes.Snapshot,
		Season:      season,
		SeasonLabel: season.Label(),
		Time:        timeInfo,
		Trends:      trendRes.Keywords,
		GeneratedAt: now,
	}
	if weatherRes.Degraded != nil {
		c.Degraded = append(c.Degraded, "weather")
	}
	if trendRes.Degraded != nil {
		c.Degraded = append(c.Degraded, "trends")
	}

	a.logger.Debug("context built", map[string]interface{}{
		"location":      location,
		"season":        string(season),
		"period":        string(timeInfo.Bucket),
		"weatherOrigin": string(c.Weather.Origin),
		"trendCount":    len(c.Trends),
		"degraded":      c.Degraded,
	})
	return c, nil
}

func overrideKeywords(override []string, now time.Time) []TrendKeyword {
	var out []TrendKeyword
	seen := make(map[string]struct{}, len(override))
	for _, raw := range override {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, TrendKeyword{
			Text:       text,
			Categories: CategorizeKeyword(text),
			Origin:     OriginLive,
			FetchedAt:  now,
		})
	}
	return out
}
