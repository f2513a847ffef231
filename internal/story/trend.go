// internal/story/trend.go
package story

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/common/metrics"
)

// TrendProvider is the live trend capability. It is rate limited upstream, which is
// why every call goes through the TrendCache.
type TrendProvider interface {
	Fetch(ctx context.Context, categories []string, limit int) ([]TrendKeyword, error)
}

// TrendResult always carries keywords. Degraded is set when they are stale or static.
type TrendResult struct {
	Keywords []TrendKeyword
	CacheHit bool
	Degraded error
}

type TrendSourceConfig struct {
	// Timeout bounds a single provider call.
	Timeout time.Duration
	// FetchLimit is how many keywords are requested upstream and cached per key.
	FetchLimit int
	// Location is the timezone the static fallback calendar is evaluated in.
	Location *time.Location
}

type TrendSource struct {
	provider TrendProvider
	cache    *TrendCache
	cfg      TrendSourceConfig
	clock    Clock
	logger   logger.Logger
}

var errNoKeywords = errors.New("provider returned no keywords")

func NewTrendSource(provider TrendProvider, cache *TrendCache, cfg TrendSourceConfig, clock Clock, log logger.Logger) *TrendSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 10
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &TrendSource{
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		clock:    clock,
		logger:   log.WithFields(map[string]interface{}{"source": "trends"}),
	}
}

// TrendCacheKey normalizes location and the category set, so ["Dessert","coffee"]
// and ["coffee","dessert"] share an entry.
func TrendCacheKey(location string, categories []string) string {
	cats := NormalizeCategories(categories)
	sort.Strings(cats)
	return fmt.Sprintf("trends:%s|%s", strings.ToLower(strings.TrimSpace(location)), strings.Join(cats, ","))
}

// FetchTrends never fails: fresh cache, then upstream, then the stale entry, then the
// static list. Category filtering and the limit apply to whichever list wins.
func (s *TrendSource) FetchTrends(ctx context.Context, location string, categories []string, limit int) TrendResult {
	cats := NormalizeCategories(categories)
	key := TrendCacheKey(location, cats)

	entry, found := s.cache.Lookup(ctx, key)
	if found && entry.Fresh(s.clock.Now()) {
		metrics.TrendCacheLookups.WithLabelValues("hit").Inc()
		s.logger.Debug("trend cache hit", map[string]interface{}{"key": key})
		return TrendResult{Keywords: FilterTrends(entry.Keywords, cats, limit), CacheHit: true}
	}
	if found {
		metrics.TrendCacheLookups.WithLabelValues("stale").Inc()
	} else {
		metrics.TrendCacheLookups.WithLabelValues("miss").Inc()
	}

	var refreshErr error
	if s.provider == nil {
		refreshErr = fmt.Errorf("%w: trend provider disabled", ErrUpstreamUnavailable)
	} else {
		keywords, err := s.cache.Refresh(ctx, key, s.fetchUpstream(cats))
		if err == nil {
			return TrendResult{Keywords: FilterTrends(keywords, cats, limit)}
		}
		refreshErr = fmt.Errorf("%w: trends: %v", ErrUpstreamUnavailable, err)
	}

	if found {
		s.logger.Warn("trend refresh failed, serving stale entry", map[string]interface{}{
			"key":        key,
			"insertedAt": entry.InsertedAt,
			"error":      refreshErr.Error(),
		})
		metrics.UpstreamFallbacks.WithLabelValues("trends", "stale").Inc()
		stale := cloneKeywords(entry.Keywords)
		for i := range stale {
			stale[i].Origin = OriginFallback
		}
		return TrendResult{Keywords: FilterTrends(stale, cats, limit), Degraded: refreshErr}
	}

	s.logger.Warn("trend refresh failed, serving static trends", map[string]interface{}{
		"key":   key,
		"error": refreshErr.Error(),
	})
	metrics.UpstreamFallbacks.WithLabelValues("trends", "static").Inc()
	static := StaticTrends(s.clock.Now().In(s.cfg.Location))
	return TrendResult{Keywords: FilterTrends(static, cats, limit), Degraded: refreshErr}
}

// Warm refreshes the cache entry for location and categories ahead of demand. It is
// the only TrendSource call that reports upstream failure, since nothing is served.
func (s *TrendSource) Warm(ctx context.Context, location string, categories []string) error {
	if s.provider == nil {
		return fmt.Errorf("%w: trend provider disabled", ErrUpstreamUnavailable)
	}
	cats := NormalizeCategories(categories)
	key := TrendCacheKey(location, cats)
	if err := s.cache.Renew(ctx, key, s.cache.TTL()/2, s.fetchUpstream(cats)); err != nil {
		return fmt.Errorf("%w: warm %s: %v", ErrUpstreamUnavailable, key, err)
	}
	return nil
}

func (s *TrendSource) fetchUpstream(cats []string) func(context.Context) ([]TrendKeyword, error) {
	return func(ctx context.Context) ([]TrendKeyword, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()

		keywords, err := s.provider.Fetch(callCtx, cats, s.cfg.FetchLimit)
		if err != nil {
			return nil, err
		}
		if len(keywords) == 0 {
			return nil, errNoKeywords
		}

		now := s.clock.Now()
		for i := range keywords {
			keywords[i].Origin = OriginLive
			keywords[i].Categories = mergeCategories(keywords[i].Categories, CategorizeKeyword(keywords[i].Text)...)
			if keywords[i].FetchedAt.IsZero() {
				keywords[i].FetchedAt = now
			}
		}
		return keywords, nil
	}
}

// FilterTrends keeps keywords whose categories overlap the requested set, falling
// back to the unfiltered list when nothing matches, then truncates to limit.
func FilterTrends(keywords []TrendKeyword, categories []string, limit int) []TrendKeyword {
	out := cloneKeywords(keywords)
	if len(categories) > 0 {
		var matched []TrendKeyword
		for _, kw := range out {
			if overlaps(kw.Categories, categories) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			out = matched
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []TrendKeyword{}
	}
	return out
}
