// internal/story/helpers_test.go
package story

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var seoul = mustLoadLocation("Asia/Seoul")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// fakeClock is a settable Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ==========================================
// Providers
// ==========================================

type stubWeatherProvider struct {
	snapshot WeatherSnapshot
	err      error
	calls    int32
}

func (p *stubWeatherProvider) Fetch(ctx context.Context, location string) (WeatherSnapshot, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.err != nil {
		return WeatherSnapshot{}, p.err
	}
	return p.snapshot, nil
}

type stubTrendProvider struct {
	mu       sync.Mutex
	keywords []string
	err      error
	calls    int32
	// release, when set, blocks every call until closed.
	release chan struct{}
}

func (p *stubTrendProvider) Fetch(ctx context.Context, categories []string, limit int) ([]TrendKeyword, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	out := make([]TrendKeyword, 0, len(p.keywords))
	for _, k := range p.keywords {
		out = append(out, TrendKeyword{Text: k})
	}
	return out, nil
}

func (p *stubTrendProvider) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *stubTrendProvider) Calls() int { return int(atomic.LoadInt32(&p.calls)) }

// ==========================================
// Generation backend
// ==========================================

type scriptedBackend struct {
	mu       sync.Mutex
	requests []GenerationRequest
	// respond returns the completion for a variant index.
	respond func(req GenerationRequest) (string, error)
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) Complete(ctx context.Context, req GenerationRequest) (string, error) {
	b.mu.Lock()
	b.requests = append(b.requests, req)
	b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b.respond != nil {
		return b.respond(req)
	}
	return fmt.Sprintf("%s %s, %s 한 잔 어떠세요?", req.Hints.Season, req.Hints.Period, strings.Join(req.Hints.Keywords, " ")), nil
}

func (b *scriptedBackend) Requests() []GenerationRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]GenerationRequest(nil), b.requests...)
}
