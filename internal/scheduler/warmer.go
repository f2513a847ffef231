// internal/scheduler/warmer.go
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"seasonal-story-workers/internal/common/logger"
)

// TrendWarmer is the part of the trend source the warmer drives.
type TrendWarmer interface {
	Warm(ctx context.Context, location string, categories []string) error
}

// Warmer periodically refreshes trend cache entries for the busiest locations so
// requests rarely pay for an upstream call.
type Warmer struct {
	scheduler  *gocron.Scheduler
	source     TrendWarmer
	locations  []string
	categories []string
	interval   time.Duration
	timeout    time.Duration
	logger     logger.Logger
}

func NewWarmer(source TrendWarmer, locations, categories []string, interval time.Duration, log logger.Logger) *Warmer {
	if interval <= 0 {
		interval = 4 * time.Minute
	}
	return &Warmer{
		scheduler:  gocron.NewScheduler(time.UTC),
		source:     source,
		locations:  locations,
		categories: categories,
		interval:   interval,
		timeout:    30 * time.Second,
		logger:     log.WithFields(map[string]interface{}{"component": "trend-warmer"}),
	}
}

// Start schedules the warm job, running it once immediately.
func (w *Warmer) Start() error {
	if len(w.locations) == 0 {
		w.logger.Info("no warm locations configured, warmer idle", nil)
		return nil
	}

	seconds := int(w.interval.Seconds())
	if seconds <= 0 {
		seconds = 240
	}
	if _, err := w.scheduler.Every(seconds).Seconds().Do(w.Run); err != nil {
		return err
	}
	w.scheduler.StartAsync()

	w.logger.Info("trend warmer started", map[string]interface{}{
		"interval":  w.interval.String(),
		"locations": w.locations,
	})
	return nil
}

// Run warms every configured location once and returns how many succeeded.
func (w *Warmer) Run() int {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, loc := range w.locations {
		wg.Add(1)
		go func(loc string) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
			defer cancel()

			if err := w.source.Warm(ctx, loc, w.categories); err != nil {
				w.logger.Warn("trend warm failed", map[string]interface{}{
					"location": loc,
					"error":    err.Error(),
				})
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}(loc)
	}
	wg.Wait()

	w.logger.Debug("trend warm completed", map[string]interface{}{
		"succeeded": ok,
		"total":     len(w.locations),
	})
	return ok
}

// Stop stops the scheduler and cancels any future runs.
func (w *Warmer) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}
