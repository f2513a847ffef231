// internal/workers/story/generate-seasonal-story/config.go
package generateseasonalstory

import (
	"fmt"
	"time"

	"seasonal-story-workers/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	// CommandTimeout bounds the complete/fail/throw call after the job context is done.
	CommandTimeout time.Duration
}

func NewConfig(wcfg config.WorkerConfig) *Config {
	cfg := &Config{
		Enabled:        wcfg.Enabled,
		MaxJobsActive:  wcfg.MaxJobsActive,
		Timeout:        config.GetDuration(wcfg.Timeout),
		CommandTimeout: 10 * time.Second,
	}
	if cfg.MaxJobsActive <= 0 {
		cfg.MaxJobsActive = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1s, got %s", c.Timeout)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command timeout must be positive")
	}
	return nil
}
