// internal/workers/story/generate-menu-story/config.go
package generatemenustory

import (
	"time"

	"seasonal-story-workers/internal/common/config"
)

type Config struct {
	Enabled        bool
	MaxJobsActive  int
	Timeout        time.Duration
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
		cfg.MaxJobsActive = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return cfg
}
