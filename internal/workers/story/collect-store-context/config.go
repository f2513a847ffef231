// internal/workers/story/collect-store-context/config.go
package collectstorecontext

import (
	"time"

	"seasonal-story-workers/internal/common/config"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 20
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
		cfg.Timeout = 10 * time.Second
	}
	return cfg
}
