// internal/workers/story/generate-welcome-message/config.go
package generatewelcomemessage

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
		cfg.MaxJobsActive = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return cfg
}
