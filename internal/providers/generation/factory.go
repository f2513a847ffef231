// internal/providers/generation/factory.go
package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"seasonal-story-workers/internal/common/config"
	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/story"
)

const (
	ProviderTemplate  = config.GenerationProviderTemplate
	ProviderGenAI     = config.GenerationProviderGenAI
	ProviderOpenAI    = config.GenerationProviderOpenAI
	ProviderAnthropic = config.GenerationProviderAnthropic
	ProviderGemini    = config.GenerationProviderGemini
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the configured backend. A hosted provider without an API key degrades
// to the template backend with a warning. The returned Closer releases SDK clients.
func New(ctx context.Context, cfg config.GenerationAPIConfig, log logger.Logger) (story.GenerationBackend, io.Closer, error) {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	switch cfg.Provider {
	case ProviderTemplate, "", ProviderGenAI, ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return nil, nil, fmt.Errorf("generation provider %q is not supported", cfg.Provider)
	}

	if cfg.Provider != ProviderTemplate && cfg.Provider != "" && cfg.Provider != ProviderGenAI && cfg.APIKey == "" {
		log.Warn("generation api key missing, using template backend", map[string]interface{}{
			"provider": cfg.Provider,
		})
		return NewTemplateBackend(), nopCloser{}, nil
	}

	switch cfg.Provider {
	case ProviderTemplate, "":
		return NewTemplateBackend(), nopCloser{}, nil
	case ProviderGenAI:
		return NewGenAIBackend(cfg.BaseURL, cfg.APIKey, timeout), nopCloser{}, nil
	case ProviderOpenAI:
		return NewOpenAIBackend(cfg.APIKey, cfg.Model, cfg.BaseURL, nil), nopCloser{}, nil
	case ProviderAnthropic:
		return NewAnthropicBackend(cfg.APIKey, cfg.Model, cfg.BaseURL, nil), nopCloser{}, nil
	case ProviderGemini:
		b, err := NewGeminiBackend(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	}
	return nil, nil, fmt.Errorf("generation provider %q is not supported", cfg.Provider)
}

// wrapSDKError maps SDK failures onto the generation sentinels.
func wrapSDKError(ctx context.Context, provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", story.ErrGenerationTimeout, provider, err)
	}
	return fmt.Errorf("%w: %s: %v", story.ErrGenerationFailed, provider, err)
}
