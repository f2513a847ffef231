// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
camunda:
  broker_address: localhost:26500
workers:
  generate-seasonal-story:
    enabled: true
`

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "Asia/Seoul", cfg.Story.Timezone)
	assert.Equal(t, 300*time.Second, GetDuration(cfg.Story.TrendCacheTTL))
	assert.Equal(t, 60, cfg.Story.MaxNarrativeLength)
	assert.Equal(t, 1, cfg.Story.DefaultVariantCount)
	assert.Equal(t, 3, cfg.Story.MaxVariantCount)
	assert.Equal(t, TrendCacheMemory, cfg.Story.TrendCacheBackend)
	assert.Equal(t, GenerationProviderTemplate, cfg.APIs.Generation.Provider)
	assert.Equal(t, 150, cfg.APIs.Generation.MaxTokens)
	assert.Equal(t, 5000, cfg.APIs.Weather.Timeout)
	assert.Equal(t, 3, cfg.APIs.Trends.Display)
	assert.Equal(t, 8080, cfg.Server.Port)

	wcfg := GetWorkerConfig(cfg, "generate-seasonal-story")
	assert.True(t, wcfg.Enabled)
	assert.Equal(t, 5, wcfg.MaxJobsActive)
	assert.Equal(t, 30000, wcfg.Timeout)
}

func TestLoadFromFile_CredentialsAreOptional(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig+`
apis:
  weather:
    enabled: true
  trends:
    enabled: true
`))
	require.NoError(t, err)
	assert.True(t, cfg.APIs.Weather.Enabled)
	assert.Empty(t, cfg.APIs.Weather.APIKey)
	assert.Empty(t, cfg.APIs.Trends.ClientID)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("NAVER_CLIENT_ID", "naver-id")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STORY_TREND_LIMIT", "7")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig+`
apis:
  generation:
    provider: openai
story:
  trend_limit: 5
`))
	require.NoError(t, err)

	assert.Equal(t, "ow-key", cfg.APIs.Weather.APIKey)
	assert.Equal(t, "naver-id", cfg.APIs.Trends.ClientID)
	assert.Equal(t, "sk-test", cfg.APIs.Generation.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.APIs.Generation.Model)
	assert.Equal(t, 7, cfg.Story.TrendLimit)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("STORY_TZ", "Asia/Tokyo")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig+`
story:
  timezone: ${STORY_TZ}
`))
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", cfg.Story.Timezone)
	assert.Equal(t, "Asia/Tokyo", cfg.Story.Location().String())
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "logging:\n  level: debug\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "variant count above three",
			body:    minimalConfig + "story:\n  max_variant_count: 4\n",
			wantErr: "story.max_variant_count",
		},
		{
			name:    "default above max",
			body:    minimalConfig + "story:\n  max_variant_count: 2\n  default_variant_count: 3\n",
			wantErr: "story.default_variant_count",
		},
		{
			name:    "redis cache without address",
			body:    minimalConfig + "story:\n  trend_cache_backend: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "history without postgres",
			body:    minimalConfig + "story:\n  history_enabled: true\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "genai without base url",
			body:    minimalConfig + "apis:\n  generation:\n    provider: genai\n",
			wantErr: "apis.generation.base_url",
		},
		{
			name:    "unknown provider",
			body:    minimalConfig + "apis:\n  generation:\n    provider: llama\n",
			wantErr: "not supported",
		},
		{
			name:    "bad timezone",
			body:    minimalConfig + "story:\n  timezone: Mars/Olympus\n",
			wantErr: "story.timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsWorkerEnabled(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"collect-store-context": {Enabled: false},
	}}
	assert.False(t, IsWorkerEnabled(cfg, "collect-store-context"))
	assert.True(t, IsWorkerEnabled(cfg, "generate-seasonal-story"))
}
