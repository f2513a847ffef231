// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	GenerationProviderTemplate  = "template"
	GenerationProviderGenAI     = "genai"
	GenerationProviderOpenAI    = "openai"
	GenerationProviderAnthropic = "anthropic"
	GenerationProviderGemini    = "gemini"

	TrendCacheMemory = "memory"
	TrendCacheRedis  = "redis"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top and
// lets environment variables override any key (story.trend_cache_ttl -> STORY_TREND_CACHE_TTL).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // the environment overlay is optional

	return finalize(v)
}

// LoadFromFile reads a single yaml file, with the same env overrides as Load.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in yaml string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.APIs.Weather.APIKey, "OPENWEATHER_API_KEY")
	setIfEmpty(&cfg.APIs.Trends.ClientID, "NAVER_CLIENT_ID")
	setIfEmpty(&cfg.APIs.Trends.ClientSecret, "NAVER_CLIENT_SECRET")

	setIfEmpty(&cfg.APIs.Generation.APIKey, "GENERATION_API_KEY")
	switch cfg.APIs.Generation.Provider {
	case GenerationProviderOpenAI:
		setIfEmpty(&cfg.APIs.Generation.APIKey, "OPENAI_API_KEY")
	case GenerationProviderAnthropic:
		setIfEmpty(&cfg.APIs.Generation.APIKey, "ANTHROPIC_API_KEY")
	case GenerationProviderGemini:
		setIfEmpty(&cfg.APIs.Generation.APIKey, "GEMINI_API_KEY")
	case GenerationProviderGenAI:
		setIfEmpty(&cfg.APIs.Generation.APIKey, "GENAI_API_KEY")
	}

	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Database.Redis.Password, "REDIS_PASSWORD")
}

func setIfEmpty(field *string, envKey string) {
	if *field != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "seasonal-story-workers"
	}

	// Camunda defaults
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	// Database defaults
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	// Upstream defaults
	if cfg.APIs.Weather.BaseURL == "" {
		cfg.APIs.Weather.BaseURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	if cfg.APIs.Weather.Timeout == 0 {
		cfg.APIs.Weather.Timeout = 5000
	}
	if cfg.APIs.Trends.BaseURL == "" {
		cfg.APIs.Trends.BaseURL = "https://openapi.naver.com/v1/search/blog.json"
	}
	if cfg.APIs.Trends.Display == 0 {
		cfg.APIs.Trends.Display = 3
	}
	if cfg.APIs.Trends.Timeout == 0 {
		cfg.APIs.Trends.Timeout = 5000
	}

	gen := &cfg.APIs.Generation
	if gen.Provider == "" {
		gen.Provider = GenerationProviderTemplate
	}
	gen.Provider = strings.ToLower(gen.Provider)
	if gen.MaxTokens == 0 {
		gen.MaxTokens = 150
	}
	if gen.Timeout == 0 {
		gen.Timeout = 30000
	}
	if gen.Model == "" {
		switch gen.Provider {
		case GenerationProviderOpenAI:
			gen.Model = "gpt-4o-mini"
		case GenerationProviderAnthropic:
			gen.Model = "claude-haiku-4-5"
		case GenerationProviderGemini:
			gen.Model = "gemini-1.5-flash"
		}
	}

	// Story pipeline defaults
	st := &cfg.Story
	if st.Timezone == "" {
		st.Timezone = "Asia/Seoul"
	}
	if st.TrendCacheTTL == 0 {
		st.TrendCacheTTL = 300000
	}
	if st.TrendCacheBackend == "" {
		st.TrendCacheBackend = TrendCacheMemory
	}
	if st.TrendStaleRetention == 0 {
		st.TrendStaleRetention = 24 * 60 * 60 * 1000
	}
	if st.TrendLimit == 0 {
		st.TrendLimit = 5
	}
	if st.MaxNarrativeLength == 0 {
		st.MaxNarrativeLength = 60
	}
	if st.DefaultVariantCount == 0 {
		st.DefaultVariantCount = 1
	}
	if st.MaxVariantCount == 0 {
		st.MaxVariantCount = 3
	}
	if st.TemperatureBase == 0 {
		st.TemperatureBase = 0.7
	}
	if st.TemperatureStep == 0 {
		st.TemperatureStep = 0.15
	}
	if st.Warmer.Interval == 0 {
		st.Warmer.Interval = 240000
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}

	if cfg.Story.HistoryEnabled {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required when story.history_enabled is set")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required when story.history_enabled is set")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required when story.history_enabled is set")
		}
	}

	switch cfg.Story.TrendCacheBackend {
	case TrendCacheMemory:
	case TrendCacheRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis trend cache")
		}
	default:
		return fmt.Errorf("story.trend_cache_backend %q is not supported", cfg.Story.TrendCacheBackend)
	}

	switch cfg.APIs.Generation.Provider {
	case GenerationProviderTemplate, GenerationProviderOpenAI, GenerationProviderAnthropic, GenerationProviderGemini:
	case GenerationProviderGenAI:
		if cfg.APIs.Generation.BaseURL == "" {
			return fmt.Errorf("apis.generation.base_url is required for the genai provider")
		}
	default:
		return fmt.Errorf("apis.generation.provider %q is not supported", cfg.APIs.Generation.Provider)
	}

	st := cfg.Story
	if st.MaxVariantCount < 1 || st.MaxVariantCount > 3 {
		return fmt.Errorf("story.max_variant_count must be between 1 and 3, got %d", st.MaxVariantCount)
	}
	if st.DefaultVariantCount < 1 || st.DefaultVariantCount > st.MaxVariantCount {
		return fmt.Errorf("story.default_variant_count must be between 1 and %d, got %d", st.MaxVariantCount, st.DefaultVariantCount)
	}
	if st.MaxNarrativeLength < 1 {
		return fmt.Errorf("story.max_narrative_length must be positive")
	}
	if st.TrendCacheTTL < 0 || st.TrendStaleRetention < 0 {
		return fmt.Errorf("story trend cache durations must not be negative")
	}
	if st.TemperatureBase < 0 || st.TemperatureBase > 2 || st.TemperatureStep < 0 {
		return fmt.Errorf("story temperature settings out of range")
	}
	if _, err := time.LoadLocation(st.Timezone); err != nil {
		return fmt.Errorf("story.timezone: %w", err)
	}

	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// Location returns the timezone narratives are resolved in.
func (s StoryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
