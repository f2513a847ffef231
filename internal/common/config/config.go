// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	APIs     APIsConfig              `mapstructure:"apis"`
	Story    StoryConfig             `mapstructure:"story"`
	Server   ServerConfig            `mapstructure:"server"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- External APIs ---

// APIsConfig holds the upstream providers. Every credential is optional: a missing key
// puts that source into fallback mode instead of failing startup.
type APIsConfig struct {
	Weather    WeatherAPIConfig    `mapstructure:"weather"`
	Trends     TrendAPIConfig      `mapstructure:"trends"`
	Generation GenerationAPIConfig `mapstructure:"generation"`
}

type WeatherAPIConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

type TrendAPIConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Display      int    `mapstructure:"display"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

// GenerationAPIConfig selects the text backend. Provider is one of
// "template", "genai", "openai", "anthropic" or "gemini".
type GenerationAPIConfig struct {
	Provider  string `mapstructure:"provider"`
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

// --- Story pipeline ---

type StoryConfig struct {
	Timezone            string       `mapstructure:"timezone"`
	TrendCacheTTL       int          `mapstructure:"trend_cache_ttl"`       // milliseconds
	TrendCacheBackend   string       `mapstructure:"trend_cache_backend"`   // memory | redis
	TrendStaleRetention int          `mapstructure:"trend_stale_retention"` // milliseconds
	TrendLimit          int          `mapstructure:"trend_limit"`
	MaxNarrativeLength  int          `mapstructure:"max_narrative_length"`
	DefaultVariantCount int          `mapstructure:"default_variant_count"`
	MaxVariantCount     int          `mapstructure:"max_variant_count"`
	TemperatureBase     float64      `mapstructure:"temperature_base"`
	TemperatureStep     float64      `mapstructure:"temperature_step"`
	HistoryEnabled      bool         `mapstructure:"history_enabled"`
	Warmer              WarmerConfig `mapstructure:"warmer"`
}

// WarmerConfig drives the periodic trend cache refresh.
type WarmerConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Interval   int      `mapstructure:"interval"` // milliseconds
	Locations  []string `mapstructure:"locations"`
	Categories []string `mapstructure:"categories"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
