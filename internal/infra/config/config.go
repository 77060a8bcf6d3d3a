package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Valkey    ValkeyConfig    `yaml:"valkey"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Providers ProvidersConfig `yaml:"providers"`
	Climate   ClimateConfig   `yaml:"climate"`
	Insight   InsightConfig   `yaml:"insight"`
	LLM       LLMConfig       `yaml:"llm"`
	Coach     CoachConfig     `yaml:"coach"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AuthConfig holds token and OAuth settings.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
	Google          GoogleConfig  `yaml:"google"`
}

// GoogleConfig holds Google sign-in settings.
type GoogleConfig struct {
	ClientID             string `yaml:"clientId"`
	ClientSecret         string `yaml:"clientSecret"`
	RedirectURL          string `yaml:"redirectUrl"`
	TokenEncryptionKey   string `yaml:"tokenEncryptionKey"`
	PostLoginRedirectURL string `yaml:"postLoginRedirectUrl"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the cache and
// leaderboard.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// ArchiveConfig contains S3-compatible object storage settings for raw
// provider payloads.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// ProvidersConfig carries the upstream environmental API credentials.
type ProvidersConfig struct {
	OpenWeather ProviderConfig `yaml:"openWeather"`
	WAQI        ProviderConfig `yaml:"waqi"`
	Ambee       ProviderConfig `yaml:"ambee"`
}

// ProviderConfig is one upstream API endpoint plus its key.
type ProviderConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
}

// ClimateConfig controls conditions caching.
type ClimateConfig struct {
	CacheTTL time.Duration `yaml:"cacheTtl"`
}

// InsightConfig controls report computation.
type InsightConfig struct {
	DefaultWindowDays int           `yaml:"defaultWindowDays"`
	JoinTolerance     time.Duration `yaml:"joinTolerance"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// CoachConfig controls the asthma coach behavior.
type CoachConfig struct {
	MaxHistoryTokens int `yaml:"maxHistoryTokens"`
	MaxMessageLen    int `yaml:"maxMessageLen"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		cfg.HTTP.AllowedOrigins = origins
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_REFRESH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.RefreshTokenTTL = parsed
		}
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Auth.Google.ClientSecret = v
	}
	if v := os.Getenv("GOOGLE_REDIRECT_URL"); v != "" {
		cfg.Auth.Google.RedirectURL = v
	}
	if v := os.Getenv("GOOGLE_TOKEN_ENCRYPTION_KEY"); v != "" {
		cfg.Auth.Google.TokenEncryptionKey = v
	}
	if v := os.Getenv("GOOGLE_POST_LOGIN_REDIRECT_URL"); v != "" {
		cfg.Auth.Google.PostLoginRedirectURL = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("VALKEY_PREFIX"); v != "" {
		cfg.Valkey.Prefix = v
	}
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		cfg.Archive.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("ARCHIVE_REGION"); v != "" {
		cfg.Archive.Region = v
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.Providers.OpenWeather.APIKey = v
	}
	if v := os.Getenv("OPENWEATHER_BASE_URL"); v != "" {
		cfg.Providers.OpenWeather.BaseURL = v
	}
	if v := os.Getenv("AQICN_TOKEN"); v != "" {
		cfg.Providers.WAQI.APIKey = v
	}
	if v := os.Getenv("WAQI_BASE_URL"); v != "" {
		cfg.Providers.WAQI.BaseURL = v
	}
	if v := os.Getenv("POLLEN_API_KEY"); v != "" {
		cfg.Providers.Ambee.APIKey = v
	}
	if v := os.Getenv("AMBEE_BASE_URL"); v != "" {
		cfg.Providers.Ambee.BaseURL = v
	}
	if v := os.Getenv("CLIMATE_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Climate.CacheTTL = parsed
		}
	}
	if v := os.Getenv("INSIGHT_WINDOW_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Insight.DefaultWindowDays = parsed
		}
	}
	if v := os.Getenv("INSIGHT_JOIN_TOLERANCE"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Insight.JoinTolerance = parsed
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("COACH_MAX_HISTORY_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Coach.MaxHistoryTokens = parsed
		}
	}
	if v := os.Getenv("COACH_MAX_MESSAGE_LEN"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Coach.MaxMessageLen = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/coach/message",
				},
			},
		},
		Auth: AuthConfig{
			Secret:          "",
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Valkey: ValkeyConfig{
			Enabled: false,
			Prefix:  "climahealth",
		},
		Climate: ClimateConfig{
			CacheTTL: 30 * time.Minute,
		},
		Insight: InsightConfig{
			DefaultWindowDays: 30,
			JoinTolerance:     4 * time.Hour,
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
		},
		Coach: CoachConfig{
			MaxHistoryTokens: 2000,
			MaxMessageLen:    1000,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.TokenTTL {
		return errors.New("auth.refreshTokenTtl must exceed auth.tokenTtl")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Archive.Enabled {
		if strings.TrimSpace(c.Archive.Endpoint) == "" {
			return errors.New("archive.endpoint cannot be empty when archive is enabled")
		}
		if strings.TrimSpace(c.Archive.Bucket) == "" {
			return errors.New("archive.bucket cannot be empty when archive is enabled")
		}
	}
	if c.Climate.CacheTTL < 0 {
		return errors.New("climate.cacheTtl cannot be negative")
	}
	if c.Insight.DefaultWindowDays <= 0 {
		return errors.New("insight.defaultWindowDays must be positive")
	}
	if c.Insight.JoinTolerance <= 0 {
		return errors.New("insight.joinTolerance must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
