package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	// DomainHistoryTTL is how long a delivered domain is skipped by later runs.
	DomainHistoryTTL time.Duration `mapstructure:"DOMAIN_HISTORY_TTL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"JWT_TTL"`

	SerperAPIKey   string `mapstructure:"SERPER_API_KEY"`
	SerperEndpoint string `mapstructure:"SERPER_ENDPOINT"`
	SearchPageSize int    `mapstructure:"SEARCH_PAGE_SIZE"`
	SearchRegion   string `mapstructure:"SEARCH_REGION"`
	SearchLanguage string `mapstructure:"SEARCH_LANGUAGE"`

	SheetWebhookURL string `mapstructure:"SHEET_WEBHOOK_URL"`
	MaxTargetCount  int    `mapstructure:"MAX_TARGET_COUNT"`

	ScrapeConcurrent int           `mapstructure:"SCRAPE_CONCURRENT"`
	ScrapeBatchSize  int           `mapstructure:"SCRAPE_BATCH_SIZE"`
	ScrapeTimeout    time.Duration `mapstructure:"SCRAPE_TIMEOUT"`
	ScrapeRetryDelay time.Duration `mapstructure:"SCRAPE_RETRY_DELAY"`
	ScrapeRatePerSec float64       `mapstructure:"SCRAPE_RATE_PER_SEC"`

	RateLimitRunsRaw string          `mapstructure:"RATE_LIMIT_RUNS"`
	RateLimitRuns    RateLimitConfig `mapstructure:"-"`
}

var defaults = map[string]any{
	"PORT":                "8080",
	"DATABASE_URL":        "",
	"REDIS_ADDR":          "",
	"DOMAIN_HISTORY_TTL":  "2160h",
	"JWT_SECRET":          "dev-secret",
	"JWT_TTL":             "24h",
	"SERPER_API_KEY":      "",
	"SERPER_ENDPOINT":     "https://google.serper.dev/search",
	"SEARCH_PAGE_SIZE":    10,
	"SEARCH_REGION":       "jp",
	"SEARCH_LANGUAGE":     "ja",
	"SHEET_WEBHOOK_URL":   "",
	"MAX_TARGET_COUNT":    100,
	"SCRAPE_CONCURRENT":   8,
	"SCRAPE_BATCH_SIZE":   6,
	"SCRAPE_TIMEOUT":      "10s",
	"SCRAPE_RETRY_DELAY":  "300ms",
	"SCRAPE_RATE_PER_SEC": 0,
	"RATE_LIMIT_RUNS":     "5/min",
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	v := viper.New()
	// every key needs a default so AutomaticEnv picks it up during Unmarshal
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	rl, err := parseRateLimit(cfg.RateLimitRunsRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RUNS value: %w", err)
	}
	cfg.RateLimitRuns = rl

	if cfg.MaxTargetCount <= 0 {
		return nil, fmt.Errorf("MAX_TARGET_COUNT must be positive, got %d", cfg.MaxTargetCount)
	}
	return &cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}
