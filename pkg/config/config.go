package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Market data
	Cache     CacheConfig
	Providers ProvidersConfig
	DemoMode  bool

	// Earnings timing
	UserTimezone     string // empty means auto-detect
	EntryBeforeClose time.Duration
	ExitAfterOpen    time.Duration

	// Watchlist / scheduler
	WatchlistFile string
	ScanSchedule  string

	// Logging
	LogLevel  string
	LogFormat string
}

// CacheConfig holds the durable price cache configuration.
type CacheConfig struct {
	File     string
	TTL      time.Duration
	StaleTTL time.Duration // widened TTL for last-resort stale reads
}

// ProvidersConfig holds configuration for external data providers.
type ProvidersConfig struct {
	// MinRequestInterval is the default spacing between outbound calls
	// to a single provider.
	MinRequestInterval time.Duration

	Yahoo        YahooConfig
	Finnhub      FinnhubConfig
	AlphaVantage AlphaVantageConfig
	Whispers     WhispersConfig
}

// YahooConfig holds Yahoo Finance configuration. The API is public,
// so the provider is always available.
type YahooConfig struct {
	BaseURL string
}

// FinnhubConfig holds Finnhub API configuration. An empty APIKey
// leaves the provider unregistered.
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
}

// AlphaVantageConfig holds Alpha Vantage API configuration. The free
// tier is heavily rate limited, hence the dedicated MinInterval.
type AlphaVantageConfig struct {
	APIKey      string
	BaseURL     string
	MinInterval time.Duration
}

// WhispersConfig holds the Earnings Whispers scrape configuration.
type WhispersConfig struct {
	BaseURL string
	Enabled bool
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Cache: CacheConfig{
			File:     getEnv("CACHE_FILE", "price_cache.json"),
			TTL:      getEnvAsDuration("PRICE_CACHE_TTL", "300s"),
			StaleTTL: getEnvAsDuration("PRICE_CACHE_STALE_TTL", "24h"),
		},

		Providers: ProvidersConfig{
			MinRequestInterval: getEnvAsDuration("MIN_REQUEST_INTERVAL", "700ms"),
			Yahoo: YahooConfig{
				BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			},
			Finnhub: FinnhubConfig{
				APIKey:  getEnv("FINNHUB_API_KEY", ""),
				BaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
			},
			AlphaVantage: AlphaVantageConfig{
				APIKey:      getEnv("ALPHAVANTAGE_API_KEY", ""),
				BaseURL:     getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co"),
				MinInterval: getEnvAsDuration("ALPHAVANTAGE_MIN_INTERVAL", "12s"),
			},
			Whispers: WhispersConfig{
				BaseURL: getEnv("WHISPERS_BASE_URL", "https://www.earningswhispers.com"),
				Enabled: getEnvAsBool("WHISPERS_ENABLED", true),
			},
		},

		DemoMode: getEnvAsBool("DEMO_MODE", false),

		UserTimezone:     getEnv("USER_TIMEZONE", ""),
		EntryBeforeClose: getEnvAsDuration("ENTRY_BEFORE_CLOSE", "15m"),
		ExitAfterOpen:    getEnvAsDuration("EXIT_AFTER_OPEN", "15m"),

		WatchlistFile: getEnv("WATCHLIST_FILE", "watchlist.yaml"),
		ScanSchedule:  getEnv("SCAN_SCHEDULE", "0 */15 * * * *"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are coherent.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("PRICE_CACHE_TTL must be positive")
	}

	if c.Cache.StaleTTL < c.Cache.TTL {
		return fmt.Errorf("PRICE_CACHE_STALE_TTL must not be shorter than PRICE_CACHE_TTL")
	}

	if c.EntryBeforeClose <= 0 || c.ExitAfterOpen <= 0 {
		return fmt.Errorf("entry/exit window paddings must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
