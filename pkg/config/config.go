package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Reasoning / data providers
	Gemini  GeminiConfig
	XAI     XAIConfig
	Finnhub FinnhubConfig

	// Pipeline
	Cycle CycleConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// GeminiConfig holds Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// XAIConfig holds xAI (Grok) API configuration.
// Grok is the primary trend-detection source; a missing key is not fatal
// because the Gemini fallback covers the stage.
type XAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// FinnhubConfig holds Finnhub market-data configuration.
// Optional enrichment for the financial summary stage.
type FinnhubConfig struct {
	APIKey        string
	BaseURL       string
	RatePerSecond int
}

// CycleConfig holds investment-cycle configuration
type CycleConfig struct {
	// Schedule is a cron expression for unattended runs. Empty disables
	// the scheduler.
	Schedule string

	// NotionalUSD is the fixed account notional the hard filters are
	// expressed against.
	NotionalUSD int64
}

// Load reads configuration from environment variables
// SSOT: only this function calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", "90s"),
			Temperature: float32(getEnvAsFloat("GEMINI_TEMPERATURE", 0.3)),
		},

		XAI: XAIConfig{
			APIKey:  getEnv("XAI_API_KEY", ""),
			BaseURL: getEnv("XAI_BASE_URL", "https://api.x.ai/v1"),
			Model:   getEnv("XAI_MODEL", "grok-4"),
			Timeout: getEnvAsDuration("XAI_TIMEOUT", "60s"),
		},

		Finnhub: FinnhubConfig{
			APIKey:        getEnv("FINNHUB_API_KEY", ""),
			BaseURL:       getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
			RatePerSecond: getEnvAsInt("FINNHUB_RATE_PER_SECOND", 10),
		},

		Cycle: CycleConfig{
			Schedule:    getEnv("CYCLE_SCHEDULE", ""),
			NotionalUSD: int64(getEnvAsInt("CYCLE_NOTIONAL_USD", 100_000)),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Gemini backs four of the five stages, there is no running without it
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
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

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
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
