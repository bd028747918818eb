// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultOriginRegex admits any subdomain of the survey platform.
const DefaultOriginRegex = `^https://([a-z0-9-]+\.)*qualtrics\.com$`

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Completion provider settings
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Logging sink settings
	GoogleCredsFile string
	SheetURL        string
	LogBackupFile   string

	// Event mirror settings
	NATSURL   string
	NATSToken string

	// CORS settings
	AllowedOrigin    string
	AllowOriginRegex string

	// Static assets
	StaticDir string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8000"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// Completion provider
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		// Logging sink
		GoogleCredsFile: getEnv("GOOGLE_CREDS_FILE", ""),
		SheetURL:        getEnv("SHEET_URL", ""),
		LogBackupFile:   getEnv("LOG_BACKUP_FILE", "sheet_log_backup.txt"),

		// Event mirror
		NATSURL:   getEnv("NATS_URL", ""),
		NATSToken: getEnv("NATS_TOKEN", ""),

		// CORS
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", ""),
		AllowOriginRegex: getEnv("ALLOW_ORIGIN_REGEX", DefaultOriginRegex),

		// Static assets
		StaticDir: getEnv("STATIC_DIR", "static"),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
