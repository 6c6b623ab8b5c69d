package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Environment   string
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTExpiration int

	// Assistant (OpenAI-compatible) Configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Demo mode seeds a demo retailer account and demo orders
	DemoMode bool

	// Rate Limiting Configuration
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Recommendation Configuration
	RecommendPerList int
	RecommendTotal   int

	// CORS Configuration
	AllowedOrigins []string

	// Logging Configuration
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "buynestt.db"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiration: getEnvAsInt("JWT_EXPIRATION", 24*60*60), // 24 hours in seconds

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAITimeout: getEnvAsDuration("OPENAI_TIMEOUT", 10*time.Second),

		DemoMode: getEnvAsBool("DEMO_MODE", true),

		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),

		RecommendPerList: getEnvAsInt("RECOMMEND_PER_LIST", 6),
		RecommendTotal:   getEnvAsInt("RECOMMEND_TOTAL", 18),

		AllowedOrigins: getEnvAsStringSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// ServerPort returns the server port
func (c *Config) ServerPort() string {
	return c.Port
}

// AssistantConfigured reports whether the external assistant service can be
// called at all. Without a key the local resolver handles every message.
func (c *Config) AssistantConfigured() bool {
	return c.OpenAIAPIKey != ""
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL is required")
	}
	if c.RecommendPerList <= 0 || c.RecommendTotal <= 0 {
		return fmt.Errorf("recommendation caps must be positive")
	}

	validEnvs := map[string]bool{
		"development": true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	return nil
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %s, DatabaseURL: %s}", c.Environment, c.Port, c.DatabaseURL)
}
