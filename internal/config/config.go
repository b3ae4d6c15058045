package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Backend API
	APIBaseURL     string
	APIToken       string
	RequestTimeout time.Duration

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string
	SupabaseSignedURLs     bool

	// Client-local cache
	RedisURL string

	// Sync policy
	UploadPollInterval    time.Duration
	UploadPollMaxAttempts int
	UploadPollHardTimeout time.Duration
	NotificationTTL       time.Duration
	TryOnCost             int

	// Development backend
	DatabaseURL    string
	GeminiAPIKey   string
	GeminiModel    string
	MinimumItems   int
	StartingCoins  int
	IngestionDelay time.Duration

	// Server
	Port        string
	Environment string
	LogLevel    string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to read .env file: %v", err)
	}

	cfg := &Config{
		APIBaseURL:     getEnv("CLOSET_API_BASE_URL", "http://localhost:8080/api/v1"),
		APIToken:       getEnv("CLOSET_API_TOKEN", ""),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "closet-images"),
		SupabaseSignedURLs:     getBool("SUPABASE_SIGNED_URLS", false),

		RedisURL: getEnv("REDIS_URL", ""),

		UploadPollInterval:    getDuration("UPLOAD_POLL_INTERVAL", time.Second),
		UploadPollMaxAttempts: getInt("UPLOAD_POLL_MAX_ATTEMPTS", 30),
		UploadPollHardTimeout: getDuration("UPLOAD_POLL_HARD_TIMEOUT", 10*time.Second),
		NotificationTTL:       getDuration("NOTIFICATION_TTL", 4*time.Second),
		TryOnCost:             getInt("TRY_ON_COST", 10),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		MinimumItems:   getInt("MINIMUM_ITEMS", 3),
		StartingCoins:  getInt("STARTING_COINS", 50),
		IngestionDelay: getDuration("INGESTION_DELAY", 2*time.Second),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks the settings the sync client needs.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("CLOSET_API_BASE_URL is required")
	}
	if c.UploadPollInterval <= 0 {
		return fmt.Errorf("UPLOAD_POLL_INTERVAL must be positive")
	}
	if c.UploadPollMaxAttempts <= 0 {
		return fmt.Errorf("UPLOAD_POLL_MAX_ATTEMPTS must be positive")
	}
	if c.UploadPollHardTimeout <= 0 {
		return fmt.Errorf("UPLOAD_POLL_HARD_TIMEOUT must be positive")
	}
	if c.TryOnCost < 0 {
		return fmt.Errorf("TRY_ON_COST must not be negative")
	}
	return nil
}

// ValidateServer checks the settings the development backend needs.
func (c *Config) ValidateServer() error {
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.StartingCoins < 0 {
		return fmt.Errorf("STARTING_COINS must not be negative")
	}
	if c.MinimumItems < 0 {
		return fmt.Errorf("MINIMUM_ITEMS must not be negative")
	}
	return nil
}

// HasSupabase reports whether the Supabase collaborators can be built.
func (c *Config) HasSupabase() bool {
	return c.SupabaseURL != "" && c.SupabasePublishableKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
