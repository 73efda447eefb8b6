// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session storage backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendMongo  = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion    string
	LogLevel      string
	DefaultLocale string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Sessions
	SessionBackend       string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL reference data, optional
	PostgresURI string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// AeroDataBox
	AeroDataBoxAPIKey  string
	AeroDataBoxBaseURL string
	AeroDataBoxHost    string
	ProviderTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:    getEnv("APP_VERSION", "1.0.0"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		SessionBackend:       strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		SessionTTL:           getEnvAsDuration("SESSION_TTL", time.Hour),
		SessionSweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flightstatus"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		AeroDataBoxAPIKey:  getEnv("AERODATABOX_API_KEY", ""),
		AeroDataBoxBaseURL: getEnv("AERODATABOX_BASE_URL", "https://aerodatabox.p.rapidapi.com"),
		AeroDataBoxHost:    getEnv("AERODATABOX_HOST", ""),
		ProviderTimeout:    getEnvAsDuration("PROVIDER_TIMEOUT", 15*time.Second),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendMongo:
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90m") or plain seconds ("3600")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
