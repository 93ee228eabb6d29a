package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	HTTPPort int

	// Database configuration (metadata store)
	DatabaseHost     string
	DatabasePort     int
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration (sample store)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Store read retry tuning
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration

	// Orphan sweep
	SweepInterval time.Duration
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvInt("DB_PORT", 5432),
		DatabaseName:     getEnvOrDefault("DB_NAME", "signal_studio"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "signal_studio"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "signal_studio"),

		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		RetryMaxAttempts:  getEnvInt("STORE_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: getEnvDuration("STORE_RETRY_INITIAL_DELAY", 100*time.Millisecond),

		SweepInterval: getEnvDuration("ORPHAN_SWEEP_INTERVAL", 5*time.Minute),
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("⚠️  Invalid integer for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as duration or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Printf("⚠️  Invalid duration for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}
