package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	HTTPPort        string
	CatalogBaseURL  string
	PaymentBaseURL  string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Payment confirmation polling cadence.
	PollInterval time.Duration
	MaxAttempts  int
}

func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CatalogBaseURL:  getEnv("CATALOG_BASE_URL", "http://127.0.0.1:8000/api/"),
		PaymentBaseURL:  getEnv("PAYMENT_BASE_URL", "http://127.0.0.1:8000/api/"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		PollInterval:    getEnvDuration("STK_POLL_INTERVAL", 3*time.Second),
		MaxAttempts:     getEnvInt("STK_MAX_ATTEMPTS", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
