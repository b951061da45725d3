package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	JWTSecret string

	MinIOEndpoint       string
	MinIOPublicEndpoint string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOBucket         string
	MinIOUseSSL         bool
	MinIOPublicUseSSL   bool

	ExpoAccessToken string

	ResendAPIKey string
	FromEmail    string

	// IdentitySealKey is the hex-encoded 32-byte key sealing identity numbers
	// at rest.
	IdentitySealKey string

	QueueGroup       string
	QueueMaxAttempts int
	QueueBackoffBase time.Duration
	QueueClaimEvery  time.Duration
	MediaWorkers     int
	NotifyWorkers    int

	CORSOrigins string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOPublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:         getEnv("MINIO_BUCKET", "lapor-media"),
		MinIOUseSSL:         getBoolEnv("MINIO_USE_SSL", false),
		MinIOPublicUseSSL:   getBoolEnv("MINIO_PUBLIC_USE_SSL", true),

		ExpoAccessToken: getEnv("EXPO_ACCESS_TOKEN", ""),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),

		IdentitySealKey: getEnv("IDENTITY_SEAL_KEY", ""),

		QueueGroup:       getEnv("QUEUE_GROUP", "workers"),
		QueueMaxAttempts: getIntEnv("QUEUE_MAX_ATTEMPTS", 5),
		QueueBackoffBase: getDurationEnv("QUEUE_BACKOFF_BASE", 15*time.Second),
		QueueClaimEvery:  getDurationEnv("QUEUE_CLAIM_EVERY", 10*time.Second),
		MediaWorkers:     getIntEnv("MEDIA_WORKERS", 4),
		NotifyWorkers:    getIntEnv("NOTIFY_WORKERS", 4),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
