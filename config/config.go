package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Checkout CheckoutConfig
	Session  SessionConfig
	Support  SupportConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// RedisConfig holds Redis connection settings for the session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// UpstreamConfig points at the courses API this front end consumes.
type UpstreamConfig struct {
	BaseURL        string // e.g. http://127.0.0.1:8000/api/v1
	RequestTimeout int    // seconds
}

// CheckoutConfig holds hosted checkout gateway settings.
type CheckoutConfig struct {
	Mode          string // sandbox or production
	PublicBaseURL string // our own externally reachable base, used for return URLs
}

// SessionConfig holds visitor session cookie settings.
type SessionConfig struct {
	CookieName string
	TTLMinutes int
}

// SupportConfig holds the address shown on the payment failure page.
type SupportConfig struct {
	Email string
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "3000"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Upstream: UpstreamConfig{
			BaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8000/api/v1"), "/"),
			RequestTimeout: getEnvInt("API_TIMEOUT_SEC", 15),
		},
		Checkout: CheckoutConfig{
			Mode:          getEnv("CHECKOUT_MODE", "sandbox"),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "nexloop_sid"),
			TTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 120),
		},
		Support: SupportConfig{
			Email: getEnv("SUPPORT_EMAIL", "support@nexloop.com"),
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
