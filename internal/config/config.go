package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "pairhouse-dev-secret"

type Config struct {
	Env       string
	Port      string
	DBPath    string
	BaseURL   string
	LogLevel  string
	LogFormat string

	JWTSecret string
	TokenTTL  time.Duration

	PostmarkToken string
	FromEmail     string

	KinopoiskAPIKey string

	// AllowedOrigins are host patterns accepted for websocket upgrades.
	AllowedOrigins []string
	// LoginRateLimit is the number of login/register attempts per minute
	// allowed from one address.
	LoginRateLimit int
}

// Load reads an optional .env file, then the PAIRHOUSE_* environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Env:            getEnv("PAIRHOUSE_ENV", "development"),
		Port:           getEnv("PAIRHOUSE_PORT", "8080"),
		DBPath:         getEnv("PAIRHOUSE_DB_PATH", "pairhouse.db"),
		LogLevel:       getEnv("PAIRHOUSE_LOG_LEVEL", "info"),
		LogFormat:      getEnv("PAIRHOUSE_LOG_FORMAT", "tint"),
		JWTSecret:      getEnv("PAIRHOUSE_JWT_SECRET", ""),
		TokenTTL:       getEnvAsDuration("PAIRHOUSE_TOKEN_TTL", 24*time.Hour),
		PostmarkToken:  getEnv("PAIRHOUSE_POSTMARK_TOKEN", ""),
		FromEmail:      getEnv("PAIRHOUSE_FROM_EMAIL", "noreply@pairhouse.local"),
		AllowedOrigins: getEnvAsList("PAIRHOUSE_ALLOWED_ORIGINS"),
		LoginRateLimit: getEnvAsInt("PAIRHOUSE_LOGIN_RATE_LIMIT", 10),
	}
	cfg.BaseURL = getEnv("PAIRHOUSE_BASE_URL", "http://localhost:"+cfg.Port)
	cfg.KinopoiskAPIKey = getEnv("PAIRHOUSE_KINOPOISK_API_KEY", "")

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("PAIRHOUSE_JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("PAIRHOUSE_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
