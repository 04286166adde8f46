package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration for the service-desk API.
type Config struct {
	Env                 string
	HTTPPort            string
	CORSOrigins         []string
	DefaultAcceptSLA    int // minutes
	DefaultOnsiteSLA    int // minutes
	DefaultCompletedSLA int // minutes
	RateLimitCapacity   int
	RateLimitRefill     float64
	SeedDemoData        bool
}

// Load reads configuration from environment variables with sane defaults for local development.
func Load() Config {
	return Config{
		Env:                 getEnv("APP_ENV", "dev"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		CORSOrigins:         getEnvList("CORS_ORIGINS", []string{"*"}),
		DefaultAcceptSLA:    getEnvInt("DEFAULT_ACCEPT_SLA_MIN", 30),
		DefaultOnsiteSLA:    getEnvInt("DEFAULT_ONSITE_SLA_MIN", 90),
		DefaultCompletedSLA: getEnvInt("DEFAULT_COMPLETED_SLA_MIN", 180),
		RateLimitCapacity:   getEnvInt("RATE_LIMIT_CAPACITY", 50),
		RateLimitRefill:     getEnvFloat("RATE_LIMIT_REFILL_PER_SEC", 20),
		SeedDemoData:        getEnvBool("SEED_DEMO_DATA", true),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
