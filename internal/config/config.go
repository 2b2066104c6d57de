package config

import (
	"os"
	"strconv"
)

type Config struct {
	DatabasePath   string
	Port           string
	Environment    string
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		DatabasePath:   getEnv("DATABASE_PATH", "./data/revenda.db"),
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("GIN_MODE", "debug"),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
