package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")

	cfg := Load()

	assert.Equal(t, "./data/revenda.db", cfg.DatabasePath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, float64(10), cfg.RateLimitRPS)
	assert.Equal(t, 30, cfg.RateLimitBurst)
}

func TestLoadRateLimitOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "5")

	cfg := Load()

	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
}

func TestLoadRateLimitRejectsInvalidValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("RATE_LIMIT_BURST", "-3")

	cfg := Load()

	assert.Equal(t, float64(10), cfg.RateLimitRPS)
	assert.Equal(t, 30, cfg.RateLimitBurst)
}
