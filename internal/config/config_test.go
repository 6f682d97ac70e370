package config_test

import (
	"testing"
	"time"

	"github.com/sessionauth/go-session-core/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := config.New()

	assert.Equal(t, ":8080", c.GetPort())
	assert.Equal(t, "./data", c.GetDataFolder())
	assert.Empty(t, c.GetRedisAddr())
	assert.Equal(t, 168*time.Hour, c.GetSessionTTL())
	assert.Equal(t, "DEV", c.GetEnv())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_FOLDER", "/var/lib/sessioncore")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_TTL_HOURS", "24")
	t.Setenv("ENV", "PROD")

	c := config.New()

	assert.Equal(t, ":9090", c.GetPort())
	assert.Equal(t, "/var/lib/sessioncore", c.GetDataFolder())
	assert.Equal(t, "localhost:6379", c.GetRedisAddr())
	assert.Equal(t, 24*time.Hour, c.GetSessionTTL())
	assert.Equal(t, "PROD", c.GetEnv())
}

func TestInvalidTTLFallsBackToDefault(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "not-a-number")
	assert.Equal(t, 168*time.Hour, config.New().GetSessionTTL())

	t.Setenv("SESSION_TTL_HOURS", "-5")
	assert.Equal(t, 168*time.Hour, config.New().GetSessionTTL())
}
