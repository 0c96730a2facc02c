package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("HUB_TEST_INT", "42")
	t.Setenv("HUB_TEST_BAD_INT", "forty")
	t.Setenv("HUB_TEST_BOOL", "false")
	t.Setenv("HUB_TEST_DURATION", "90s")
	t.Setenv("HUB_TEST_BAD_DURATION", "soon")

	assert.Equal(t, 42, envInt("HUB_TEST_INT", 1))
	assert.Equal(t, 1, envInt("HUB_TEST_BAD_INT", 1))
	assert.Equal(t, 7, envInt("HUB_TEST_MISSING", 7))
	assert.False(t, envBool("HUB_TEST_BOOL", true))
	assert.Equal(t, 90*time.Second, envDuration("HUB_TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, envDuration("HUB_TEST_BAD_DURATION", time.Minute))
	assert.Equal(t, "fallback", envString("HUB_TEST_MISSING", "fallback"))
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.Local, (&Config{Timezone: "Local"}).Location())
	assert.Equal(t, time.Local, (&Config{Timezone: "Not/AZone"}).Location())
	assert.Equal(t, "Europe/Berlin", (&Config{Timezone: "Europe/Berlin"}).Location().String())
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg := &Config{AppName: "Hub", JWTSecret: "secret", S3SecretKey: "key", SentryDSN: "dsn"}
	safe := cfg.Sanitized()
	assert.Equal(t, "Hub", safe.AppName)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.S3SecretKey)
	assert.Empty(t, safe.SentryDSN)
}
