package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FIREBASE_PROJECT_ID", "karaoke-test")
	for _, key := range []string{
		"HTTP_ADDR", "REDIS_URL", "REDIS_PASSWORD", "TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN",
		"BOT_TOKEN", "LOG_CHANNEL_ID", "ADMIN_USERNAMES", "REDIRECT_COUNTDOWN", "IMPORT_SELECTOR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "karaoke-test", cfg.ProjectID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.RedirectCountdown)
	assert.Equal(t, "pre", cfg.ImportSelector)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.AuditEnabled())
	assert.False(t, cfg.BotEnabled())
	assert.Empty(t, cfg.AdminUsernames)
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("REDIS_URL", "cache.example:6379")
	t.Setenv("LOG_CHANNEL_ID", "-100123")
	t.Setenv("ADMIN_USERNAMES", "alice, bob")
	t.Setenv("REDIRECT_COUNTDOWN", "5")
	t.Setenv("BOT_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.BotEnabled())
	assert.Equal(t, int64(-100123), cfg.LogChannelID)
	assert.Equal(t, []string{"alice", "bob"}, cfg.AdminUsernames)
	assert.Equal(t, 5*time.Second, cfg.RedirectCountdown)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing project", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("FIREBASE_PROJECT_ID", "")

		_, err := Load()
		assert.ErrorContains(t, err, "FIREBASE_PROJECT_ID")
	})

	t.Run("bad channel id", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("LOG_CHANNEL_ID", "channel")

		_, err := Load()
		assert.ErrorContains(t, err, "LOG_CHANNEL_ID")
	})

	t.Run("bad countdown", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("REDIRECT_COUNTDOWN", "-1")

		_, err := Load()
		assert.ErrorContains(t, err, "REDIRECT_COUNTDOWN")
	})
}
