package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sukalov/karaokedesk/internal/utils"
)

type Config struct {
	ProjectID string
	HTTPAddr  string

	RedisURL      string
	RedisPassword string

	TursoURL   string
	TursoToken string

	BotToken       string
	LogChannelID   int64
	AdminUsernames []string

	RedirectCountdown time.Duration
	ImportSelector    string
}

// Load reads the configuration from the environment (and .env, if present)
func Load() (*Config, error) {
	env, err := utils.LoadEnv([]string{"FIREBASE_PROJECT_ID"})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := &Config{
		ProjectID:      env["FIREBASE_PROJECT_ID"],
		HTTPAddr:       utils.GetEnv("HTTP_ADDR", ":8080"),
		RedisURL:       utils.GetEnv("REDIS_URL", ""),
		RedisPassword:  utils.GetEnv("REDIS_PASSWORD", ""),
		TursoURL:       utils.GetEnv("TURSO_DATABASE_URL", ""),
		TursoToken:     utils.GetEnv("TURSO_AUTH_TOKEN", ""),
		BotToken:       utils.GetEnv("BOT_TOKEN", ""),
		AdminUsernames: utils.SplitList(utils.GetEnv("ADMIN_USERNAMES", "")),
		ImportSelector: utils.GetEnv("IMPORT_SELECTOR", "pre"),
	}

	if raw := utils.GetEnv("LOG_CHANNEL_ID", ""); raw != "" {
		cfg.LogChannelID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
		}
	}

	seconds, err := strconv.Atoi(utils.GetEnv("REDIRECT_COUNTDOWN", "3"))
	if err != nil || seconds < 0 {
		return nil, fmt.Errorf("invalid REDIRECT_COUNTDOWN: %q", utils.GetEnv("REDIRECT_COUNTDOWN", ""))
	}
	cfg.RedirectCountdown = time.Duration(seconds) * time.Second

	return cfg, nil
}

func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

func (c *Config) AuditEnabled() bool {
	return c.TursoURL != ""
}

func (c *Config) BotEnabled() bool {
	return c.BotToken != ""
}
