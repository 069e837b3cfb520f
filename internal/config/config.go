package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the background jobs binary.
type Config struct {
	DatabaseURL      string
	TelegramToken    string // optional delivery channel
	ReminderInterval time.Duration
	RollupTime       string // HH:MM, local time of the daily analytics rollup
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramToken:    strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		ReminderInterval: parseMinutes(strings.TrimSpace(os.Getenv("REMINDER_INTERVAL_MINUTES"))),
		RollupTime:       strings.TrimSpace(os.Getenv("ROLLUP_TIME")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskmaster.db"
	}

	if cfg.ReminderInterval == 0 {
		cfg.ReminderInterval = 15 * time.Minute
	}

	if cfg.RollupTime == "" {
		cfg.RollupTime = "00:05"
	}

	return cfg, nil
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
