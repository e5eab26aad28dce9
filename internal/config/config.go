package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	// TelegramBotToken is the shared secret the Telegram platform signs
	// initData payloads with. Confidential; never log it.
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// JWTSecret signs the session tokens this service issues. Distinct
	// from the bot token. Confidential; never log it.
	JWTSecret string `env:"JWT_SECRET"`

	// InitDataMaxAge bounds how old a payload's auth_date may be before
	// it is rejected as stale. Zero disables the freshness check.
	InitDataMaxAge time.Duration `env:"INITDATA_MAX_AGE" envDefault:"24h"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if cfg.TelegramBotToken == "" {
		return Config{}, errors.New("config: TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET is required")
	}
	if cfg.DatabaseDSN == "" {
		return Config{}, errors.New("config: DATABASE_DSN is required")
	}

	return cfg, nil
}
