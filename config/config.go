package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string `env:"SERVER_PORT" envDefault:"3000"`
	GlobalApiKey string `env:"GLOBAL_API_KEY"`
	BodyLimitMB  int    `env:"BODY_LIMIT_MB" envDefault:"50"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	SessionDBPath string        `env:"SESSION_DB_PATH" envDefault:"sessions/whatsapp.db"`
	CallTimeout   time.Duration `env:"WA_CALL_TIMEOUT" envDefault:"60s"`
	QRTerminal    bool          `env:"QR_TERMINAL" envDefault:"true"`

	TasksDBPath string `env:"TASKS_DB_PATH" envDefault:"data/tasks.db"`

	// Campaign groups always get this picture. whatsmeow only accepts JPEG.
	CampaignPhotoPath   string        `env:"CAMPAIGN_PHOTO_PATH" envDefault:"assets/campaign.jpg"`
	CampaignSettleDelay time.Duration `env:"CAMPAIGN_SETTLE_DELAY" envDefault:"5s"`
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BodyLimitMB <= 0 {
		return nil, fmt.Errorf("BODY_LIMIT_MB must be positive, got %d", cfg.BodyLimitMB)
	}
	if cfg.CampaignSettleDelay < 0 {
		return nil, fmt.Errorf("CAMPAIGN_SETTLE_DELAY must not be negative")
	}
	return cfg, nil
}
