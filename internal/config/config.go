package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	VybeAPIKey    string
	VybeAPIBase   string
}

func LoadConfig() (*Config, error) {
	// .env может отсутствовать в продакшене, тогда переменные придут из окружения
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		VybeAPIKey:    os.Getenv("VYBE_API_KEY"),
		VybeAPIBase:   os.Getenv("VYBE_API_BASE"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	if cfg.VybeAPIKey == "" {
		return nil, fmt.Errorf("VYBE_API_KEY is not set")
	}

	return cfg, nil
}
