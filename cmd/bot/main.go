package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/ivanoskov/whalevybe_bot/internal/bot"
	"github.com/ivanoskov/whalevybe_bot/internal/config"
	"github.com/ivanoskov/whalevybe_bot/internal/repository"
	"github.com/ivanoskov/whalevybe_bot/internal/service"
	"github.com/ivanoskov/whalevybe_bot/internal/vybe"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	repo := repository.NewMemoryRepository()
	tracker := service.NewWalletTracker(repo)
	client := vybe.NewClient(cfg.VybeAPIBase, cfg.VybeAPIKey, logger)

	b, err := bot.NewBot(cfg.TelegramToken, tracker, client, logger)
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("starting WhaleVybe polling")
	if err := b.Start(); err != nil {
		log.Fatal(err)
	}
}
