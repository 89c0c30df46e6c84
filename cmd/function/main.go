package main

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ivanoskov/whalevybe_bot/internal/bot"
	"github.com/ivanoskov/whalevybe_bot/internal/config"
	"github.com/ivanoskov/whalevybe_bot/internal/repository"
	"github.com/ivanoskov/whalevybe_bot/internal/service"
	"github.com/ivanoskov/whalevybe_bot/internal/vybe"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

var (
	setupOnce sync.Once
	b         *bot.Bot
	setupErr  error
)

// setup создаёт бота один раз на инстанс функции: состояния диалогов
// живут между вызовами, пока жив инстанс
func setup() {
	cfg, err := config.LoadConfig()
	if err != nil {
		setupErr = err
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		setupErr = err
		return
	}

	repo := repository.NewMemoryRepository()
	tracker := service.NewWalletTracker(repo)
	client := vybe.NewClient(cfg.VybeAPIBase, cfg.VybeAPIKey, logger)

	b, setupErr = bot.NewBot(cfg.TelegramToken, tracker, client, logger)
}

// Handler - точка входа для обработки входящих webhook-обновлений
func Handler(ctx context.Context, request Request) (*Response, error) {
	setupOnce.Do(setup)
	if setupErr != nil {
		return errorResponse(setupErr)
	}

	if err := b.HandleWebhook([]byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
