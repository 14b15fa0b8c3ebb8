package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/ivanoskov/balance_bot/internal/app"
	"github.com/ivanoskov/balance_bot/internal/bot"
	"github.com/ivanoskov/balance_bot/internal/config"
	"github.com/ivanoskov/balance_bot/internal/logging"
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
	initOnce    sync.Once
	instance    *bot.Bot
	instanceErr error
)

// getBot собирает бота один раз на весь жизненный цикл инстанса функции
func getBot(ctx context.Context) (*bot.Bot, error) {
	initOnce.Do(func() {
		cfg, err := config.LoadConfig()
		if err != nil {
			instanceErr = err
			return
		}
		logging.Init(cfg.LogLevel, os.Stderr)

		a, err := app.New(ctx, cfg)
		if err != nil {
			instanceErr = err
			return
		}
		instance, instanceErr = a.NewBot(ctx)
	})
	return instance, instanceErr
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	if request.Body == "" {
		return jsonResponse(400, map[string]any{"error": "No data received", "ok": false})
	}

	b, err := getBot(ctx)
	if err != nil {
		slog.Error("bot initialization failed", "error", err)
		return errorResponse(err)
	}

	// Обработка webhook-обновления
	if err := b.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		slog.Error("error processing webhook", "error", err)
		return errorResponse(err)
	}

	return jsonResponse(200, map[string]any{"ok": true, "status": "processed"})
}

func errorResponse(err error) (*Response, error) {
	return jsonResponse(500, map[string]any{"error": err.Error(), "ok": false})
}

func jsonResponse(status int, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: status,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
