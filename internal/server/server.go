package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ivanoskov/balance_bot/internal/model"
)

const shutdownTimeout = 10 * time.Second

// Handler - часть бота, нужная HTTP-слою
type Handler interface {
	HandleWebhook(ctx context.Context, body []byte) error
	Me() (tgbotapi.User, error)
	Networks() []model.Network
}

type Server struct {
	app       *fiber.App
	handler   Handler
	publicURL string
}

// New собирает fiber-приложение с маршрутами webhook, статуса и дашборда
func New(handler Handler, publicURL string) *Server {
	s := &Server{
		handler:   handler,
		publicURL: publicURL,
		app: fiber.New(fiber.Config{
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
			DisableStartupMessage: true,
		}),
	}

	s.app.Use(recover.New())
	s.app.Use(requestLogger)

	s.app.Get("/", s.dashboard)
	s.app.Get("/healthz", health)

	api := s.app.Group("/api")
	api.Post("/webhook", s.webhook)
	api.Get("/webhook", s.status)

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

// ListenAndServe обслуживает запросы до отмены контекста, затем корректно останавливается
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("http server stopped")
	return nil
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	slog.Debug("http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
