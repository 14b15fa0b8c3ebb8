package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/ivanoskov/balance_bot/internal/service"
)

// API - часть tgbotapi.BotAPI, которой пользуется бот
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	GetMe() (tgbotapi.User, error)
}

// Checker проверяет балансы пачки адресов во всех сетях
type Checker interface {
	Check(ctx context.Context, addresses []string, progress service.ProgressFunc) service.Report
	Networks() []model.Network
}

// ChartRenderer рисует график по результатам проверки
type ChartRenderer interface {
	GenerateBalanceChart(results []model.BalanceResult) ([]byte, error)
}

// Options - необязательные зависимости бота
type Options struct {
	// Charts - если nil, график после отчёта не отправляется
	Charts ChartRenderer
}

type Bot struct {
	api          API
	checker      Checker
	conversation *service.Conversation
	charts       ChartRenderer
}

func NewBot(token string, checker Checker, conversation *service.Conversation, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return New(api, checker, conversation, opts), nil
}

func New(api API, checker Checker, conversation *service.Conversation, opts Options) *Bot {
	return &Bot{
		api:          api,
		checker:      checker,
		conversation: conversation,
		charts:       opts.Charts,
	}
}

// Start запускает бота в режиме long polling до отмены контекста
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				// Логируем ошибку, но продолжаем работу
				slog.Error("error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	return b.handleUpdate(ctx, update)
}

// Me возвращает информацию о самом боте
func (b *Bot) Me() (tgbotapi.User, error) {
	return b.api.GetMe()
}

// Networks возвращает поддерживаемые сети
func (b *Bot) Networks() []model.Network {
	return b.checker.Networks()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	message := update.Message
	if message == nil || message.From == nil || message.Chat == nil {
		return nil
	}

	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "help":
		return b.handleHelp(message)
	}

	if message.Text == "" {
		return nil
	}
	return b.handleMessage(ctx, message)
}
