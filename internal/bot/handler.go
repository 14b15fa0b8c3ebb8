package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/ivanoskov/balance_bot/internal/service"
)

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	if err := b.conversation.Start(ctx, message.From.ID); err != nil {
		slog.Error("start failed", "user_id", message.From.ID, "error", err)
		b.sendErrorMessage(message.Chat.ID, processingErrorText)
		return nil
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText(b.checker.Networks()))
	msg.ReplyToMessageID = message.MessageID
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = b.getMainKeyboard()
	b.send(slog.Default(), msg)
	return nil
}

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, helpText(b.checker.Networks()))
	msg.ReplyToMessageID = message.MessageID
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(slog.Default(), msg)
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	logger := slog.With(
		"request_id", uuid.NewString(),
		"user_id", message.From.ID,
		"chat_id", message.Chat.ID,
	)

	accepts, err := b.conversation.Accepts(ctx, message.From.ID)
	if err != nil {
		logger.Error("failed to read conversation state", "error", err)
		b.sendErrorMessage(message.Chat.ID, processingErrorText)
		return nil
	}
	if !accepts {
		b.reply(logger, message, startFirstText)
		return nil
	}

	addresses := model.ParseAddresses(message.Text)
	if len(addresses) == 0 {
		logger.Info("no valid addresses in message")
		b.reply(logger, message, invalidAddressesText)
		return nil
	}

	processing, ok := b.reply(logger, message, fmt.Sprintf("🔍 Processing %d address(es)...", len(addresses)))
	if !ok {
		return nil
	}

	logger.Info("checking balances", "addresses", len(addresses))
	b.processAddresses(ctx, logger, message, processing.MessageID, addresses)
	return nil
}

// processAddresses не возвращает ошибок: любой сбой сообщается пользователю,
// а состояние диалога остаётся пригодным для повторной попытки
func (b *Bot) processAddresses(ctx context.Context, logger *slog.Logger, message *tgbotapi.Message, processingID int, addresses []string) {
	chatID := message.Chat.ID
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while processing addresses", "panic", r)
			b.sendFailure(chatID, processingID)
		}
	}()

	report := b.checker.Check(ctx, addresses, func(current, total int) {
		if total <= 1 {
			return
		}
		progress := tgbotapi.NewEditMessageText(chatID, processingID, fmt.Sprintf("🔍 Processing address %d/%d...", current, total))
		if _, err := b.api.Send(progress); err != nil {
			logger.Debug("progress update failed", "error", err)
		}
	})
	logger.Info("balances checked",
		"requested", report.Requested,
		"results", len(report.Results),
		"failed", len(report.Failed),
	)

	edit := tgbotapi.NewEditMessageText(chatID, processingID, service.FormatReport(report))
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		logger.Error("failed to send report", "error", err)
		b.sendFailure(chatID, processingID)
		return
	}

	if err := b.conversation.Reset(ctx, message.From.ID); err != nil {
		logger.Error("failed to reset conversation", "error", err)
		b.sendFailure(chatID, processingID)
		return
	}

	b.sendChart(logger, chatID, report.Results)

	b.send(logger, tgbotapi.NewMessage(chatID, checkMoreText))
}

func (b *Bot) sendChart(logger *slog.Logger, chatID int64, results []model.BalanceResult) {
	if b.charts == nil || len(results) == 0 {
		return
	}
	png, err := b.charts.GenerateBalanceChart(results)
	if err != nil {
		logger.Warn("failed to render chart", "error", err)
		return
	}
	if len(png) == 0 {
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "balances.png", Bytes: png})
	if _, err := b.api.Send(photo); err != nil {
		logger.Warn("failed to send chart", "error", err)
	}
}

// sendFailure заменяет сообщение о прогрессе текстом ошибки, а если это не удалось - отправляет новое
func (b *Bot) sendFailure(chatID int64, processingID int) {
	edit := tgbotapi.NewEditMessageText(chatID, processingID, processingErrorText)
	if _, err := b.api.Send(edit); err != nil {
		b.sendErrorMessage(chatID, processingErrorText)
	}
}

func (b *Bot) reply(logger *slog.Logger, message *tgbotapi.Message, text string) (tgbotapi.Message, bool) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	return b.send(logger, msg)
}

// send логирует ошибки Telegram и не возвращает их
func (b *Bot) send(logger *slog.Logger, c tgbotapi.Chattable) (tgbotapi.Message, bool) {
	sent, err := b.api.Send(c)
	if err != nil {
		logger.Warn("failed to send message", "error", err)
		return sent, false
	}
	return sent, true
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Error("failed to send error message", "chat_id", chatID, "error", err)
	}
}
