package notifiers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/rs/zerolog"
)

// telegramSender is the part of *tgbotapi.BotAPI the notifier uses.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts a signup alert to the team chat via a Telegram bot.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
	logger zerolog.Logger
}

// NewTelegramNotifier creates a new instance of TelegramNotifier.
func NewTelegramNotifier(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot api: %w", err)
	}
	return newTelegramNotifier(bot, cfg.ChatID, logger), nil
}

func newTelegramNotifier(bot telegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger.With().Str("component", "telegram_notifier").Logger(),
	}
}

// Send implements the Notifier interface for Telegram.
// The alert is plain text so names with markdown characters are sent as-is.
func (n *TelegramNotifier) Send(_ context.Context, w model.Welcome) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error().Interface("panic", r).Msg("telegram send panicked")
			res = failure(fmt.Errorf("telegram send panicked: %v", r))
		}
	}()

	text, err := renderText("signup_alert.txt", w)
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to render signup alert")
		return failure(err)
	}

	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		n.logger.Error().Err(err).Int64("chat_id", n.chatID).Msg("failed to send telegram message")
		return failure(err)
	}

	n.logger.Info().Int64("chat_id", n.chatID).Str("email", w.Email).Msg("telegram message sent successfully")
	return Result{Success: true, Message: "Alerta enviado com sucesso"}
}
