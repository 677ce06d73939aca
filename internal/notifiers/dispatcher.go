package notifiers

import (
	"context"
	"fmt"

	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/astexai/waitlist-backend/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	modeProduction = "production"
	modeLogOnly    = "log_only"
)

// Dispatcher is a composite notifier that routes a welcome to the channel-specific notifier.
type Dispatcher struct {
	notifiers map[model.Channel]Notifier
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewDispatcher creates a new Dispatcher and initializes channel-specific notifiers
// based on the application's configuration mode.
//
// In "production" mode every channel with credentials sends for real. Email and WhatsApp
// without credentials report a failure on every send, so a misconfigured deployment shows up
// as email_error instead of passing silently. The team alert falls back to the LogNotifier.
func NewDispatcher(cfg *config.Config, logger *zerolog.Logger, m *metrics.Metrics) (*Dispatcher, error) {
	log := logger.With().Str("component", "dispatcher").Logger()
	log.Info().Str("mode", cfg.Notifiers.Mode).Msg("initializing notifiers")

	notifiersMap := make(map[model.Channel]Notifier)

	switch cfg.Notifiers.Mode {
	case modeLogOnly:
		for _, ch := range []model.Channel{model.ChannelEmail, model.ChannelWhatsApp, model.ChannelTelegram} {
			notifiersMap[ch] = NewLogNotifier(ch, logger)
		}
		return newDispatcher(notifiersMap, m, logger), nil
	case modeProduction, "":
	default:
		return nil, fmt.Errorf("unknown notifiers mode %q", cfg.Notifiers.Mode)
	}

	if cfg.Notifiers.Email.Username != "" {
		notifiersMap[model.ChannelEmail] = NewEmailNotifier(cfg.Notifiers.Email, logger)
		log.Info().Str("host", cfg.Notifiers.Email.Host).Msg("email notifier enabled")
	} else {
		notifiersMap[model.ChannelEmail] = unconfigured{channel: model.ChannelEmail}
		log.Warn().Msg("email credentials missing, welcome emails will fail")
	}

	if cfg.Notifiers.WhatsApp.Token != "" && cfg.Notifiers.WhatsApp.PhoneID != "" {
		notifiersMap[model.ChannelWhatsApp] = NewWhatsAppNotifier(cfg.Notifiers.WhatsApp, logger, m)
		log.Info().Msg("whatsapp notifier enabled")
	} else {
		notifiersMap[model.ChannelWhatsApp] = unconfigured{channel: model.ChannelWhatsApp}
		log.Warn().Msg("whatsapp credentials missing, whatsapp sends will fail")
	}

	if cfg.Notifiers.Telegram.BotToken != "" && cfg.Notifiers.Telegram.ChatID != 0 {
		tgNotifier, err := NewTelegramNotifier(cfg.Notifiers.Telegram, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
		}
		notifiersMap[model.ChannelTelegram] = tgNotifier
		log.Info().Msg("telegram notifier enabled")
	} else {
		notifiersMap[model.ChannelTelegram] = NewLogNotifier(model.ChannelTelegram, logger)
	}

	return newDispatcher(notifiersMap, m, logger), nil
}

// unconfigured stands in for a channel whose credentials are missing.
type unconfigured struct {
	channel model.Channel
}

func (u unconfigured) Send(context.Context, model.Welcome) Result {
	return Result{Success: false, Message: fmt.Sprintf("%s not configured", u.channel)}
}

func newDispatcher(notifiers map[model.Channel]Notifier, m *metrics.Metrics, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifiers: notifiers,
		metrics:   m,
		logger:    logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Send finds the notifier for channel and delegates to it.
func (d *Dispatcher) Send(ctx context.Context, channel model.Channel, w model.Welcome) Result {
	notifier, ok := d.notifiers[channel]
	if !ok {
		d.logger.Error().Str("channel", string(channel)).Msg("no notifier found for channel")
		return failure(fmt.Errorf("notifier for channel %s not found", channel))
	}

	res := notifier.Send(ctx, w)
	d.metrics.ObserveNotification(channel, res.Success)
	return res
}
