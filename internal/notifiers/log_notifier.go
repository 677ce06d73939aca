package notifiers

import (
	"context"

	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/rs/zerolog"
)

// LogNotifier is a stand-in notifier that implements the Notifier interface.
// It logs the welcome instead of sending it, so the API runs without SMTP or WhatsApp credentials.
type LogNotifier struct {
	channel model.Channel
	logger  zerolog.Logger
}

// NewLogNotifier creates a new instance of LogNotifier for one channel.
func NewLogNotifier(channel model.Channel, logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{
		channel: channel,
		logger:  logger.With().Str("component", "log_notifier").Logger(),
	}
}

// Send implements the Notifier interface.
func (n *LogNotifier) Send(_ context.Context, w model.Welcome) Result {
	recipient := w.Email
	if n.channel == model.ChannelWhatsApp {
		recipient = w.Phone
	}

	n.logger.Info().
		Str("channel", string(n.channel)).
		Str("recipient", recipient).
		Str("name", w.Name).
		Msg(">>> MOCK SEND: welcome dispatched")

	return Result{Success: true, Message: "logged"}
}
