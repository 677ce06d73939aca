package notifiers

import (
	"context"
	"fmt"

	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// mailDialer is the part of *gomail.Dialer the notifier uses.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends the HTML welcome email via an authenticated SMTP session.
// gomail upgrades to TLS with STARTTLS on 587 and uses implicit TLS on 465.
type EmailNotifier struct {
	dialer  mailDialer
	from    string
	subject string
	logger  zerolog.Logger
}

// NewEmailNotifier creates a new instance of EmailNotifier.
func NewEmailNotifier(cfg config.EmailConfig, logger *zerolog.Logger) *EmailNotifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return newEmailNotifier(d, cfg, logger)
}

func newEmailNotifier(d mailDialer, cfg config.EmailConfig, logger *zerolog.Logger) *EmailNotifier {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &EmailNotifier{
		dialer:  d,
		from:    from,
		subject: cfg.Subject,
		logger:  logger.With().Str("component", "email_notifier").Logger(),
	}
}

// Send implements the Notifier interface for email.
func (n *EmailNotifier) Send(_ context.Context, w model.Welcome) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error().Interface("panic", r).Str("recipient", w.Email).Msg("email send panicked")
			res = failure(fmt.Errorf("email send panicked: %v", r))
		}
	}()

	n.logger.Info().Str("recipient", w.Email).Msg("sending welcome email")

	body, err := renderEmail(w)
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to render welcome email")
		return failure(err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", w.Email)
	m.SetHeader("Subject", n.subject)
	m.SetBody("text/html", body)

	// DialAndSend opens a connection, authenticates, sends the email, and closes it.
	if err := n.dialer.DialAndSend(m); err != nil {
		n.logger.Error().Err(err).Str("recipient", w.Email).Msg("failed to send email")
		return failure(err)
	}

	n.logger.Info().Str("recipient", w.Email).Msg("email sent successfully")
	return Result{Success: true, Message: "Email enviado com sucesso"}
}
