package notifiers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/astexai/waitlist-backend/internal/metrics"
	"github.com/astexai/waitlist-backend/pkg/retry"
	"github.com/rs/zerolog"
)

const maxResponseBody = 1 << 20

// WhatsAppNotifier sends the welcome as a text message through the WhatsApp Cloud API.
// Failed attempts are retried with exponential backoff.
type WhatsAppNotifier struct {
	client      *http.Client
	endpoint    string
	token       string
	countryCode string
	policy      retry.Policy
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewWhatsAppNotifier creates a new instance of WhatsAppNotifier.
func NewWhatsAppNotifier(cfg config.WhatsAppConfig, logger *zerolog.Logger, m *metrics.Metrics) *WhatsAppNotifier {
	n := &WhatsAppNotifier{
		client:      &http.Client{Timeout: cfg.Timeout},
		endpoint:    strings.TrimRight(cfg.APIURL, "/") + "/" + cfg.PhoneID + "/messages",
		token:       cfg.Token,
		countryCode: cfg.CountryCode,
		metrics:     m,
		logger:      logger.With().Str("component", "whatsapp_notifier").Logger(),
	}

	n.policy = retry.DefaultPolicy()
	if cfg.MaxRetries > 0 {
		n.policy.MaxAttempts = cfg.MaxRetries
	}
	if cfg.InitialDelay > 0 {
		n.policy.InitialDelay = cfg.InitialDelay
	}
	if cfg.Multiplier > 0 {
		n.policy.Multiplier = cfg.Multiplier
	}
	n.policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		n.metrics.ObserveRetry(model.ChannelWhatsApp)
		n.logger.Warn().Err(err).Int("attempt", attempt).Dur("backoff", delay).Msg("whatsapp attempt failed, retrying")
	}

	return n
}

// NormalizePhone keeps only the digits of phone and prefixes countryCode when it is not already there.
func NormalizePhone(phone, countryCode string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r <= unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)

	if digits == "" || strings.HasPrefix(digits, countryCode) {
		return digits
	}
	return countryCode + digits
}

// apiError is a failed attempt; it carries the response so the last one can be reported after retries.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("whatsapp api returned %d: %s", e.StatusCode, e.Body)
}

func (e *apiError) AttemptData() map[string]any {
	return map[string]any{"status_code": e.StatusCode, "body": e.Body}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// Send implements the Notifier interface for WhatsApp.
func (n *WhatsAppNotifier) Send(ctx context.Context, w model.Welcome) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error().Interface("panic", r).Msg("whatsapp send panicked")
			res = failure(fmt.Errorf("whatsapp send panicked: %v", r))
		}
	}()

	to := NormalizePhone(w.Phone, n.countryCode)
	if to == "" {
		n.logger.Warn().Str("phone", w.Phone).Msg("phone number has no digits")
		return failure(errors.New("invalid phone number"))
	}

	text, err := renderText("welcome_whatsapp.txt", w)
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to render whatsapp message")
		return failure(err)
	}

	body, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: text},
	})
	if err != nil {
		return failure(err)
	}

	response, err := retry.Do(ctx, n.policy, func(ctx context.Context, attempt int) (any, error) {
		return n.post(ctx, body)
	})
	if err != nil {
		if exhausted, ok := retry.AsExhausted(err); ok {
			n.logger.Error().
				Err(exhausted.LastErr).
				Int("attempts", exhausted.Attempts).
				Interface("last_attempt_data", exhausted.LastAttemptData).
				Str("to", to).
				Msg("whatsapp send failed after all retries")
			return Result{
				Success: false,
				Message: err.Error(),
				Payload: map[string]any{"attempts": exhausted.Attempts, "last_attempt_data": exhausted.LastAttemptData},
			}
		}
		n.logger.Error().Err(err).Str("to", to).Msg("unexpected whatsapp error")
		return failure(err)
	}

	n.logger.Info().Str("to", to).Msg("whatsapp message sent successfully")
	return Result{
		Success: true,
		Message: "WhatsApp enviado com sucesso",
		Payload: map[string]any{"status": "sent", "response": response},
	}
}

// post performs one attempt and returns the decoded response body.
func (n *WhatsAppNotifier) post(ctx context.Context, body []byte) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &apiError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw), nil
	}
	return decoded, nil
}
