package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/astexai/waitlist-backend/internal/domain/model"
	repo "github.com/astexai/waitlist-backend/internal/domain/repository"
	"github.com/astexai/waitlist-backend/internal/metrics"
	"github.com/astexai/waitlist-backend/internal/notifiers"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Response messages of a successful registration.
const (
	MsgCreated            = "Entry created successfully"
	MsgCreatedEmailFailed = "Entry created successfully but email failed"
)

// WelcomeSender delivers a welcome on one channel. *notifiers.Dispatcher implements it.
type WelcomeSender interface {
	Send(ctx context.Context, channel model.Channel, w model.Welcome) notifiers.Result
}

// RegistrationOutcome is what the API reports after an entry was stored.
type RegistrationOutcome struct {
	Message       string
	EmailError    string
	WhatsAppError string
}

// WhitelistService encapsulates the business logic of the waitlist.
// It validates and stores entries, sends welcomes, and aggregates stats.
type WhitelistService struct {
	store            repo.EntryStore
	sender           WelcomeSender
	validate         *validator.Validate
	metrics          *metrics.Metrics
	whatsAppOnSignup bool
	now              func() time.Time
	logger           zerolog.Logger
}

// Option customises a WhitelistService.
type Option func(*WhitelistService)

// WithClock replaces the clock used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(s *WhitelistService) { s.now = now }
}

// WithWhatsAppOnSignup also sends the WhatsApp welcome during registration.
func WithWhatsAppOnSignup(enabled bool) Option {
	return func(s *WhitelistService) { s.whatsAppOnSignup = enabled }
}

func NewWhitelistService(
	store repo.EntryStore,
	sender WelcomeSender,
	m *metrics.Metrics,
	logger *zerolog.Logger,
	opts ...Option,
) *WhitelistService {
	s := &WhitelistService{
		store:    store,
		sender:   sender,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  m,
		now:      time.Now,
		logger:   logger.With().Str("layer", "service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewWhitelistServiceFromConfig is the constructor used by the fx graph.
func NewWhitelistServiceFromConfig(
	cfg *config.Config,
	store repo.EntryStore,
	dispatcher *notifiers.Dispatcher,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *WhitelistService {
	return NewWhitelistService(store, dispatcher, m, logger, WithWhatsAppOnSignup(cfg.Notifiers.WhatsApp.OnSignup))
}

// Register validates the entry, stores it and sends the welcome email.
// Only validation and storage failures are returned as errors; notification
// failures are reported in the outcome.
func (s *WhitelistService) Register(ctx context.Context, entry *model.WhitelistEntry) (*RegistrationOutcome, error) {
	if err := s.validateEntry(entry); err != nil {
		s.metrics.ObserveSignup(metrics.SignupInvalid)
		s.logger.Warn().Err(err).Str("email", entry.Email).Msg("registration rejected")
		return nil, err
	}

	entry.CreatedAt = s.now().UTC()

	if err := s.store.Append(ctx, entry); err != nil {
		s.metrics.ObserveSignup(metrics.SignupStorageError)
		s.logger.Error().Err(err).Str("email", entry.Email).Msg("failed to store entry")
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}
	s.metrics.ObserveSignup(metrics.SignupStored)
	s.logger.Info().Str("email", entry.Email).Strs("niches", entry.Niches).Msg("entry stored")

	welcome := entry.Welcome()
	outcome := &RegistrationOutcome{Message: MsgCreated}

	if res := s.sender.Send(ctx, model.ChannelEmail, welcome); !res.Success {
		s.logger.Warn().Str("email", entry.Email).Str("error", res.Message).Msg("welcome email failed")
		outcome.Message = MsgCreatedEmailFailed
		outcome.EmailError = res.Message
	}

	if s.whatsAppOnSignup {
		if res := s.sender.Send(ctx, model.ChannelWhatsApp, welcome); !res.Success {
			s.logger.Warn().Str("phone", entry.Phone).Str("error", res.Message).Msg("welcome whatsapp failed")
			outcome.WhatsAppError = res.Message
		}
	}

	if res := s.sender.Send(ctx, model.ChannelTelegram, welcome); !res.Success {
		s.logger.Warn().Str("error", res.Message).Msg("team signup alert failed")
	}

	return outcome, nil
}

func (s *WhitelistService) validateEntry(entry *model.WhitelistEntry) error {
	if err := s.validate.Struct(entry); err != nil {
		return &ValidationError{Message: MsgRequiredFields}
	}
	if entry.HasNiche(model.NicheOther) && (entry.OtherNiche == nil || *entry.OtherNiche == "") {
		return &ValidationError{Message: MsgOtherNiche}
	}
	return nil
}

// ListEntries returns every stored record. Unreadable data yields an empty list.
func (s *WhitelistService) ListEntries(ctx context.Context) ([]model.Record, error) {
	return s.store.Load(ctx)
}

// AdminEntries returns every stored record and fails when the store cannot be read.
func (s *WhitelistService) AdminEntries(ctx context.Context) ([]model.Record, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read entries")
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return records, nil
}

// ComputeStats counts entries, niche occurrences and "Sim"/"Não" recommendations.
func (s *WhitelistService) ComputeStats(ctx context.Context) (*model.Stats, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read entries for stats")
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return Aggregate(records), nil
}

// Aggregate builds the stats of records. Recommend values other than "Sim" and "Não" are ignored.
func Aggregate(records []model.Record) *model.Stats {
	stats := &model.Stats{
		TotalEntries:       len(records),
		NichesDistribution: make(map[string]int),
		Recommendations:    map[string]int{model.RecommendYes: 0, model.RecommendNo: 0},
	}

	for _, r := range records {
		for _, niche := range r.Strings("niches") {
			stats.NichesDistribution[niche]++
		}
		switch rec := r.String("recommend"); rec {
		case model.RecommendYes, model.RecommendNo:
			stats.Recommendations[rec]++
		}
	}
	return stats
}

// Resend sends the welcome again on channel to the most recent entry registered with email.
func (s *WhitelistService) Resend(ctx context.Context, email string, channel model.Channel) (notifiers.Result, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return notifiers.Result{}, fmt.Errorf("failed to read entries: %w", err)
	}

	var found model.Record
	for i := len(records) - 1; i >= 0; i-- {
		if strings.EqualFold(records[i].String("email"), email) {
			found = records[i]
			break
		}
	}
	if found == nil {
		return notifiers.Result{}, fmt.Errorf("%w: %s", ErrEntryNotFound, email)
	}

	w := model.Welcome{
		Name:    found.String("name"),
		Email:   found.String("email"),
		Phone:   found.String("phone"),
		Company: found.String("company"),
		Niches:  found.Strings("niches"),
	}

	s.logger.Info().Str("email", w.Email).Str("channel", string(channel)).Msg("resending welcome")
	return s.sender.Send(ctx, channel, w), nil
}
