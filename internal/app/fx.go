package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/astexai/waitlist-backend/internal/config"
	deliveryHTTP "github.com/astexai/waitlist-backend/internal/delivery/http"
	repo "github.com/astexai/waitlist-backend/internal/domain/repository"
	"github.com/astexai/waitlist-backend/internal/logger"
	"github.com/astexai/waitlist-backend/internal/metrics"
	"github.com/astexai/waitlist-backend/internal/notifiers"
	"github.com/astexai/waitlist-backend/internal/service"
	"github.com/astexai/waitlist-backend/internal/storage/jsonfile"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// CommonModule provides dependencies shared by the API server and the operator CLI.
var CommonModule = fx.Options(
	fx.Provide(
		// Core components
		config.NewConfig,
		logger.NewLogger,
		metrics.NewMetrics,

		// Storage Layer
		fx.Annotate(jsonfile.NewEntryStore, fx.As(new(repo.EntryStore))),

		// Notifications
		notifiers.NewDispatcher,

		// Service Layer
		service.NewWhitelistServiceFromConfig,
	),
)

// APIModule defines the Fx module for the HTTP API application.
var APIModule = fx.Options(
	CommonModule,
	fx.Provide(
		deliveryHTTP.NewHandlers,
		deliveryHTTP.NewServer,
	),

	fx.Invoke(func(server *deliveryHTTP.Server, lc fx.Lifecycle, shutdowner fx.Shutdowner, logger *zerolog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					logger.Info().Str("addr", server.Addr).Msg("http server listening")
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error().Err(err).Msg("http server stopped unexpectedly")
						_ = shutdowner.Shutdown(fx.ExitCode(1))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
		})
	}),
)
