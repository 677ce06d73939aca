package cli

import (
	"context"

	"github.com/astexai/waitlist-backend/internal/app"
	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/astexai/waitlist-backend/internal/logger"
	"github.com/astexai/waitlist-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// withService builds the shared dependency graph and runs fn with the waitlist service.
// Logs go to stderr, at debug level with --verbose and warn level otherwise.
func withService(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, svc *service.WhitelistService) error) error {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}

	var svc *service.WhitelistService
	fxApp := fx.New(
		app.CommonModule,
		fx.NopLogger,
		fx.Decorate(func(cfg *config.Config) *zerolog.Logger {
			return logger.New(config.LoggerConfig{Level: level, Format: cfg.Logger.Format}, cmd.ErrOrStderr())
		}),
		fx.Populate(&svc),
	)
	if err := fxApp.Err(); err != nil {
		return err
	}

	return fn(cmd.Context(), svc)
}
