package cli

import (
	"github.com/astexai/waitlist-backend/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// NewServeCommand creates the serve command, which runs the HTTP API until interrupted.
func NewServeCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the waitlist HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fx.New(app.APIModule).Run()
			return nil
		},
	}
}
