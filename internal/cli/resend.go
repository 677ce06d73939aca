package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/astexai/waitlist-backend/internal/service"
	"github.com/spf13/cobra"
)

var resendChannels = []string{
	string(model.ChannelEmail),
	string(model.ChannelWhatsApp),
	string(model.ChannelTelegram),
}

// ResendResult is the outcome of a resend as printed by the command.
type ResendResult struct {
	Email   string `json:"email"`
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewResendCommand creates the resend command.
func NewResendCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		email   string
		channel string
	)

	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Send the welcome message again",
		Long: `Send the welcome message again to the most recent entry registered
with the given email. The lookup ignores case.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(resendChannels, channel) {
				return fmt.Errorf("invalid channel %q: must be one of %v", channel, resendChannels)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return withService(cmd, rootOpts, func(ctx context.Context, svc *service.WhitelistService) error {
				res, err := svc.Resend(ctx, email, model.Channel(channel))
				if err != nil {
					return out.Failure(err)
				}
				if !res.Success {
					return out.Failure(fmt.Errorf("send via %s failed: %s", channel, res.Message))
				}

				result := ResendResult{Email: email, Channel: channel, Success: true, Message: res.Message}
				return out.Success(result, func(w io.Writer) {
					fmt.Fprintf(w, "Welcome sent to %s via %s: %s\n", email, channel, res.Message)
				})
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the registered entry")
	cmd.Flags().StringVar(&channel, "channel", string(model.ChannelEmail), "channel to send on (email|whatsapp|telegram)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
