package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/astexai/waitlist-backend/internal/service"
	"github.com/spf13/cobra"
)

// NewEntriesCommand creates the entries command.
func NewEntriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "entries",
		Short:         "List stored entries",
		Long:          "List stored entries in registration order. Fails when the entry file is unreadable.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return withService(cmd, rootOpts, func(ctx context.Context, svc *service.WhitelistService) error {
				records, err := svc.AdminEntries(ctx)
				if err != nil {
					return out.Failure(err)
				}
				if records == nil {
					records = []model.Record{}
				}
				return out.Success(records, func(w io.Writer) { printEntries(w, records) })
			})
		},
	}
}

func printEntries(w io.Writer, records []model.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No entries.")
		return
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s  %s <%s>  %s  [%s]\n",
			r.String("created_at"),
			r.String("name"),
			r.String("email"),
			r.String("company"),
			strings.Join(r.Strings("niches"), ", "),
		)
	}
}
