package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/astexai/waitlist-backend/internal/service"
	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show entry counts per niche and recommendation",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return withService(cmd, rootOpts, func(ctx context.Context, svc *service.WhitelistService) error {
				stats, err := svc.ComputeStats(ctx)
				if err != nil {
					return out.Failure(err)
				}
				return out.Success(stats, func(w io.Writer) { printStats(w, stats) })
			})
		},
	}
}

func printStats(w io.Writer, stats *model.Stats) {
	fmt.Fprintf(w, "Total entries: %d\n", stats.TotalEntries)

	fmt.Fprintln(w, "Niches:")
	for _, niche := range slices.Sorted(maps.Keys(stats.NichesDistribution)) {
		fmt.Fprintf(w, "  %s: %d\n", niche, stats.NichesDistribution[niche])
	}

	fmt.Fprintln(w, "Recommendations:")
	for _, answer := range []string{model.RecommendYes, model.RecommendNo} {
		fmt.Fprintf(w, "  %s: %d\n", answer, stats.Recommendations[answer])
	}
}
