package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pasperfection/checklist/internal/stats"
)

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			now := time.Now()
			st := stats.Compute(rt.store.Items(), now, rt.dueSoonHorizon())
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Progress: %s\n", stats.Progress(st))
			fmt.Fprintf(out, "Items:    %d total, %d completed, %d overdue, %d due soon\n",
				st.Total, st.Completed, st.Overdue, st.DueSoon)

			var parts []string
			for _, bucket := range []struct {
				name  string
				count int
			}{
				{"high", st.ByPriority.High},
				{"medium", st.ByPriority.Medium},
				{"low", st.ByPriority.Low},
				{"unset", st.ByPriority.None},
			} {
				if bucket.count > 0 {
					parts = append(parts, fmt.Sprintf("%d %s", bucket.count, bucket.name))
				}
			}
			if len(parts) > 0 {
				fmt.Fprintf(out, "Priority: %s\n", strings.Join(parts, ", "))
			}

			if len(st.ByTag) > 0 {
				tags := make([]string, 0, len(st.ByTag))
				for tag := range st.ByTag {
					tags = append(tags, tag)
				}
				sort.Strings(tags)
				parts := make([]string, 0, len(tags))
				for _, tag := range tags {
					parts = append(parts, fmt.Sprintf("%s (%d)", tag, st.ByTag[tag]))
				}
				fmt.Fprintf(out, "Tags:     %s\n", strings.Join(parts, ", "))
			}

			if len(st.Trend) > 0 {
				fmt.Fprintln(out, "\nCompletion trend:")
				for _, day := range st.Trend {
					fmt.Fprintf(out, "  %s  %d/%d\n", day.Date, day.Completed, day.Total)
				}
			}
			return nil
		},
	}
}
