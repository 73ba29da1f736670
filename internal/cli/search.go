package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pasperfection/checklist/internal/search"
)

func newSearchCmd(app *App) *cobra.Command {
	var showIDs bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the checklist",
		Long: `Search matches item labels and notes. Filter tokens narrow the result:
priority:high, status:done, tag:backend, due:overdue, due:today and
due:week all combine with plain terms.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			query := search.Parse(strings.Join(args, " "))
			now := time.Now()
			items := search.Filter(rt.store.Items(), query, now)
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d item(s):\n", search.MatchCount(items, query, now))
			printTree(cmd, items, 0, showIDs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show item ids")
	return cmd
}
