package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/model"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List and apply built-in checklist templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, t := range checklist.Templates() {
				fmt.Fprintf(out, "%s  %s (%d item(s))\n", t.ID, t.Description, model.Count(t.Items))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply <template-id>",
		Short: "Append a template's items to the checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.store.ApplyTemplate(args[0]); err != nil {
				return err
			}
			rt.persist()
			rt.tracker.Track("template_applied", map[string]string{"template": args[0]})
			fmt.Fprintf(cmd.OutOrStdout(), "applied template %s, checklist now has %d item(s)\n", args[0], rt.store.Len())
			return nil
		},
	})

	return cmd
}
