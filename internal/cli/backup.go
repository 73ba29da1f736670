package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list and restore checklist backups",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Snapshot the current checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			meta, err := rt.backups.Create(rt.store.Items())
			if err != nil {
				return err
			}
			rt.tracker.Track("backup_created", nil)
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%d item(s))\n", meta.File, meta.ItemCount)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			backups, err := rt.backups.List()
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no backups yet")
				return nil
			}
			for _, b := range backups {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d item(s)\n",
					b.Timestamp.Local().Format("2006-01-02 15:04:05"), b.File, b.ItemCount)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the checklist with a backup's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			items, err := rt.backups.Restore(args[0])
			if err != nil {
				return err
			}
			rt.store.ReplaceAll(items)
			rt.persist()
			rt.tracker.Track("backup_restored", nil)
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d item(s) from %s\n", rt.store.Len(), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Bundle all backups into a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.backups.Export(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported backups to %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Restore backups from an exported bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.backups.Import(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported backups from %s\n", args[0])
			return nil
		},
	})

	return cmd
}
