package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pasperfection/checklist/internal/model"
	"github.com/pasperfection/checklist/internal/theme"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and bootstrap the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigPath
			if path == "" {
				path = model.DefaultConfigPath()
			}
			cfg, err := model.LoadConfig(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config file:       %s\n", path)
			fmt.Fprintf(out, "default_priority:  %s\n", cfg.DefaultPriority)
			fmt.Fprintf(out, "auto_save:         %t\n", cfg.AutoSave)
			fmt.Fprintf(out, "auto_backup:       %t\n", cfg.AutoBackup)
			fmt.Fprintf(out, "scan_on_startup:   %t\n", cfg.ScanOnStartup)
			fmt.Fprintf(out, "analytics_enabled: %t\n", cfg.AnalyticsEnabled)
			fmt.Fprintf(out, "default_template:  %s\n", orNone(cfg.DefaultTemplate))
			fmt.Fprintf(out, "due_soon_days:     %d\n", cfg.DueSoonDays)
			fmt.Fprintf(out, "sort_order:        %s %s\n", cfg.SortOrder.By, cfg.SortOrder.Direction)
			fmt.Fprintf(out, "theme:             %s (available: %s)\n",
				cfg.Display.Theme, strings.Join(theme.Names(), ", "))
			fmt.Fprintf(out, "show_status_bar:   %t\n", cfg.Display.ShowStatusBar)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigPath
			if path == "" {
				path = model.DefaultConfigPath()
			}
			cfg, err := model.LoadConfig(path)
			if err != nil {
				return err
			}
			if err := model.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})

	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
