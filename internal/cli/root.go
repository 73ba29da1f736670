// Package cli wires the cobra command tree around the checklist store.
// Running the binary without a subcommand starts the interactive TUI;
// every operation is also available as a scriptable subcommand.
package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// App carries the persistent flag values shared by all commands.
type App struct {
	Dir        string
	ConfigPath string
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "checklist",
		Short:        "Hierarchical implementation checklists in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI in the current workspace
  checklist

  # Scriptable commands
  checklist items add "Write deployment runbook" --priority high
  checklist items list
  checklist export checklist.md
  checklist backup create
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CHECKLIST_DIR", ""), "Workspace directory (default: current directory)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("CHECKLIST_CONFIG", ""), "Config file path (default: ~/.config/checklist/config.yaml)")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
