package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pasperfection/checklist/internal/exchange"
	"github.com/pasperfection/checklist/internal/model"
)

func newExportCmd(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the checklist to JSON, Markdown or CSV",
		Long: `Export writes the current checklist to a file. The format is taken
from the file extension (.json, .md, .csv) unless --format overrides it.
JSON preserves everything; Markdown and CSV are meant for sharing and
drop internal ids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			path := args[0]
			f, err := resolveFormat(path, format)
			if err != nil {
				return err
			}
			if err := exchange.ExportFile(path, f, rt.store.Items()); err != nil {
				return err
			}
			rt.tracker.Track("checklist_exported", map[string]string{"format": string(f)})
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d item(s) to %s\n", rt.store.Len(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Override format (json, markdown, csv)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var (
		format string
		merge  bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a checklist from JSON, Markdown or CSV",
		Long: `Import replaces the current checklist with the contents of the given
file. With --merge the imported items are appended as new top-level
items instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			path := args[0]
			f, err := resolveFormat(path, format)
			if err != nil {
				return err
			}
			items, err := exchange.ImportFile(path, f)
			if err != nil {
				return err
			}
			if merge {
				items = append(rt.store.Items(), items...)
			}
			rt.store.ReplaceAll(items)
			rt.persist()
			rt.tracker.Track("checklist_imported", map[string]string{"format": string(f)})
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d item(s) from %s\n", model.Count(items), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Override format (json, markdown, csv)")
	cmd.Flags().BoolVar(&merge, "merge", false, "Append to the current checklist instead of replacing it")
	return cmd
}

func resolveFormat(path, override string) (exchange.Format, error) {
	if override == "" {
		f, err := exchange.FormatForPath(path)
		if err != nil {
			return "", err
		}
		return f, nil
	}
	switch override {
	case "json":
		return exchange.FormatJSON, nil
	case "markdown", "md":
		return exchange.FormatMarkdown, nil
	case "csv":
		return exchange.FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown format %q (json, markdown, csv)", override)
	}
}
