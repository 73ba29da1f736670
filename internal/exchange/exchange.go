// Package exchange moves checklists across file formats.
//
// JSON is the lossless interchange format. Markdown and CSV are
// human-oriented: they preserve structure, labels, priorities, due
// dates, tags and note text, but drop timestamps and identifiers, so
// importing either assigns fresh ids.
package exchange

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pasperfection/checklist/internal/model"
)

// Format names a supported interchange format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

// Marshal renders items in the given format.
func Marshal(items []*model.Item, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(items)
	case FormatMarkdown:
		return marshalMarkdown(items)
	case FormatCSV:
		return marshalCSV(items)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Unmarshal parses items from the given format.
func Unmarshal(data []byte, format Format) ([]*model.Item, error) {
	switch format {
	case FormatJSON:
		return unmarshalJSON(data)
	case FormatMarkdown:
		return unmarshalMarkdown(data)
	case FormatCSV:
		return unmarshalCSV(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ExportFile renders items in the given format and writes them to path.
func ExportFile(path string, format Format, items []*model.Item) error {
	data, err := Marshal(items, format)
	if err != nil {
		return fmt.Errorf("rendering %s export: %w", format, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

// ImportFile reads items from path and parses them in the given format.
func ImportFile(path string, format Format) ([]*model.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	items, err := Unmarshal(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s import: %w", format, err)
	}
	return items, nil
}
