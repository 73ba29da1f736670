// Package theme defines the named color themes and the styles derived
// from them.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/pasperfection/checklist/internal/model"
)

// DefaultName is used when the configured theme is unknown.
const DefaultName = "default"

// Palette is the raw color set of a theme.
type Palette struct {
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Danger  lipgloss.TerminalColor
	Muted   lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Subtle  lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
}

var palettes = map[string]Palette{
	// Adaptive pairs (dark terminal value, light terminal value).
	DefaultName: {
		Accent:  lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"},
		Success: lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"},
		Warning: lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"},
		Danger:  lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"},
		Muted:   lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"},
		Text:    lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"},
		Subtle:  lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"},
		Border:  lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"},
	},
	"modern-dark": {
		Accent:  lipgloss.Color("#7AA2F7"),
		Success: lipgloss.Color("#9ECE6A"),
		Warning: lipgloss.Color("#E0AF68"),
		Danger:  lipgloss.Color("#F7768E"),
		Muted:   lipgloss.Color("#565F89"),
		Text:    lipgloss.Color("#C0CAF5"),
		Subtle:  lipgloss.Color("#414868"),
		Border:  lipgloss.Color("#3B4261"),
	},
	"modern-light": {
		Accent:  lipgloss.Color("#2E7DE9"),
		Success: lipgloss.Color("#587539"),
		Warning: lipgloss.Color("#8C6C3E"),
		Danger:  lipgloss.Color("#F52A65"),
		Muted:   lipgloss.Color("#848CB5"),
		Text:    lipgloss.Color("#3760BF"),
		Subtle:  lipgloss.Color("#C4C8DA"),
		Border:  lipgloss.Color("#A8AECB"),
	},
	"ocean-dark": {
		Accent:  lipgloss.Color("#88C0D0"),
		Success: lipgloss.Color("#A3BE8C"),
		Warning: lipgloss.Color("#EBCB8B"),
		Danger:  lipgloss.Color("#BF616A"),
		Muted:   lipgloss.Color("#4C566A"),
		Text:    lipgloss.Color("#ECEFF4"),
		Subtle:  lipgloss.Color("#3B4252"),
		Border:  lipgloss.Color("#434C5E"),
	},
}

// Theme bundles a palette with the styles the views render with.
type Theme struct {
	Name    string
	Palette Palette

	Header       lipgloss.Style
	StatusBar    lipgloss.Style
	DetailPanel  lipgloss.Style
	ListItem     lipgloss.Style
	SelectedItem lipgloss.Style
	Help         lipgloss.Style
	Border       lipgloss.Style
}

// Names lists the available theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is an available theme.
func Known(name string) bool {
	_, ok := palettes[name]
	return ok
}

// Named builds the theme with the given name, falling back to the
// default palette when the name is unknown.
func Named(name string) Theme {
	p, ok := palettes[name]
	if !ok {
		name = DefaultName
		p = palettes[DefaultName]
	}
	return Theme{
		Name:    name,
		Palette: p,
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Accent).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Subtle).
			Padding(0, 1),
		DetailPanel: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
		ListItem: lipgloss.NewStyle().
			PaddingLeft(2),
		SelectedItem: lipgloss.NewStyle().
			PaddingLeft(1).
			Bold(true).
			Foreground(p.Accent).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.Accent),
		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
	}
}

// PriorityStyle returns a color-coded style for an item priority.
func (t Theme) PriorityStyle(priority string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch priority {
	case model.PriorityHigh:
		return base.Foreground(t.Palette.Danger)
	case model.PriorityMedium:
		return base.Foreground(t.Palette.Warning)
	case model.PriorityLow:
		return base.Foreground(t.Palette.Accent)
	default:
		return base.Foreground(t.Palette.Muted)
	}
}

// StatusStyle returns the style for an item's completion state.
func (t Theme) StatusStyle(completed bool) lipgloss.Style {
	if completed {
		return lipgloss.NewStyle().Foreground(t.Palette.Success)
	}
	return lipgloss.NewStyle().Foreground(t.Palette.Text)
}

// DueStyle styles a due-date fragment. Overdue wins over due soon.
func (t Theme) DueStyle(overdue, dueSoon bool) lipgloss.Style {
	switch {
	case overdue:
		return lipgloss.NewStyle().Bold(true).Foreground(t.Palette.Danger)
	case dueSoon:
		return lipgloss.NewStyle().Foreground(t.Palette.Warning)
	default:
		return lipgloss.NewStyle().Foreground(t.Palette.Muted)
	}
}

// PriorityIcon picks the configured glyph for a priority.
func PriorityIcon(icons model.IconConfig, priority string) string {
	switch priority {
	case model.PriorityHigh:
		return icons.High
	case model.PriorityMedium:
		return icons.Medium
	case model.PriorityLow:
		return icons.Low
	default:
		return " "
	}
}

// StatusIcon picks the configured glyph for the completion state.
func StatusIcon(icons model.IconConfig, completed bool) string {
	if completed {
		return icons.Completed
	}
	return icons.Pending
}
