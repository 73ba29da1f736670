package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pasperfection/checklist/internal/theme"
)

// Layout manages the multi-panel terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int

	Theme theme.Theme
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int, th theme.Theme) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
		Theme:           th,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with a title and a right-hand
// progress summary.
func (l Layout) RenderHeader(title string, progress string) string {
	titleRendered := l.Theme.Header.Render(title)

	progressRendered := l.Theme.Header.
		Align(lipgloss.Right).
		Render(progress)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(progressRendered)
	if gap < 0 {
		gap = 0
	}

	filler := l.Theme.Header.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(l.Theme.Header.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		progressRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := l.Theme.StatusBar.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := l.Theme.StatusBar.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(l.Theme.StatusBar.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
