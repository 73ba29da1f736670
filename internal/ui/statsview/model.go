// Package statsview renders checklist statistics as a full-screen panel.
package statsview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/model"
	"github.com/pasperfection/checklist/internal/stats"
	"github.com/pasperfection/checklist/internal/theme"
)

// BackMsg is sent when the user leaves the stats view.
type BackMsg struct{}

// trendBarWidth is the width of one day's completion bar.
const trendBarWidth = 20

// Model is the statistics view.
type Model struct {
	store   *checklist.Store
	theme   theme.Theme
	horizon time.Duration
	width   int
	height  int
}

// New creates a new statistics view model.
func New(s *checklist.Store, th theme.Theme, horizon time.Duration, width, height int) Model {
	return Model{
		store:   s,
		theme:   th,
		horizon: horizon,
		width:   width,
		height:  height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "s":
			return m, func() tea.Msg { return BackMsg{} }
		}
	}
	return m, nil
}

// View renders the statistics panel.
func (m Model) View() string {
	st := stats.Compute(m.store.Items(), time.Now(), m.horizon)

	bold := lipgloss.NewStyle().Bold(true)
	var b strings.Builder

	b.WriteString(bold.Render("Progress") + "  " + stats.Progress(st) + "\n\n")

	b.WriteString(bold.Render("Items") + "\n")
	b.WriteString(fmt.Sprintf("  total %d   completed %d   ", st.Total, st.Completed))
	b.WriteString(m.theme.DueStyle(true, false).Render(fmt.Sprintf("overdue %d", st.Overdue)))
	b.WriteString("   ")
	b.WriteString(m.theme.DueStyle(false, true).Render(fmt.Sprintf("due soon %d", st.DueSoon)))
	b.WriteString("\n\n")

	b.WriteString(bold.Render("By priority") + "\n")
	b.WriteString("  " + m.theme.PriorityStyle(model.PriorityHigh).Render(fmt.Sprintf("high %d", st.ByPriority.High)))
	b.WriteString("   " + m.theme.PriorityStyle(model.PriorityMedium).Render(fmt.Sprintf("medium %d", st.ByPriority.Medium)))
	b.WriteString("   " + m.theme.PriorityStyle(model.PriorityLow).Render(fmt.Sprintf("low %d", st.ByPriority.Low)))
	b.WriteString("   " + m.theme.Help.Render(fmt.Sprintf("none %d", st.ByPriority.None)))
	b.WriteString("\n\n")

	if len(st.ByTag) > 0 {
		b.WriteString(bold.Render("By tag") + "\n")
		for _, line := range tagLines(st.ByTag) {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(bold.Render(fmt.Sprintf("Completions, last %d days", stats.TrendDays)) + "\n")
	for _, day := range st.Trend {
		b.WriteString("  " + m.trendLine(day) + "\n")
	}

	return m.theme.DetailPanel.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(b.String())
}

// tagLines renders tag counts sorted by count, then name.
func tagLines(byTag map[string]int) []string {
	type tagCount struct {
		name  string
		count int
	}
	counts := make([]tagCount, 0, len(byTag))
	for name, count := range byTag {
		counts = append(counts, tagCount{name, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	lines := make([]string, len(counts))
	for i, tc := range counts {
		lines[i] = fmt.Sprintf("#%s %d", tc.name, tc.count)
	}
	return lines
}

// trendLine draws one day's bar scaled against its total.
func (m Model) trendLine(day model.TrendDay) string {
	filled := 0
	if day.Total > 0 {
		filled = day.Completed * trendBarWidth / day.Total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", trendBarWidth-filled)
	return fmt.Sprintf("%s %s %d/%d", day.Date, bar, day.Completed, day.Total)
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
