package itemlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasperfection/checklist/internal/model"
	"github.com/pasperfection/checklist/internal/theme"
)

// Row wraps a checklist item with its tree depth so it can be used in
// a bubbles/list.
type Row struct {
	Item  *model.Item
	Depth int
}

// FilterValue returns the string used for fuzzy filtering.
func (r Row) FilterValue() string { return r.Item.Label }

// RowDelegate implements list.ItemDelegate for rendering checklist rows.
type RowDelegate struct {
	Theme theme.Theme
	Icons model.IconConfig
}

// Height returns the number of lines each row takes.
func (d RowDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between rows.
func (d RowDelegate) Spacing() int { return 0 }

// Update handles per-row messages (unused).
func (d RowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single checklist row.
func (d RowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(Row)
	if !ok {
		return
	}

	it := row.Item
	now := time.Now()

	indent := strings.Repeat("  ", row.Depth)
	status := d.Theme.StatusStyle(it.Completed).Render(theme.StatusIcon(d.Icons, it.Completed))

	priBadge := ""
	if it.Priority != model.PriorityNone {
		priBadge = d.Theme.PriorityStyle(it.Priority).Render(theme.PriorityIcon(d.Icons, it.Priority)) + " "
	}

	dueStr := ""
	if it.DueDate != nil {
		due := it.DueDate.Format("Jan 02")
		if it.Overdue(now) {
			due += " overdue"
		}
		dueStr = d.Theme.DueStyle(it.Overdue(now), it.DueSoon(now, 24*time.Hour)).Render(" " + due)
	}

	tagStr := ""
	if len(it.Tags) > 0 {
		display := it.Tags
		if len(display) > 2 {
			display = append(display[:2:2], "…")
		}
		tagStr = d.Theme.Help.Render(" #" + strings.Join(display, " #"))
	}

	noteStr := ""
	if n := len(it.Notes); n > 0 {
		noteStr = d.Theme.Help.Render(fmt.Sprintf(" (%d notes)", n))
	}

	line := fmt.Sprintf("%s%s %s%s%s%s%s", indent, status, priBadge, it.Label, dueStr, tagStr, noteStr)

	if index == m.Index() {
		line = d.Theme.SelectedItem.Render(line)
	} else {
		line = d.Theme.ListItem.Render(line)
	}

	fmt.Fprint(w, line)
}
