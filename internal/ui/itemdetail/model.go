// Package itemdetail shows a single checklist item with its notes and
// tags and lets the user edit both in place.
package itemdetail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/keys"
	"github.com/pasperfection/checklist/internal/model"
	"github.com/pasperfection/checklist/internal/theme"
)

// BackMsg is sent when the user leaves the detail view.
type BackMsg struct{}

// inputTarget says what the text input currently captures.
type inputTarget int

const (
	inputNone inputTarget = iota
	inputNote
	inputTag
)

// Model is the item detail view.
type Model struct {
	store  *checklist.Store
	keys   *keys.KeyMap
	theme  theme.Theme
	icons  model.IconConfig
	itemID string
	item   *model.Item

	noteCursor int
	target     inputTarget
	input      textinput.Model

	width  int
	height int
}

// New creates a new detail view model.
func New(s *checklist.Store, k *keys.KeyMap, th theme.Theme, icons model.IconConfig, width, height int) Model {
	ti := textinput.New()
	ti.Width = width - 8
	return Model{
		store:  s,
		keys:   k,
		theme:  th,
		icons:  icons,
		input:  ti,
		width:  width,
		height: height,
	}
}

// Show points the view at an item and refreshes its snapshot.
func (m *Model) Show(itemID string) {
	m.itemID = itemID
	m.noteCursor = 0
	m.target = inputNone
	m.refresh()
}

// refresh re-reads the item from the store.
func (m *Model) refresh() {
	m.item = m.store.Find(m.itemID)
	if m.item != nil && m.noteCursor >= len(m.item.Notes) {
		m.noteCursor = len(m.item.Notes) - 1
	}
	if m.noteCursor < 0 {
		m.noteCursor = 0
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.target != inputNone {
		return m.handleInputKeys(keyMsg)
	}

	switch keyMsg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return BackMsg{} }

	case "j", "down":
		if m.item != nil && m.noteCursor < len(m.item.Notes)-1 {
			m.noteCursor++
		}
	case "k", "up":
		if m.noteCursor > 0 {
			m.noteCursor--
		}

	case "a":
		m.target = inputNote
		m.input.Placeholder = "note text..."
		m.input.Reset()
		return m, m.input.Focus()

	case "d":
		if m.item != nil && len(m.item.Notes) > 0 {
			m.store.DeleteNote(m.itemID, m.item.Notes[m.noteCursor].ID)
			m.refresh()
		}

	case "t":
		m.target = inputTag
		m.input.Placeholder = "tag name..."
		m.input.Reset()
		return m, m.input.Focus()

	case "T":
		if m.item != nil && len(m.item.Tags) > 0 {
			m.store.RemoveTag(m.itemID, m.item.Tags[len(m.item.Tags)-1])
			m.refresh()
		}

	case "x", " ":
		m.store.ToggleComplete(m.itemID)
		m.refresh()
	}

	return m, nil
}

// handleInputKeys processes keys while the note/tag input is focused.
func (m Model) handleInputKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value != "" {
			switch m.target {
			case inputNote:
				m.store.AddNote(m.itemID, value)
			case inputTag:
				m.store.AddTag(m.itemID, value)
			}
		}
		m.target = inputNone
		m.input.Blur()
		m.refresh()
		return m, nil

	case "esc":
		m.target = inputNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the detail panel.
func (m Model) View() string {
	if m.item == nil {
		return m.theme.Help.Render("Item no longer exists.")
	}
	it := m.item
	now := time.Now()

	title := lipgloss.NewStyle().Bold(true).Render(
		theme.StatusIcon(m.icons, it.Completed) + " " + it.Label,
	)

	var meta []string
	if it.Priority != model.PriorityNone {
		meta = append(meta, m.theme.PriorityStyle(it.Priority).Render(it.Priority))
	}
	if it.DueDate != nil {
		meta = append(meta, m.theme.DueStyle(it.Overdue(now), it.DueSoon(now, 24*time.Hour)).
			Render("due "+it.DueDate.Format("2006-01-02")))
	}
	if len(it.Tags) > 0 {
		meta = append(meta, m.theme.Help.Render("#"+strings.Join(it.Tags, " #")))
	}
	metaLine := strings.Join(meta, "  ")

	var notes []string
	if len(it.Notes) == 0 {
		notes = append(notes, m.theme.Help.Render("no notes"))
	}
	for i, n := range it.Notes {
		line := fmt.Sprintf("%s (%s)", n.Text, n.CreatedAt.Format("Jan 02"))
		if i == m.noteCursor {
			line = m.theme.SelectedItem.Render(line)
		} else {
			line = m.theme.ListItem.Render(line)
		}
		notes = append(notes, line)
	}

	sections := []string{title}
	if metaLine != "" {
		sections = append(sections, metaLine)
	}
	sections = append(sections, "", lipgloss.NewStyle().Bold(true).Render("Notes"))
	sections = append(sections, notes...)

	if m.target != inputNone {
		sections = append(sections, "", m.input.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return m.theme.DetailPanel.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 8
}
