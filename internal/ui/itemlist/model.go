// Package itemlist renders the checklist tree as a flat, indented list.
package itemlist

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/keys"
	"github.com/pasperfection/checklist/internal/model"
	"github.com/pasperfection/checklist/internal/search"
	"github.com/pasperfection/checklist/internal/theme"
)

// SelectedItemMsg is sent when the user opens an item's detail view.
type SelectedItemMsg struct {
	ItemID string
}

// RequestEditMsg asks the app to open the edit form for an item.
type RequestEditMsg struct {
	ItemID string
}

// RequestNewMsg asks the app to open the create form. ParentID is empty
// for a root item.
type RequestNewMsg struct {
	ParentID string
}

// sortModes defines the sort fields cycled by the sort key.
var sortModes = []string{
	"createdAt",
	"priority",
	"dueDate",
	"status",
	"label",
}

// Model is the main checklist view component.
type Model struct {
	list        list.Model
	store       *checklist.Store
	keys        *keys.KeyMap
	theme       theme.Theme
	icons       model.IconConfig
	query       search.Query
	sortIndex   int
	sortAsc     bool
	hideDone    bool
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new checklist view model.
func New(s *checklist.Store, k *keys.KeyMap, th theme.Theme, icons model.IconConfig, sort model.SortOrderConfig, width, height int) Model {
	delegate := RowDelegate{Theme: th, Icons: icons}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Checklist"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = th.Header

	si := textinput.New()
	si.Placeholder = "label, priority:high, tag:infra, due:week..."
	si.Prompt = "/ "
	si.Width = width - 4

	m := Model{
		list:        l,
		store:       s,
		keys:        k,
		theme:       th,
		icons:       icons,
		sortAsc:     sort.Direction != "desc",
		searchInput: si,
		width:       width,
		height:      height,
	}
	for i, mode := range sortModes {
		if mode == sort.By {
			m.sortIndex = i
		}
	}
	return m
}

// Init loads the initial rows.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// rowsLoadedMsg carries freshly computed rows into the list.
type rowsLoadedMsg struct {
	rows []list.Item
}

// Reload recomputes the visible rows from the store snapshot, applying
// the active search query, sort order and completed filter.
func (m Model) Reload() tea.Cmd {
	store := m.store
	query := m.query
	hide := m.hideDone
	sortOpts := model.SortOptions{By: sortModes[m.sortIndex], Ascending: m.sortAsc}
	return func() tea.Msg {
		items := store.Items()
		if !query.Empty() {
			items = search.Filter(items, query, time.Now())
		}
		if hide {
			done := false
			items = model.FilterItems(items, model.FilterOptions{Completed: &done})
		}
		items = model.SortItems(items, sortOpts)

		var rows []list.Item
		var flatten func(items []*model.Item, depth int)
		flatten = func(items []*model.Item, depth int) {
			for _, it := range items {
				rows = append(rows, Row{Item: it, Depth: depth})
				flatten(it.Children, depth+1)
			}
		}
		flatten(items, 0)
		return rowsLoadedMsg{rows: rows}
	}
}

// Update handles messages for the checklist view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rowsLoadedMsg:
		cmd := m.list.SetItems(msg.rows)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = search.Parse(m.searchInput.Value())
		return m, m.Reload()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = search.Query{}
		return m, m.Reload()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if row, ok := m.selectedRow(); ok {
			id := row.Item.ID
			return m, func() tea.Msg { return SelectedItemMsg{ItemID: id} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return RequestNewMsg{} }

	case key.Matches(msg, m.keys.NewChild):
		if row, ok := m.selectedRow(); ok {
			id := row.Item.ID
			return m, func() tea.Msg { return RequestNewMsg{ParentID: id} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.selectedRow(); ok {
			id := row.Item.ID
			return m, func() tea.Msg { return RequestEditMsg{ItemID: id} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.selectedRow(); ok {
			m.store.ToggleComplete(row.Item.ID)
			return m, m.Reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.selectedRow(); ok {
			m.store.Delete(row.Item.ID)
			return m, m.Reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		return m.moveSelected(checklist.MoveUp)
	case key.Matches(msg, m.keys.MoveDown):
		return m.moveSelected(checklist.MoveDown)
	case key.Matches(msg, m.keys.Indent):
		return m.moveSelected(checklist.MoveIndent)
	case key.Matches(msg, m.keys.Outdent):
		return m.moveSelected(checklist.MoveOutdent)

	case key.Matches(msg, m.keys.HideCompleted):
		m.hideDone = !m.hideDone
		return m, m.Reload()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		return m, m.Reload()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) moveSelected(dir checklist.MoveDirection) (Model, tea.Cmd) {
	if row, ok := m.selectedRow(); ok {
		m.store.Move(row.Item.ID, dir)
		return m, m.Reload()
	}
	return m, nil
}

func (m Model) selectedRow() (Row, bool) {
	row, ok := m.list.SelectedItem().(Row)
	return row, ok
}

// SelectedItemID returns the id of the highlighted row.
func (m Model) SelectedItemID() (string, bool) {
	row, ok := m.selectedRow()
	if !ok {
		return "", false
	}
	return row.Item.ID, true
}

// FilterSummary describes the active query for the status bar, or ""
// when no filter is active.
func (m Model) FilterSummary() string {
	switch {
	case !m.query.Empty() && m.hideDone:
		return "filtered, completed hidden"
	case !m.query.Empty():
		return "filtered"
	case m.hideDone:
		return "completed hidden"
	}
	return ""
}

// SortMode reports the active sort field for the status bar.
func (m Model) SortMode() string {
	return sortModes[m.sortIndex]
}

// ClearFilters resets the search query and the completed filter.
func (m *Model) ClearFilters() tea.Cmd {
	m.query = search.Query{}
	m.searchInput.Reset()
	m.hideDone = false
	return m.Reload()
}

// ToggleHideCompleted flips the completed filter, used by the command
// palette.
func (m *Model) ToggleHideCompleted() tea.Cmd {
	m.hideDone = !m.hideDone
	return m.Reload()
}

// SetQuery applies a parsed search query, used by the command palette.
func (m *Model) SetQuery(q search.Query) tea.Cmd {
	m.query = q
	return m.Reload()
}

// View renders the checklist view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no items are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(m.theme.Palette.Muted)

	if !m.query.Empty() || m.hideDone {
		return style.Render("No matching items.\nPress esc in search or H to clear filters.")
	}

	return style.Render("Checklist is empty.\n\nPress n to add the first item.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
