// Package app hosts the root Bubble Tea model that routes between the
// checklist views and wires the store to persistence, notifications
// and analytics.
package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasperfection/checklist/internal/analytics"
	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/keys"
	"github.com/pasperfection/checklist/internal/model"
	"github.com/pasperfection/checklist/internal/notify"
	"github.com/pasperfection/checklist/internal/search"
	"github.com/pasperfection/checklist/internal/stats"
	storepkg "github.com/pasperfection/checklist/internal/store"
	"github.com/pasperfection/checklist/internal/theme"
	"github.com/pasperfection/checklist/internal/ui"
	"github.com/pasperfection/checklist/internal/ui/command"
	"github.com/pasperfection/checklist/internal/ui/helpview"
	"github.com/pasperfection/checklist/internal/ui/itemdetail"
	"github.com/pasperfection/checklist/internal/ui/itemform"
	"github.com/pasperfection/checklist/internal/ui/itemlist"
	"github.com/pasperfection/checklist/internal/ui/statsview"
)

// DueSoonHorizon is the fallback window for due-soon highlighting and
// the startup scan when the config carries no usable dueSoonDays.
const DueSoonHorizon = 24 * time.Hour

// AnalyticsFlushInterval is how often buffered analytics events are
// written to disk while the program runs.
const AnalyticsFlushInterval = 5 * time.Minute

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewStats
	ViewHelp
	ViewCommand
	ViewItemCreate
	ViewItemEdit
)

// externalChangeMsg carries items reloaded after an external edit of
// the workspace file.
type externalChangeMsg struct {
	items []*model.Item
}

// Options bundles everything the root model needs.
type Options struct {
	Config  model.AppConfig
	Store   *checklist.Store
	Backups *storepkg.BackupStore
	Queue   *notify.Queue
	Tracker *analytics.Tracker

	// ConfigPath is where theme selections are persisted. Empty
	// disables persistence.
	ConfigPath string

	// FileChanges delivers workspace file contents after external
	// edits. May be nil when watching is disabled.
	FileChanges <-chan []*model.Item
}

// Model is the root Bubble Tea model that manages view routing, layout
// and the background services.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	theme        theme.Theme
	cfg          model.AppConfig
	store        *checklist.Store
	backups      *storepkg.BackupStore
	queue        *notify.Queue
	tracker      *analytics.Tracker
	keys         *keys.KeyMap
	configPath   string
	horizon      time.Duration
	fileChanges  <-chan []*model.Item

	itemList itemlist.Model
	detail   itemdetail.Model
	form     itemform.Model
	statsV   statsview.Model
	helpView helpview.Model
	cmdView  command.Model

	ready bool
}

// New creates the root application model.
func New(opts Options) Model {
	cfg := opts.Config
	th := theme.Named(cfg.Display.Theme)
	k := keys.DefaultKeyMap()

	horizon := time.Duration(cfg.DueSoonDays) * 24 * time.Hour
	if horizon <= 0 {
		horizon = DueSoonHorizon
	}

	return Model{
		currentView: ViewList,
		theme:       th,
		cfg:         cfg,
		store:       opts.Store,
		backups:     opts.Backups,
		queue:       opts.Queue,
		tracker:     opts.Tracker,
		keys:        k,
		configPath:  opts.ConfigPath,
		horizon:     horizon,
		fileChanges: opts.FileChanges,
		itemList:    itemlist.New(opts.Store, k, th, cfg.Icons, cfg.SortOrder, 80, 24),
		detail:      itemdetail.New(opts.Store, k, th, cfg.Icons, 80, 24),
		form:        itemform.New(th, cfg.DefaultPriority, 80, 24),
		statsV:      statsview.New(opts.Store, th, horizon, 80, 24),
		helpView:    helpview.New(k, th, 80, 24),
		cmdView:     command.New(th, 80, 24),
	}
}

// Init loads the list and arms the background waiters.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.itemList.Init()}
	if m.fileChanges != nil {
		cmds = append(cmds, m.waitForFileChange())
	}
	if m.cfg.ScanOnStartup {
		cmds = append(cmds, m.scanDueDates())
	}
	return tea.Batch(cmds...)
}

// waitForFileChange blocks on the watcher channel and re-arms after
// each delivery.
func (m Model) waitForFileChange() tea.Cmd {
	ch := m.fileChanges
	return func() tea.Msg {
		items, ok := <-ch
		if !ok {
			return nil
		}
		return externalChangeMsg{items: items}
	}
}

// scanDueDates runs the due-date scan off the UI loop.
func (m Model) scanDueDates() tea.Cmd {
	q := m.queue
	store := m.store
	horizon := m.horizon
	return func() tea.Msg {
		q.ScanDueDates(store.Items(), time.Now(), horizon)
		return nil
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height, m.theme)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.itemList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.form.SetSize(contentWidth, contentHeight)
		m.statsV.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.cmdView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case externalChangeMsg:
		m.store.ReplaceAll(msg.items)
		m.queue.Push(notify.LevelInfo, "checklist reloaded after external change")
		return m, tea.Batch(m.itemList.Reload(), m.waitForFileChange())

	case itemlist.SelectedItemMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.Show(msg.ItemID)
		return m, nil

	case itemlist.RequestNewMsg:
		m.previousView = m.currentView
		m.currentView = ViewItemCreate
		cmd := m.form.StartCreate(msg.ParentID, m.cfg.DefaultPriority)
		return m, cmd

	case itemlist.RequestEditMsg:
		it := m.store.Find(msg.ItemID)
		if it == nil {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewItemEdit
		cmd := m.form.StartEdit(it)
		return m, cmd

	case itemform.ItemCreatedMsg:
		m.currentView = ViewList
		created, err := m.store.CreateChild(msg.ParentID, msg.Label)
		if err != nil {
			m.queue.Pushf(notify.LevelError, "create failed: %v", err)
			return m, nil
		}
		if msg.Priority != m.cfg.DefaultPriority {
			m.store.SetPriority(created.ID, msg.Priority)
		}
		if msg.DueDate != nil {
			m.store.SetDueDate(created.ID, msg.DueDate)
		}
		for _, tag := range msg.Tags {
			m.store.AddTag(created.ID, tag)
		}
		m.tracker.Track("item_created", map[string]string{"priority": msg.Priority})
		return m, m.itemList.Reload()

	case itemform.ItemUpdatedMsg:
		m.currentView = ViewList
		m.store.Edit(msg.ItemID, msg.Label)
		m.store.SetPriority(msg.ItemID, msg.Priority)
		m.store.SetDueDate(msg.ItemID, msg.DueDate)
		m.store.ClearTags(msg.ItemID)
		for _, tag := range msg.Tags {
			m.store.AddTag(msg.ItemID, tag)
		}
		m.tracker.Track("item_edited", nil)
		return m, m.itemList.Reload()

	case itemform.FormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case itemdetail.BackMsg, statsview.BackMsg:
		m.currentView = ViewList
		return m, m.itemList.Reload()

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.currentView == ViewList {
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewItemCreate || m.currentView == ViewItemEdit {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case ":":
			if m.currentView == ViewItemCreate || m.currentView == ViewItemEdit {
				break
			}
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			cmd := m.cmdView.Focus()
			return m, cmd

		case "s":
			if m.currentView == ViewList {
				m.previousView = m.currentView
				m.currentView = ViewStats
				return m, nil
			}

		case "D":
			if m.currentView == ViewList {
				if id, ok := m.queueFrontID(); ok {
					m.queue.Dismiss(id)
				}
				return m, nil
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// queueFrontID returns the id of the oldest visible notification.
func (m Model) queueFrontID() (string, bool) {
	visible := m.queue.Visible()
	if len(visible) == 0 {
		return "", false
	}
	return visible[0].ID, true
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.itemList, cmd = m.itemList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewStats:
		m.statsV, cmd = m.statsV.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.cmdView, cmd = m.cmdView.Update(msg)
	case ViewItemCreate, ViewItemEdit:
		m.form, cmd = m.form.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	st := stats.Compute(m.store.Items(), time.Now(), m.horizon)
	header := m.layout.RenderHeader("Checklist", stats.Progress(st))
	content := m.renderContent()

	sections := []string{header, content}
	if toasts := m.renderNotifications(); toasts != "" {
		sections = append(sections, toasts)
	}
	if m.cfg.Display.ShowStatusBar {
		sections = append(sections, m.layout.RenderStatusBar(m.keyHints()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.itemList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewStats:
		return m.statsV.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.cmdView.View()
	case ViewItemCreate, ViewItemEdit:
		return m.form.View()
	default:
		return ""
	}
}

// renderNotifications draws the visible notification lines, oldest
// first, with a pending counter when the backlog is non-empty.
func (m Model) renderNotifications() string {
	visible := m.queue.Visible()
	if len(visible) == 0 {
		return ""
	}

	var lines []string
	for _, n := range visible {
		style := m.theme.Help
		switch n.Level {
		case notify.LevelWarning:
			style = m.theme.DueStyle(false, true)
		case notify.LevelError:
			style = m.theme.DueStyle(true, false)
		}
		lines = append(lines, style.Render("• "+n.Message))
	}
	if pending := m.queue.Pending(); pending > 0 {
		lines = append(lines, m.theme.Help.Render(fmt.Sprintf("  +%d more", pending)))
	}
	return strings.Join(lines, "\n")
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close palette | enter execute | esc back"
	case ViewDetail:
		return "a note | d delete note | t tag | T untag | x toggle | esc back"
	case ViewStats:
		return "esc back"
	case ViewItemCreate, ViewItemEdit:
		return "enter submit | esc cancel"
	default:
		if summary := m.itemList.FilterSummary(); summary != "" {
			return summary + " | esc clear | sort: " + m.itemList.SortMode()
		}
		return "q quit | ? help | n new | N child | / search | s stats | o sort"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "q":
		return tea.Quit

	case "stats":
		m.previousView = m.currentView
		m.currentView = ViewStats
		return nil

	case "new":
		m.previousView = m.currentView
		m.currentView = ViewItemCreate
		return m.form.StartCreate("", m.cfg.DefaultPriority)

	case "search", "filter":
		return m.itemList.SetQuery(search.Parse(arg))

	case "clear":
		return m.itemList.ClearFilters()

	case "hide":
		return m.itemList.ToggleHideCompleted()

	case "backup":
		meta, err := m.backups.Create(m.store.Items())
		if err != nil {
			m.queue.Pushf(notify.LevelError, "backup failed: %v", err)
		} else {
			m.queue.Pushf(notify.LevelInfo, "backup written: %s (%d items)", meta.File, meta.ItemCount)
			m.tracker.Track("backup_created", nil)
		}
		return nil

	case "scan":
		return m.scanDueDates()

	case "template":
		if err := m.store.ApplyTemplate(arg); err != nil {
			m.queue.Pushf(notify.LevelError, "%v", err)
			return nil
		}
		m.tracker.Track("template_applied", map[string]string{"template": arg})
		return m.itemList.Reload()

	case "theme":
		return m.switchTheme(arg)

	case "dismiss":
		m.queue.DismissAll()
		return nil

	default:
		m.queue.Pushf(notify.LevelWarning, "unknown command %q", cmd)
		return nil
	}
}

// switchTheme applies a named theme, rebuilds the views with the new
// styles and persists the selection.
func (m *Model) switchTheme(name string) tea.Cmd {
	if !theme.Known(name) {
		m.queue.Pushf(notify.LevelWarning, "unknown theme %q (themes: %s)", name, strings.Join(theme.Names(), ", "))
		return nil
	}

	m.cfg.Display.Theme = name
	m.theme = theme.Named(name)

	w, h := m.layout.Width, m.layout.Height
	m.layout = ui.NewLayout(w, h, m.theme)
	cw, ch := m.layout.ContentWidth(), m.layout.ContentHeight()
	m.itemList = itemlist.New(m.store, m.keys, m.theme, m.cfg.Icons, m.cfg.SortOrder, cw, ch)
	m.detail = itemdetail.New(m.store, m.keys, m.theme, m.cfg.Icons, cw, ch)
	m.form = itemform.New(m.theme, m.cfg.DefaultPriority, cw, ch)
	m.statsV = statsview.New(m.store, m.theme, m.horizon, cw, ch)
	m.helpView = helpview.New(m.keys, m.theme, cw, ch)
	m.cmdView = command.New(m.theme, cw, ch)

	if m.configPath != "" {
		cfg := m.cfg
		if err := model.SaveConfig(m.configPath, &cfg); err != nil {
			m.queue.Pushf(notify.LevelWarning, "saving theme selection: %v", err)
		}
	}
	m.tracker.Track("theme_changed", map[string]string{"theme": name})
	return m.itemList.Reload()
}
