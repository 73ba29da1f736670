// Package itemform is the create/edit form for checklist items.
package itemform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasperfection/checklist/internal/model"
	"github.com/pasperfection/checklist/internal/theme"
)

// ItemCreatedMsg is dispatched when a new item is submitted.
type ItemCreatedMsg struct {
	ParentID string
	Label    string
	Priority string
	DueDate  *time.Time
	Tags     []string
}

// ItemUpdatedMsg is dispatched when an edited item is submitted.
type ItemUpdatedMsg struct {
	ItemID   string
	Label    string
	Priority string
	DueDate  *time.Time
	Tags     []string
}

// FormCancelMsg is dispatched when the user cancels the form.
type FormCancelMsg struct{}

// formBindings holds field values on the heap so huh's Value() pointers
// remain valid across Bubble Tea model copies.
type formBindings struct {
	label    string
	priority string
	dueDate  string
	tags     string
}

// Model is the Bubble Tea model for the item create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	theme    theme.Theme
	editMode bool
	editID   string
	parentID string
	width    int
	height   int
}

// New creates a new item form model.
func New(th theme.Theme, defaultPriority string, width, height int) Model {
	return Model{
		fb:     &formBindings{priority: defaultPriority},
		theme:  th,
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new item under parentID
// (empty for a root item).
func (m *Model) StartCreate(parentID, defaultPriority string) tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.parentID = parentID
	m.fb.label = ""
	m.fb.priority = defaultPriority
	m.fb.dueDate = ""
	m.fb.tags = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing item's fields.
func (m *Model) StartEdit(it *model.Item) tea.Cmd {
	m.editMode = true
	m.editID = it.ID
	m.parentID = it.ParentID
	m.fb.label = it.Label
	m.fb.priority = it.Priority
	if it.DueDate != nil {
		m.fb.dueDate = it.DueDate.Format("2006-01-02")
	} else {
		m.fb.dueDate = ""
	}
	m.fb.tags = strings.Join(it.Tags, ", ")
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the item form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

// View renders the item form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Item"
	switch {
	case m.editMode:
		titleText = "Edit Item"
	case m.parentID != "":
		titleText = "New Child Item"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Label").
				Placeholder("What needs to be done?").
				Value(&m.fb.label).
				Validate(validateRequired("Label")),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("High", model.PriorityHigh),
					huh.NewOption("Medium", model.PriorityMedium),
					huh.NewOption("Low", model.PriorityLow),
					huh.NewOption("None", model.PriorityNone),
				).
				Value(&m.fb.priority),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.dueDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Tags").
				Placeholder("comma, separated (optional)").
				Value(&m.fb.tags),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	label := strings.TrimSpace(m.fb.label)
	priority := m.fb.priority

	var due *time.Time
	if s := strings.TrimSpace(m.fb.dueDate); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			due = &t
		}
	}

	var tags []string
	for _, tag := range strings.Split(m.fb.tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg {
			return ItemUpdatedMsg{ItemID: id, Label: label, Priority: priority, DueDate: due, Tags: tags}
		}
	}
	parentID := m.parentID
	return func() tea.Msg {
		return ItemCreatedMsg{ParentID: parentID, Label: label, Priority: priority, DueDate: due, Tags: tags}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
