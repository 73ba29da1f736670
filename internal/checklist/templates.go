package checklist

import (
	"fmt"
	"sort"

	"github.com/pasperfection/checklist/internal/model"
)

// Template is a named, reusable item set used to seed a workspace.
type Template struct {
	ID          string
	Name        string
	Description string
	Items       []*model.Item
}

// builtinTemplates are the checklists shipped with the application.
var builtinTemplates = map[string]Template{
	"go-service": {
		ID:          "go-service",
		Name:        "Go Service",
		Description: "Standard checklist for a Go backend service",
		Items: []*model.Item{
			{Label: "Project Setup", Priority: model.PriorityHigh, Children: []*model.Item{
				{Label: "Initialize module and directory layout", Priority: model.PriorityHigh},
				{Label: "Set up build and lint tooling", Priority: model.PriorityHigh},
				{Label: "Configure CI pipeline", Priority: model.PriorityMedium},
			}},
			{Label: "Core Implementation", Priority: model.PriorityHigh, Children: []*model.Item{
				{Label: "Define core interfaces", Priority: model.PriorityHigh},
				{Label: "Implement business logic", Priority: model.PriorityHigh},
				{Label: "Add error handling", Priority: model.PriorityMedium},
			}},
			{Label: "Testing", Priority: model.PriorityMedium, Children: []*model.Item{
				{Label: "Write unit tests", Priority: model.PriorityMedium},
				{Label: "Add integration tests", Priority: model.PriorityMedium},
			}},
		},
	},
	"web-app": {
		ID:          "web-app",
		Name:        "Web Application",
		Description: "Checklist for browser-facing applications",
		Items: []*model.Item{
			{Label: "Project Structure", Priority: model.PriorityHigh, Children: []*model.Item{
				{Label: "Set up component hierarchy", Priority: model.PriorityHigh},
				{Label: "Configure routing", Priority: model.PriorityHigh},
				{Label: "Set up state management", Priority: model.PriorityHigh},
			}},
			{Label: "UI Implementation", Priority: model.PriorityHigh, Children: []*model.Item{
				{Label: "Create base components", Priority: model.PriorityHigh},
				{Label: "Implement responsive design", Priority: model.PriorityMedium},
				{Label: "Add animations", Priority: model.PriorityLow},
			}},
		},
	},
}

// Templates returns the built-in templates sorted by id.
func Templates() []Template {
	out := make([]Template, 0, len(builtinTemplates))
	for _, t := range builtinTemplates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ApplyTemplate appends a deep copy of the named template's items to the
// store, assigning fresh ids.
func (s *Store) ApplyTemplate(id string) error {
	t, ok := builtinTemplates[id]
	if !ok {
		return fmt.Errorf("unknown template %q", id)
	}
	items := append(s.items, model.CloneItems(t.Items)...)
	s.ReplaceAll(items)
	return nil
}
