package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pasperfection/checklist/internal/model"
)

func testItems() []*model.Item {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*model.Item{
		{
			ID:        "1",
			Label:     "parent",
			Priority:  model.PriorityHigh,
			DueDate:   &due,
			Tags:      []string{"infra", "urgent"},
			Notes:     []model.Note{{ID: "n1", Text: "a note", CreatedAt: due}},
			CreatedAt: due,
			UpdatedAt: due,
			Children: []*model.Item{
				{ID: "2", Label: "child", ParentID: "1", CreatedAt: due, UpdatedAt: due},
			},
		},
		{ID: "3", Label: "second", Completed: true, CreatedAt: due, UpdatedAt: due},
	}
}

func TestWorkspaceLoadMissingFileIsEmpty(t *testing.T) {
	s := NewWorkspaceStore(t.TempDir())
	items := s.Load()
	if items == nil || len(items) != 0 {
		t.Fatalf("Load on missing file = %v, want empty slice", items)
	}
}

func TestWorkspaceLoadCorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := NewWorkspaceStore(dir)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if items := s.Load(); len(items) != 0 {
		t.Fatalf("Load on corrupt file = %v, want empty slice", items)
	}
}

func TestWorkspaceSaveLoadRoundTrip(t *testing.T) {
	s := NewWorkspaceStore(t.TempDir())
	want := testItems()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := s.Load()
	if len(got) != 2 {
		t.Fatalf("loaded %d items, want 2", len(got))
	}
	if got[0].ID != "1" || got[0].Label != "parent" {
		t.Errorf("first item = %+v", got[0])
	}
	if len(got[0].Children) != 1 || got[0].Children[0].ParentID != "1" {
		t.Error("nested child should survive the round trip")
	}
	if got[0].DueDate == nil || !got[0].DueDate.Equal(*want[0].DueDate) {
		t.Error("due date should survive the round trip")
	}
	if len(got[0].Tags) != 2 || len(got[0].Notes) != 1 {
		t.Error("tags and notes should survive the round trip")
	}
	if !got[1].Completed {
		t.Error("completed flag should survive the round trip")
	}
}

func TestWorkspaceSaveIsPrettyJSON(t *testing.T) {
	s := NewWorkspaceStore(t.TempDir())
	if err := s.Save(testItems()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "[\n") {
		t.Error("workspace file should be a pretty-printed JSON array")
	}
	if !strings.HasSuffix(text, "\n") {
		t.Error("workspace file should end with a newline")
	}
}

func TestWorkspaceEnsuresGitignore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	NewWorkspaceStore(dir)
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), WorkspaceFileName) {
		t.Fatalf(".gitignore = %q, should list %s", data, WorkspaceFileName)
	}
	if !strings.Contains(string(data), "node_modules") {
		t.Fatal("existing .gitignore entries must be preserved")
	}

	// Second construction must not duplicate the entry.
	NewWorkspaceStore(dir)
	data, _ = os.ReadFile(filepath.Join(dir, ".gitignore"))
	if strings.Count(string(data), WorkspaceFileName) != 1 {
		t.Fatalf(".gitignore entry duplicated: %q", data)
	}
}

func TestWorkspaceWatchIgnoresOwnSaves(t *testing.T) {
	dir := t.TempDir()
	s := NewWorkspaceStore(dir)
	if err := s.Save(testItems()); err != nil {
		t.Fatal(err)
	}

	reloads := make(chan []*model.Item, 4)
	if err := s.Watch(func(items []*model.Item) { reloads <- items }); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer s.StopWatch()

	// An external write must trigger a reload.
	external := []byte(`[{"id":"x","label":"external"}]`)
	if err := os.WriteFile(s.Path(), external, 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case items := <-reloads:
		if len(items) != 1 || items[0].ID != "x" {
			t.Fatalf("reloaded %+v, want the external content", items)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("external change was not detected")
	}
}
