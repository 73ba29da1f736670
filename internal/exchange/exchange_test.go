package exchange

import (
	"strings"
	"testing"
	"time"

	"github.com/pasperfection/checklist/internal/model"
)

func sampleTree() []*model.Item {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	return []*model.Item{
		{
			ID:        "1",
			Label:     "Set up CI",
			Priority:  model.PriorityHigh,
			DueDate:   &due,
			Tags:      []string{"infra", "urgent"},
			Notes:     []model.Note{{ID: "n1", Text: "use the shared runner", CreatedAt: created}},
			CreatedAt: created,
			UpdatedAt: created,
			Children: []*model.Item{
				{
					ID: "2", Label: "Write pipeline config", ParentID: "1",
					Completed: true, CreatedAt: created, UpdatedAt: created,
				},
			},
		},
		{
			ID: "3", Label: `Review "quotes", commas`, Priority: model.PriorityLow,
			CreatedAt: created, UpdatedAt: created,
		},
	}
}

func TestJSONRoundTripIsLossless(t *testing.T) {
	want := sampleTree()
	data, err := Marshal(want, FormatJSON)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data, FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d roots, want 2", len(got))
	}
	if got[0].ID != "1" || !got[0].CreatedAt.Equal(want[0].CreatedAt) {
		t.Error("ids and timestamps must survive JSON")
	}
	if got[0].Children[0].ID != "2" || !got[0].Children[0].Completed {
		t.Error("children must survive JSON")
	}
	if got[0].Notes[0].ID != "n1" {
		t.Error("note ids must survive JSON")
	}
}

func TestMarkdownRendering(t *testing.T) {
	data, err := Marshal(sampleTree(), FormatMarkdown)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)

	if !strings.HasPrefix(text, markdownHeading+"\n") {
		t.Errorf("missing heading:\n%s", text)
	}
	for _, want := range []string{
		"- [ ] [HIGH] Set up CI (Due: 2026-03-01) Tags: infra, urgent\n",
		"  > use the shared runner\n",
		"  - [x] Write pipeline config\n",
		"- [ ] [LOW] Review \"quotes\", commas\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestMarkdownRoundTrip(t *testing.T) {
	data, err := Marshal(sampleTree(), FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data, FormatMarkdown)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d roots, want 2", len(got))
	}
	first := got[0]
	if first.Label != "Set up CI" || first.Priority != model.PriorityHigh {
		t.Errorf("first root = %+v", first)
	}
	if first.DueDate == nil || first.DueDate.Format("2006-01-02") != "2026-03-01" {
		t.Error("due date lost")
	}
	if len(first.Tags) != 2 || first.Tags[0] != "infra" {
		t.Errorf("tags = %v", first.Tags)
	}
	if len(first.Notes) != 1 || first.Notes[0].Text != "use the shared runner" {
		t.Errorf("notes = %v", first.Notes)
	}
	if len(first.Children) != 1 || !first.Children[0].Completed {
		t.Error("child lost")
	}
	if first.Children[0].ParentID != first.ID {
		t.Error("child must reference its parent")
	}
	if got[1].Label != `Review "quotes", commas` {
		t.Errorf("second root label = %q", got[1].Label)
	}

	// A second pass over the lossy format must be stable.
	again, err := Marshal(got, FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(data) {
		t.Errorf("second render differs:\n%s\nvs\n%s", again, data)
	}
}

func TestMarkdownImportClampsBrokenIndent(t *testing.T) {
	src := "- [ ] root\n      - [ ] too deep\n"
	got, err := Unmarshal([]byte(src), FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || len(got[0].Children) != 1 {
		t.Fatalf("over-indented item should attach to the deepest parent, got %+v", got)
	}
}

func TestCSVRendering(t *testing.T) {
	data, err := Marshal(sampleTree(), FormatCSV)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if lines[0] != "Label,Status,Priority,Due Date,Tags,Notes,Parent" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Set up CI,Pending,High,2026-03-01,infra;urgent,use the shared runner," {
		t.Errorf("first row = %q", lines[1])
	}
	if lines[2] != "Write pipeline config,Completed,,,,,Set up CI" {
		t.Errorf("child row = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], `"Review ""quotes"", commas"`) {
		t.Errorf("quoting broken: %q", lines[3])
	}
}

func TestCSVRoundTrip(t *testing.T) {
	data, err := Marshal(sampleTree(), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data, FormatCSV)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d roots, want 2", len(got))
	}
	first := got[0]
	if first.Label != "Set up CI" || first.Priority != model.PriorityHigh {
		t.Errorf("first root = %+v", first)
	}
	if len(first.Children) != 1 || first.Children[0].Label != "Write pipeline config" {
		t.Error("parent column must rebuild the hierarchy")
	}
	if !first.Children[0].Completed || first.Children[0].CompletedAt == nil {
		t.Error("Completed status must round trip")
	}
	if len(first.Tags) != 2 || len(first.Notes) != 1 {
		t.Errorf("tags/notes = %v/%v", first.Tags, first.Notes)
	}

	again, err := Marshal(got, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(data) {
		t.Errorf("second render differs:\n%s\nvs\n%s", again, data)
	}
}

func TestCSVDuplicateParentLabelFirstWins(t *testing.T) {
	src := strings.Join([]string{
		"Label,Status,Priority,Due Date,Tags,Notes,Parent",
		"dup,Pending,,,,,",
		"dup,Pending,,,,,",
		"child,Pending,,,,,dup",
	}, "\n") + "\n"

	got, err := Unmarshal([]byte(src), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d roots, want 2", len(got))
	}
	if len(got[0].Children) != 1 {
		t.Error("child must attach to the first item with the matching label")
	}
	if len(got[1].Children) != 0 {
		t.Error("second duplicate must stay childless")
	}
}

func TestCSVUnknownParentBecomesRoot(t *testing.T) {
	src := "Label,Status,Priority,Due Date,Tags,Notes,Parent\norphan,Pending,,,,,missing\n"
	got, err := Unmarshal([]byte(src), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Label != "orphan" {
		t.Fatalf("orphan row should become a root, got %+v", got)
	}
}

func TestCSVParentCycleKeepsBothRows(t *testing.T) {
	src := "Label,Status,Priority,Due Date,Tags,Notes,Parent\n" +
		"alpha,Pending,,,,,beta\n" +
		"beta,Pending,,,,,alpha\n"
	got, err := Unmarshal([]byte(src), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if model.Count(got) != 2 {
		t.Fatalf("both rows must survive a parent cycle, got %d items", model.Count(got))
	}
	if len(got) != 1 || got[0].Label != "beta" {
		t.Fatalf("cycle should break at the later row, got roots %+v", got)
	}
	if len(got[0].Children) != 1 || got[0].Children[0].Label != "alpha" {
		t.Fatalf("the earlier link should survive, children = %+v", got[0].Children)
	}
}

func TestFormatForPath(t *testing.T) {
	cases := map[string]Format{
		"out.json": FormatJSON,
		"out.md":   FormatMarkdown,
		"out.CSV":  FormatCSV,
	}
	for path, want := range cases {
		got, err := FormatForPath(path)
		if err != nil || got != want {
			t.Errorf("FormatForPath(%q) = %v, %v; want %v", path, got, err, want)
		}
	}
	if _, err := FormatForPath("out.xlsx"); err == nil {
		t.Error("unknown extension should be rejected")
	}
}
