package stats

import (
	"testing"
	"time"

	"github.com/pasperfection/checklist/internal/model"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func buildTree() []*model.Item {
	overdue := now.AddDate(0, 0, -2)
	soon := now.Add(12 * time.Hour)
	later := now.AddDate(0, 0, 30)
	doneAt := now.Add(-3 * time.Hour)
	created := now.AddDate(0, 0, -10)

	return []*model.Item{
		{
			ID: "1", Label: "late", Priority: model.PriorityHigh,
			DueDate: &overdue, Tags: []string{"infra"}, CreatedAt: created,
			Children: []*model.Item{
				{
					ID: "2", Label: "done child", Completed: true,
					CompletedAt: &doneAt, Tags: []string{"infra", "ci"}, CreatedAt: created,
				},
			},
		},
		{ID: "3", Label: "soon", Priority: model.PriorityMedium, DueDate: &soon, CreatedAt: created},
		{ID: "4", Label: "relaxed", Priority: model.PriorityLow, DueDate: &later, CreatedAt: created},
		{ID: "5", Label: "no priority", CreatedAt: created},
	}
}

func TestComputeCountsWholeTree(t *testing.T) {
	st := Compute(buildTree(), now, 24*time.Hour)

	if st.Total != 5 {
		t.Errorf("Total = %d, want 5 (children included)", st.Total)
	}
	if st.Completed != 1 {
		t.Errorf("Completed = %d, want 1", st.Completed)
	}
	if st.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", st.Overdue)
	}
	if st.DueSoon != 1 {
		t.Errorf("DueSoon = %d, want 1", st.DueSoon)
	}
	if st.ByPriority.High != 1 || st.ByPriority.Medium != 1 || st.ByPriority.Low != 1 || st.ByPriority.None != 2 {
		t.Errorf("ByPriority = %+v", st.ByPriority)
	}
	if st.ByTag["infra"] != 2 || st.ByTag["ci"] != 1 {
		t.Errorf("ByTag = %v", st.ByTag)
	}
}

func TestCompletedItemsAreNeverOverdue(t *testing.T) {
	past := now.AddDate(0, 0, -5)
	items := []*model.Item{
		{ID: "1", Label: "finished late", Completed: true, DueDate: &past, CreatedAt: past},
	}
	st := Compute(items, now, 24*time.Hour)
	if st.Overdue != 0 {
		t.Fatalf("Overdue = %d, completed items must not count", st.Overdue)
	}
}

func TestTrendWindow(t *testing.T) {
	st := Compute(buildTree(), now, 24*time.Hour)
	if len(st.Trend) != TrendDays {
		t.Fatalf("Trend has %d days, want %d", len(st.Trend), TrendDays)
	}
	last := st.Trend[len(st.Trend)-1]
	if last.Date != "2026-03-10" {
		t.Errorf("last trend day = %s, want today", last.Date)
	}
	if last.Completed != 1 {
		t.Errorf("today's completions = %d, want 1", last.Completed)
	}
	if last.Total != 5 {
		t.Errorf("today's total = %d, want 5", last.Total)
	}
	first := st.Trend[0]
	if first.Date != "2026-03-04" {
		t.Errorf("first trend day = %s", first.Date)
	}
	if first.Completed != 0 {
		t.Errorf("old day completions = %d, want 0", first.Completed)
	}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		total, completed int
		want             string
	}{
		{0, 0, "0%"},
		{10, 4, "40% (4/10)"},
		{3, 3, "100% (3/3)"},
		{7, 2, "28% (2/7)"},
	}
	for _, c := range cases {
		st := model.Statistics{Total: c.total, Completed: c.completed}
		if got := Progress(st); got != c.want {
			t.Errorf("Progress(%d/%d) = %q, want %q", c.completed, c.total, got, c.want)
		}
	}
}
