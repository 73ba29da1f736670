package search

import (
	"testing"
	"time"

	"github.com/pasperfection/checklist/internal/model"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixture() []*model.Item {
	overdue := now.AddDate(0, 0, -1)
	today := now.Add(2 * time.Hour)
	nextMonth := now.AddDate(0, 1, 0)
	return []*model.Item{
		{
			ID: "1", Label: "Deploy service", Priority: model.PriorityHigh,
			Tags: []string{"infra"}, DueDate: &overdue,
			Children: []*model.Item{
				{ID: "2", Label: "Update runbook", ParentID: "1", Completed: true,
					Notes: []model.Note{{ID: "n1", Text: "mention rollback steps"}}},
			},
		},
		{ID: "3", Label: "Write docs", Priority: model.PriorityLow, DueDate: &today},
		{ID: "4", Label: "Plan retro", Tags: []string{"Team"}, DueDate: &nextMonth},
	}
}

func TestParse(t *testing.T) {
	q := Parse("deploy priority:HIGH status:false tag:infra due:overdue")
	if len(q.Terms) != 1 || q.Terms[0] != "deploy" {
		t.Errorf("Terms = %v", q.Terms)
	}
	if q.Priority != "high" {
		t.Errorf("Priority = %q", q.Priority)
	}
	if q.Status == nil || *q.Status != false {
		t.Errorf("Status = %v", q.Status)
	}
	if len(q.Tags) != 1 || q.Tags[0] != "infra" {
		t.Errorf("Tags = %v", q.Tags)
	}
	if q.Due != "overdue" {
		t.Errorf("Due = %q", q.Due)
	}
}

func TestParseUnknownPrefixBecomesTerm(t *testing.T) {
	q := Parse("priority:urgent due:someday")
	if q.Priority != "" || q.Due != "" {
		t.Errorf("invalid filter values must not bind: %+v", q)
	}
	if len(q.Terms) != 2 {
		t.Errorf("Terms = %v, want the raw tokens", q.Terms)
	}
}

func TestMatchCombinesWithAnd(t *testing.T) {
	items := fixture()
	q := Parse("priority:high status:false")
	if !q.Match(items[0], now) {
		t.Error("pending high item should match")
	}
	q = Parse("priority:high status:done")
	if q.Match(items[0], now) {
		t.Error("a failed constraint must reject the item")
	}
}

func TestMatchSearchesNotes(t *testing.T) {
	items := fixture()
	if !Parse("rollback").Match(items[0].Children[0], now) {
		t.Error("note text should be searchable")
	}
}

func TestBareTermSearchesTags(t *testing.T) {
	it := &model.Item{ID: "5", Label: "Ship release", Tags: []string{"backend"}}
	if !Parse("backend").Match(it, now) {
		t.Error("a bare term should match tag text")
	}
	if !Parse("BACKend").Match(it, now) {
		t.Error("tag text match should ignore case")
	}
	if Parse("frontend").Match(it, now) {
		t.Error("unrelated term must not match")
	}
}

func TestMatchTagIsCaseInsensitive(t *testing.T) {
	if !Parse("tag:team").Match(fixture()[2], now) {
		t.Error("tag match should ignore case")
	}
}

func TestMatchDueBuckets(t *testing.T) {
	items := fixture()
	if !Parse("due:overdue").Match(items[0], now) {
		t.Error("item past due should match due:overdue")
	}
	if !Parse("due:today").Match(items[1], now) {
		t.Error("item due later today should match due:today")
	}
	if Parse("due:week").Match(items[2], now) {
		t.Error("item due next month should not match due:week")
	}
	if !Parse("due:week").Match(items[0], now) {
		t.Error("overdue item should also match due:week")
	}
	if !Parse("due:week").Match(items[1], now) {
		t.Error("item due today should match due:week")
	}
}

func TestFilterKeepsContextAncestors(t *testing.T) {
	got := Filter(fixture(), Parse("runbook"), now)
	if len(got) != 1 {
		t.Fatalf("got %d roots, want 1", len(got))
	}
	if got[0].ID != "1" {
		t.Errorf("non-matching parent should remain as context, got %s", got[0].ID)
	}
	if len(got[0].Children) != 1 || got[0].Children[0].ID != "2" {
		t.Errorf("children = %+v", got[0].Children)
	}
}

func TestMatchCountExcludesContextAncestors(t *testing.T) {
	q := Parse("runbook")
	got := Filter(fixture(), q, now)
	if model.Count(got) != 2 {
		t.Fatalf("filtered tree should hold match plus ancestor, got %d", model.Count(got))
	}
	if n := MatchCount(got, q, now); n != 1 {
		t.Errorf("MatchCount = %d, want 1", n)
	}
}

func TestFilterMatchingParentKeepsSubtree(t *testing.T) {
	got := Filter(fixture(), Parse("deploy"), now)
	if len(got) != 1 || len(got[0].Children) != 1 {
		t.Fatalf("matching parent should keep its subtree, got %+v", got)
	}
}

func TestFilterEmptyQueryReturnsEverything(t *testing.T) {
	got := Filter(fixture(), Parse("   "), now)
	if len(got) != 3 {
		t.Fatalf("got %d roots, want all 3", len(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := fixture()
	Filter(items, Parse("runbook"), now)
	if len(items[0].Children) != 1 || items[0].Children[0].Label != "Update runbook" {
		t.Fatal("Filter must work on copies")
	}
}
