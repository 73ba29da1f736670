package model

import (
	"testing"
	"time"
)

func datePtr(t time.Time) *time.Time { return &t }

func filterFixture() []*Item {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return []*Item{
		{ID: "a", Label: "deploy", Priority: PriorityHigh, Tags: []string{"ops"},
			DueDate: datePtr(due), CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Children: []*Item{{ID: "a1", Label: "child", ParentID: "a"}}},
		{ID: "b", Label: "write docs", Priority: PriorityLow, Completed: true,
			CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "c", Label: "audit", Priority: PriorityMedium, Tags: []string{"ops", "security"},
			DueDate:   datePtr(due.AddDate(0, 0, 10)),
			CreatedAt: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
}

func ids(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func assertIDs(t *testing.T, got []*Item, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestFilterItemsByPriority(t *testing.T) {
	got := FilterItems(filterFixture(), FilterOptions{Priority: []string{PriorityHigh, PriorityMedium}})
	assertIDs(t, got, "a", "c")
}

func TestFilterItemsByCompleted(t *testing.T) {
	pending := false
	got := FilterItems(filterFixture(), FilterOptions{Completed: &pending})
	assertIDs(t, got, "a", "c")
}

func TestFilterItemsByTag(t *testing.T) {
	got := FilterItems(filterFixture(), FilterOptions{Tags: []string{"security"}})
	assertIDs(t, got, "c")
}

func TestFilterItemsByDueBound(t *testing.T) {
	cutoff := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	got := FilterItems(filterFixture(), FilterOptions{DueBefore: &cutoff})
	// b has no due date and never matches a date bound.
	assertIDs(t, got, "a")
}

func TestFilterItemsKeepsMatchingParentSubtree(t *testing.T) {
	got := FilterItems(filterFixture(), FilterOptions{Priority: []string{PriorityHigh}})
	assertIDs(t, got, "a")
	if len(got[0].Children) != 1 {
		t.Error("matching parent should keep its children")
	}
}

func TestFilterItemsDoesNotMutateInput(t *testing.T) {
	in := filterFixture()
	FilterItems(in, FilterOptions{Priority: []string{PriorityHigh}})
	assertIDs(t, in, "a", "b", "c")
}

func TestSortItemsByPriority(t *testing.T) {
	got := SortItems(filterFixture(), SortOptions{By: "priority"})
	assertIDs(t, got, "a", "c", "b")

	got = SortItems(filterFixture(), SortOptions{By: "priority", Ascending: true})
	assertIDs(t, got, "b", "c", "a")
}

func TestSortItemsByDueDatePutsUndatedLast(t *testing.T) {
	got := SortItems(filterFixture(), SortOptions{By: "dueDate", Ascending: true})
	assertIDs(t, got, "a", "c", "b")
}

func TestSortItemsByLabel(t *testing.T) {
	got := SortItems(filterFixture(), SortOptions{By: "label", Ascending: true})
	assertIDs(t, got, "c", "a", "b")
}

func TestSortItemsIsStableAndNonDestructive(t *testing.T) {
	in := filterFixture()
	got := SortItems(in, SortOptions{By: "status", Ascending: true})
	// a and c tie as pending and keep their relative order.
	assertIDs(t, got, "a", "c", "b")
	assertIDs(t, in, "a", "b", "c")
}

func TestSortItemsUnknownKeyKeepsOrder(t *testing.T) {
	got := SortItems(filterFixture(), SortOptions{By: "bogus"})
	assertIDs(t, got, "a", "b", "c")
}
