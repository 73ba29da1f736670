package model

import (
	"sort"
	"time"
)

// FilterOptions selects a subset of items. Zero-value fields are ignored.
type FilterOptions struct {
	// Priority keeps only items whose priority is in the set.
	Priority []string

	// Completed, when non-nil, keeps only items with a matching state.
	Completed *bool

	// Tags keeps items carrying at least one of the given tags.
	Tags []string

	// DueBefore / DueAfter bound the due date. Items without a due date
	// never match a date bound.
	DueBefore *time.Time
	DueAfter  *time.Time
}

// SortOptions orders a list of items.
type SortOptions struct {
	// By is one of "priority", "dueDate", "status", "label", "createdAt".
	By string

	// Ascending reverses the default descending order when true.
	Ascending bool
}

// FilterItems returns the top-level items matching opts. The input is never
// mutated; results are the same pointers, so callers wanting isolation
// should Clone first. Filtering does not descend into children: a matching
// parent keeps its full subtree.
func FilterItems(items []*Item, opts FilterOptions) []*Item {
	var out []*Item
	for _, it := range items {
		if matchesFilter(it, opts) {
			out = append(out, it)
		}
	}
	return out
}

func matchesFilter(it *Item, opts FilterOptions) bool {
	if len(opts.Priority) > 0 {
		found := false
		for _, p := range opts.Priority {
			if it.Priority == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if opts.Completed != nil && it.Completed != *opts.Completed {
		return false
	}
	if len(opts.Tags) > 0 {
		found := false
		for _, t := range opts.Tags {
			if it.HasTag(t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if opts.DueBefore != nil {
		if it.DueDate == nil || it.DueDate.After(*opts.DueBefore) {
			return false
		}
	}
	if opts.DueAfter != nil {
		if it.DueDate == nil || it.DueDate.Before(*opts.DueAfter) {
			return false
		}
	}
	return true
}

// SortItems returns a new slice ordered per opts, leaving the input
// untouched. Items missing the sort key (no due date, no priority) sort
// after items that have one.
func SortItems(items []*Item, opts SortOptions) []*Item {
	out := append([]*Item(nil), items...)
	// less(a, b) is dir*cmp > 0: descending wants the larger key first,
	// ascending flips the sign.
	dir := 1
	if opts.Ascending {
		dir = -1
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var cmp int
		switch opts.By {
		case "priority":
			cmp = PriorityWeight[a.Priority] - PriorityWeight[b.Priority]
		case "dueDate":
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return false
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			case a.DueDate.Before(*b.DueDate):
				cmp = -1
			case a.DueDate.After(*b.DueDate):
				cmp = 1
			}
		case "status":
			cmp = boolToOrd(a.Completed) - boolToOrd(b.Completed)
		case "label":
			switch {
			case a.Label < b.Label:
				cmp = -1
			case a.Label > b.Label:
				cmp = 1
			}
		case "createdAt":
			switch {
			case a.CreatedAt.Before(b.CreatedAt):
				cmp = -1
			case a.CreatedAt.After(b.CreatedAt):
				cmp = 1
			}
		default:
			return false
		}
		return dir*cmp > 0
	})

	return out
}

func boolToOrd(b bool) int {
	if b {
		return 1
	}
	return 0
}
