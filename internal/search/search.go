// Package search filters checklist trees with a small query language.
//
// A query is whitespace-separated tokens combined with AND semantics.
// Plain tokens match label, note text and tags case-insensitively.
// Prefixed tokens narrow by field:
//
//	priority:high|medium|low
//	status:done|true|pending|false
//	tag:<name>
//	due:overdue|today|week
package search

import (
	"strings"
	"time"

	"github.com/pasperfection/checklist/internal/model"
)

// Query is a parsed search expression.
type Query struct {
	Terms    []string
	Priority string
	Status   *bool
	Tags     []string
	Due      string
}

// Parse splits a raw query into terms and field filters. Unknown
// prefix values fall back to plain-text terms so a typo still searches
// rather than silently matching nothing.
func Parse(raw string) Query {
	var q Query
	for _, tok := range strings.Fields(raw) {
		lower := strings.ToLower(tok)
		key, val, found := strings.Cut(lower, ":")
		if !found {
			q.Terms = append(q.Terms, lower)
			continue
		}
		switch key {
		case "priority":
			if model.ValidPriority(val) && val != model.PriorityNone {
				q.Priority = val
				continue
			}
		case "status":
			switch val {
			case "done", "true", "completed":
				done := true
				q.Status = &done
				continue
			case "pending", "false", "open":
				done := false
				q.Status = &done
				continue
			}
		case "tag":
			if val != "" {
				q.Tags = append(q.Tags, val)
				continue
			}
		case "due":
			switch val {
			case "overdue", "today", "week":
				q.Due = val
				continue
			}
		}
		q.Terms = append(q.Terms, lower)
	}
	return q
}

// Empty reports whether the query has no constraints.
func (q Query) Empty() bool {
	return len(q.Terms) == 0 && q.Priority == "" && q.Status == nil && len(q.Tags) == 0 && q.Due == ""
}

// Match reports whether a single item satisfies every constraint.
// Children are not consulted; use Filter for trees.
func (q Query) Match(it *model.Item, now time.Time) bool {
	if q.Priority != "" && it.Priority != q.Priority {
		return false
	}
	if q.Status != nil && it.Completed != *q.Status {
		return false
	}
	for _, tag := range q.Tags {
		if !hasTagFold(it, tag) {
			return false
		}
	}
	if q.Due != "" && !matchDue(it, q.Due, now) {
		return false
	}
	for _, term := range q.Terms {
		if !matchText(it, term) {
			return false
		}
	}
	return true
}

// Filter returns a pruned copy of the tree. An item whose own fields
// match keeps its whole subtree; an item that does not match is kept
// only as context for matching descendants, with non-matching branches
// removed.
func Filter(items []*model.Item, q Query, now time.Time) []*model.Item {
	if q.Empty() {
		return model.CloneItems(items)
	}
	var out []*model.Item
	for _, it := range items {
		if q.Match(it, now) {
			out = append(out, it.Clone())
			continue
		}
		if kept := Filter(it.Children, q, now); len(kept) > 0 {
			clone := it.Clone()
			clone.Children = kept
			for _, child := range kept {
				child.ParentID = clone.ID
			}
			out = append(out, clone)
		}
	}
	return out
}

// MatchCount reports how many items in the tree match the query
// themselves. Context ancestors kept by Filter do not count.
func MatchCount(items []*model.Item, q Query, now time.Time) int {
	n := 0
	model.Walk(items, func(it *model.Item) {
		if q.Match(it, now) {
			n++
		}
	})
	return n
}

// matchText checks a bare term against the item's searchable text:
// label, note text and tags, case-folded.
func matchText(it *model.Item, term string) bool {
	if strings.Contains(strings.ToLower(it.Label), term) {
		return true
	}
	for _, n := range it.Notes {
		if strings.Contains(strings.ToLower(n.Text), term) {
			return true
		}
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func hasTagFold(it *model.Item, tag string) bool {
	for _, t := range it.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matchDue(it *model.Item, due string, now time.Time) bool {
	switch due {
	case "overdue":
		return it.Overdue(now)
	case "today":
		if it.DueDate == nil {
			return false
		}
		y1, m1, d1 := it.DueDate.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case "week":
		// Anything due by the end of the window, overdue included.
		if it.Completed || it.DueDate == nil {
			return false
		}
		return it.DueDate.Before(now.Add(7 * 24 * time.Hour))
	}
	return false
}
