package model

import "time"

// Priority levels for checklist items. An empty string means no priority
// has been assigned.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
	PriorityNone   = ""
)

// Priorities lists the assignable priority values in descending weight order.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// PriorityWeight maps a priority to a numeric weight for sorting.
// Higher weight sorts first when sorting by priority descending.
var PriorityWeight = map[string]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
	PriorityNone:   0,
}

// ValidPriority reports whether p is an assignable priority value.
func ValidPriority(p string) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow || p == PriorityNone
}

// Note is a timestamped text annotation attached to an item.
type Note struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Item is a single checklist entry. Items form a tree: each item owns its
// children, and ParentID is a back-reference only (it never drives
// ownership). Deleting an item deletes its whole subtree.
type Item struct {
	// ID is an opaque unique identifier assigned at creation, immutable.
	ID string `json:"id"`

	// Label is the display text. Required, non-empty.
	Label string `json:"label"`

	// Completed marks the item done. CompletedAt is set exactly when
	// Completed transitions to true and cleared when it transitions back.
	Completed bool `json:"completed"`

	// Priority is one of the Priority* constants, or empty for none.
	Priority string `json:"priority,omitempty"`

	// DueDate, when set on an incomplete item, classifies it as overdue
	// (past) or due soon (within the configured horizon).
	DueDate *time.Time `json:"due_date,omitempty"`

	// Notes is an ordered, append-only sequence except for explicit
	// edit/delete operations.
	Notes []Note `json:"notes,omitempty"`

	// Tags is a duplicate-free, case-sensitive set of labels.
	Tags []string `json:"tags,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ParentID names the owning item, if any. It always references an
	// existing item in the same store.
	ParentID string `json:"parent,omitempty"`

	// Children are nested sub-items owned by this item.
	Children []*Item `json:"children,omitempty"`
}

// Overdue reports whether the item is incomplete with a due date in the past.
func (it *Item) Overdue(now time.Time) bool {
	return !it.Completed && it.DueDate != nil && it.DueDate.Before(now)
}

// DueSoon reports whether the item is incomplete with a due date between
// now and now+horizon.
func (it *Item) DueSoon(now time.Time, horizon time.Duration) bool {
	if it.Completed || it.DueDate == nil {
		return false
	}
	return !it.DueDate.Before(now) && it.DueDate.Before(now.Add(horizon))
}

// HasTag reports whether the item carries the given tag (case-sensitive).
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the item and its entire subtree.
func (it *Item) Clone() *Item {
	cp := *it
	if it.DueDate != nil {
		d := *it.DueDate
		cp.DueDate = &d
	}
	if it.CompletedAt != nil {
		c := *it.CompletedAt
		cp.CompletedAt = &c
	}
	if it.Notes != nil {
		cp.Notes = make([]Note, len(it.Notes))
		for i, n := range it.Notes {
			cp.Notes[i] = n
			if n.UpdatedAt != nil {
				u := *n.UpdatedAt
				cp.Notes[i].UpdatedAt = &u
			}
		}
	}
	if it.Tags != nil {
		cp.Tags = append([]string(nil), it.Tags...)
	}
	if it.Children != nil {
		cp.Children = make([]*Item, len(it.Children))
		for i, child := range it.Children {
			cp.Children[i] = child.Clone()
			cp.Children[i].ParentID = cp.ID
		}
	}
	return &cp
}

// CloneItems deep-copies a slice of top-level items.
func CloneItems(items []*Item) []*Item {
	if items == nil {
		return nil
	}
	out := make([]*Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// Walk visits every item in the forest depth-first, parents before children.
func Walk(items []*Item, fn func(*Item)) {
	for _, it := range items {
		fn(it)
		Walk(it.Children, fn)
	}
}

// Count returns the total number of items including nested children.
func Count(items []*Item) int {
	n := 0
	Walk(items, func(*Item) { n++ })
	return n
}
