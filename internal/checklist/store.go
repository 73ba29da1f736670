// Package checklist holds the canonical in-memory item store. All mutations
// are synchronous with respect to observers: every change fires the refresh
// listeners and, when auto-save is wired, hands a snapshot to the flusher
// before returning.
package checklist

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pasperfection/checklist/internal/model"
)

// MoveDirection names the supported structural moves for an item.
type MoveDirection string

const (
	MoveUp      MoveDirection = "up"
	MoveDown    MoveDirection = "down"
	MoveIndent  MoveDirection = "indent"
	MoveOutdent MoveDirection = "outdent"
)

// idSeq disambiguates ids created within the same wall-clock instant.
var idSeq atomic.Uint64

// NewID returns a time-derived identifier that stays unique across rapid
// successive calls within a process.
func NewID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), idSeq.Add(1))
}

// Store is the single source of truth for checklist items. It is not safe
// for concurrent use; all mutations run on the UI event loop.
type Store struct {
	items           []*model.Item
	defaultPriority string

	listeners []func()
	flusher   func([]*model.Item)
}

// NewStore creates an empty store. New items receive defaultPriority.
func NewStore(defaultPriority string) *Store {
	if !model.ValidPriority(defaultPriority) || defaultPriority == model.PriorityNone {
		defaultPriority = model.PriorityMedium
	}
	return &Store{defaultPriority: defaultPriority}
}

// Subscribe registers a refresh listener invoked after every mutation.
func (s *Store) Subscribe(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// SetFlusher wires the persistence flush called with a snapshot after every
// mutation. Pass nil to disable auto-save.
func (s *Store) SetFlusher(fn func([]*model.Item)) {
	s.flusher = fn
}

// Items returns a deep-copy snapshot of the current forest.
func (s *Store) Items() []*model.Item {
	return model.CloneItems(s.items)
}

// Len returns the total item count including nested children.
func (s *Store) Len() int {
	return model.Count(s.items)
}

// Find returns the live item with the given id, or nil.
func (s *Store) Find(id string) *model.Item {
	var found *model.Item
	model.Walk(s.items, func(it *model.Item) {
		if it.ID == id {
			found = it
		}
	})
	return found
}

// Create appends a new top-level item with store defaults and returns a
// copy of it.
func (s *Store) Create(label string) (*model.Item, error) {
	return s.CreateChild("", label)
}

// CreateChild appends a new item under parentID, or at the top level when
// parentID is empty. The label must be non-empty.
func (s *Store) CreateChild(parentID, label string) (*model.Item, error) {
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("item label must not be empty")
	}

	now := time.Now()
	item := &model.Item{
		ID:        NewID(),
		Label:     label,
		Priority:  s.defaultPriority,
		Notes:     []model.Note{},
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if parentID == "" {
		s.items = append(s.items, item)
	} else {
		parent := s.Find(parentID)
		if parent == nil {
			return nil, fmt.Errorf("parent item %s not found", parentID)
		}
		item.ParentID = parent.ID
		parent.Children = append(parent.Children, item)
	}

	s.changed()
	return item.Clone(), nil
}

// Edit replaces the label of the item with the given id. Missing ids are a
// silent no-op.
func (s *Store) Edit(id, label string) {
	if strings.TrimSpace(label) == "" {
		return
	}
	s.mutate(id, func(it *model.Item) {
		it.Label = label
	})
}

// Delete removes the item and its entire subtree. Missing ids are a silent
// no-op.
func (s *Store) Delete(id string) {
	parentChildren, idx := s.locate(id)
	if idx < 0 {
		return
	}
	*parentChildren = append((*parentChildren)[:idx], (*parentChildren)[idx+1:]...)
	s.changed()
}

// ToggleComplete flips the completion state. CompletedAt is set on the
// transition to complete and cleared on the transition back.
func (s *Store) ToggleComplete(id string) {
	s.mutate(id, func(it *model.Item) {
		it.Completed = !it.Completed
		if it.Completed {
			now := time.Now()
			it.CompletedAt = &now
		} else {
			it.CompletedAt = nil
		}
	})
}

// SetPriority assigns a priority. Callers validate the value; the store
// only guards against structurally invalid input.
func (s *Store) SetPriority(id, priority string) {
	if !model.ValidPriority(priority) {
		return
	}
	s.mutate(id, func(it *model.Item) {
		it.Priority = priority
	})
}

// SetDueDate assigns or clears (nil) the due date.
func (s *Store) SetDueDate(id string, due *time.Time) {
	s.mutate(id, func(it *model.Item) {
		if due == nil {
			it.DueDate = nil
			return
		}
		d := *due
		it.DueDate = &d
	})
}

// AddNote appends a note to the item.
func (s *Store) AddNote(id, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.mutate(id, func(it *model.Item) {
		it.Notes = append(it.Notes, model.Note{
			ID:        uuid.New().String(),
			Text:      text,
			CreatedAt: time.Now(),
		})
	})
}

// EditNote replaces the text of an existing note and stamps its UpdatedAt.
func (s *Store) EditNote(id, noteID, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.mutate(id, func(it *model.Item) {
		for i := range it.Notes {
			if it.Notes[i].ID == noteID {
				now := time.Now()
				it.Notes[i].Text = text
				it.Notes[i].UpdatedAt = &now
				return
			}
		}
	})
}

// DeleteNote removes a single note from the item.
func (s *Store) DeleteNote(id, noteID string) {
	s.mutate(id, func(it *model.Item) {
		for i := range it.Notes {
			if it.Notes[i].ID == noteID {
				it.Notes = append(it.Notes[:i], it.Notes[i+1:]...)
				return
			}
		}
	})
}

// ClearNotes removes all notes from the item.
func (s *Store) ClearNotes(id string) {
	s.mutate(id, func(it *model.Item) {
		it.Notes = it.Notes[:0]
	})
}

// AddTag adds a tag to the item's tag set. Adding an existing tag is a
// no-op that leaves the set (and UpdatedAt) unchanged.
func (s *Store) AddTag(id, tag string) {
	if strings.TrimSpace(tag) == "" {
		return
	}
	it := s.Find(id)
	if it == nil || it.HasTag(tag) {
		return
	}
	s.mutate(id, func(it *model.Item) {
		it.Tags = append(it.Tags, tag)
	})
}

// RemoveTag removes a tag from the item's tag set.
func (s *Store) RemoveTag(id, tag string) {
	s.mutate(id, func(it *model.Item) {
		for i, t := range it.Tags {
			if t == tag {
				it.Tags = append(it.Tags[:i], it.Tags[i+1:]...)
				return
			}
		}
	})
}

// ClearTags removes all tags from the item.
func (s *Store) ClearTags(id string) {
	s.mutate(id, func(it *model.Item) {
		it.Tags = it.Tags[:0]
	})
}

// Move restructures the tree around the item:
//
//	up/down  swap the item with its previous/next sibling
//	indent   make the item the last child of its previous sibling
//	outdent  move the item to just after its parent among the
//	         parent's siblings
//
// Impossible moves (first item up, top-level outdent) and missing ids are
// silent no-ops.
func (s *Store) Move(id string, dir MoveDirection) {
	siblings, idx := s.locate(id)
	if idx < 0 {
		return
	}
	list := *siblings

	switch dir {
	case MoveUp:
		if idx == 0 {
			return
		}
		list[idx-1], list[idx] = list[idx], list[idx-1]

	case MoveDown:
		if idx == len(list)-1 {
			return
		}
		list[idx], list[idx+1] = list[idx+1], list[idx]

	case MoveIndent:
		if idx == 0 {
			return
		}
		item := list[idx]
		newParent := list[idx-1]
		*siblings = append(list[:idx], list[idx+1:]...)
		item.ParentID = newParent.ID
		newParent.Children = append(newParent.Children, item)

	case MoveOutdent:
		item := list[idx]
		if item.ParentID == "" {
			return
		}
		parentSiblings, parentIdx := s.locate(item.ParentID)
		if parentIdx < 0 {
			return
		}
		*siblings = append(list[:idx], list[idx+1:]...)
		parent := (*parentSiblings)[parentIdx]
		item.ParentID = parent.ParentID
		rest := append([]*model.Item(nil), (*parentSiblings)[parentIdx+1:]...)
		*parentSiblings = append((*parentSiblings)[:parentIdx+1], item)
		*parentSiblings = append(*parentSiblings, rest...)

	default:
		return
	}

	s.mutate(id, func(*model.Item) {})
}

// ReplaceAll swaps the entire store contents, normalizing ids, parent
// references, and tag sets. Used by import and backup restore.
func (s *Store) ReplaceAll(items []*model.Item) {
	s.items = model.CloneItems(items)
	s.normalize(s.items, "")
	s.changed()
}

// normalize assigns missing or duplicate ids, repairs ParentID
// back-references, and de-duplicates tags across the subtree.
func (s *Store) normalize(items []*model.Item, parentID string) {
	seen := map[string]bool{}

	now := time.Now()
	var fix func(list []*model.Item, parent string)
	fix = func(list []*model.Item, parent string) {
		for _, it := range list {
			if it.ID == "" || seen[it.ID] {
				it.ID = NewID()
			}
			seen[it.ID] = true
			it.ParentID = parent
			it.Tags = dedupe(it.Tags)
			if it.CreatedAt.IsZero() {
				it.CreatedAt = now
			}
			if it.UpdatedAt.IsZero() {
				it.UpdatedAt = now
			}
			fix(it.Children, it.ID)
		}
	}
	fix(items, parentID)
}

func dedupe(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}
	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// mutate applies fn to the item with the given id, stamps UpdatedAt, and
// fires the change notifications. Missing ids are a silent no-op.
func (s *Store) mutate(id string, fn func(*model.Item)) {
	it := s.Find(id)
	if it == nil {
		return
	}
	fn(it)
	it.UpdatedAt = time.Now()
	s.changed()
}

// locate returns the sibling slice containing the item and its index, or
// (nil, -1) when the id does not exist.
func (s *Store) locate(id string) (*[]*model.Item, int) {
	var search func(list *[]*model.Item) (*[]*model.Item, int)
	search = func(list *[]*model.Item) (*[]*model.Item, int) {
		for i, it := range *list {
			if it.ID == id {
				return list, i
			}
			if l, idx := search(&it.Children); idx >= 0 {
				return l, idx
			}
		}
		return nil, -1
	}
	return search(&s.items)
}

// changed fires refresh listeners and the auto-save flusher.
func (s *Store) changed() {
	for _, fn := range s.listeners {
		fn()
	}
	if s.flusher != nil {
		s.flusher(s.Items())
	}
}
