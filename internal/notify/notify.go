// Package notify queues user-facing notifications, keeping at most a
// fixed number visible and promoting the rest in arrival order.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pasperfection/checklist/internal/model"
)

// MaxVisible caps how many notifications are shown at once. Further
// pushes wait in a FIFO backlog until a slot frees up.
const MaxVisible = 3

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a single queued message.
type Notification struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Queue holds visible notifications and the overflow backlog. It is
// safe for concurrent use.
type Queue struct {
	mu        sync.Mutex
	visible   []Notification
	backlog   []Notification
	promoting bool
	listeners []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Subscribe registers a listener invoked after the visible set changes.
func (q *Queue) Subscribe(fn func()) {
	q.mu.Lock()
	q.listeners = append(q.listeners, fn)
	q.mu.Unlock()
}

// Push enqueues a notification. It becomes visible immediately when a
// slot is free, otherwise it waits behind earlier messages.
func (q *Queue) Push(level Level, message string) Notification {
	n := Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
	q.mu.Lock()
	q.backlog = append(q.backlog, n)
	q.promoteLocked()
	q.mu.Unlock()
	q.notify()
	return n
}

// Pushf is Push with a format string.
func (q *Queue) Pushf(level Level, format string, args ...any) Notification {
	return q.Push(level, fmt.Sprintf(format, args...))
}

// Visible returns a copy of the currently shown notifications, oldest
// first.
func (q *Queue) Visible() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.visible))
	copy(out, q.visible)
	return out
}

// Pending reports how many notifications wait in the backlog.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// Dismiss removes a visible notification by id and promotes the oldest
// backlog entry into the freed slot. Unknown ids are ignored.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	for i, n := range q.visible {
		if n.ID == id {
			q.visible = append(q.visible[:i], q.visible[i+1:]...)
			break
		}
	}
	q.promoteLocked()
	q.mu.Unlock()
	q.notify()
}

// DismissAll clears the visible set and the backlog.
func (q *Queue) DismissAll() {
	q.mu.Lock()
	q.visible = nil
	q.backlog = nil
	q.mu.Unlock()
	q.notify()
}

// promoteLocked moves backlog entries into free visible slots. The
// promoting guard keeps a listener that pushes from re-entering the
// promotion loop.
func (q *Queue) promoteLocked() {
	if q.promoting {
		return
	}
	q.promoting = true
	for len(q.visible) < MaxVisible && len(q.backlog) > 0 {
		q.visible = append(q.visible, q.backlog[0])
		q.backlog = q.backlog[1:]
	}
	q.promoting = false
}

func (q *Queue) notify() {
	q.mu.Lock()
	listeners := make([]func(), len(q.listeners))
	copy(listeners, q.listeners)
	q.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// ScanDueDates summarizes due-date pressure across the tree. It pushes
// at most two notifications: one for overdue items and one for items
// due within the horizon. Nothing is pushed when the counts are zero.
func (q *Queue) ScanDueDates(items []*model.Item, now time.Time, horizon time.Duration) {
	var overdue, dueSoon int
	model.Walk(items, func(it *model.Item) {
		if it.Overdue(now) {
			overdue++
		}
		if it.DueSoon(now, horizon) {
			dueSoon++
		}
	})
	if overdue > 0 {
		q.Pushf(LevelWarning, "%d %s overdue", overdue, pluralItem(overdue))
	}
	if dueSoon > 0 {
		q.Pushf(LevelInfo, "%d %s due within %d hours", dueSoon, pluralItem(dueSoon), int(horizon.Hours()))
	}
}

func pluralItem(n int) string {
	if n == 1 {
		return "item"
	}
	return "items"
}
