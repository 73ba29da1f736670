package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pasperfection/checklist/internal/model"
)

func TestPushCapsVisibleAtThree(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push(LevelInfo, fmt.Sprintf("message %d", i))
	}

	visible := q.Visible()
	if len(visible) != MaxVisible {
		t.Fatalf("visible = %d, want %d", len(visible), MaxVisible)
	}
	for i, n := range visible {
		if want := fmt.Sprintf("message %d", i); n.Message != want {
			t.Errorf("visible[%d] = %q, want %q", i, n.Message, want)
		}
	}
	if q.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", q.Pending())
	}
}

func TestDismissPromotesInFIFOOrder(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push(LevelInfo, fmt.Sprintf("message %d", i))
	}

	first := q.Visible()[0]
	q.Dismiss(first.ID)

	visible := q.Visible()
	if len(visible) != MaxVisible {
		t.Fatalf("visible = %d after dismiss, want %d", len(visible), MaxVisible)
	}
	if visible[0].Message != "message 1" {
		t.Errorf("oldest visible = %q, want message 1", visible[0].Message)
	}
	if visible[2].Message != "message 3" {
		t.Errorf("promoted = %q, want message 3", visible[2].Message)
	}
	if q.Pending() != 1 {
		t.Errorf("pending = %d, want 1", q.Pending())
	}
}

func TestDismissUnknownIDIsNoOp(t *testing.T) {
	q := NewQueue()
	q.Push(LevelInfo, "only")
	q.Dismiss("nope")
	if len(q.Visible()) != 1 {
		t.Fatal("unknown id must not change the visible set")
	}
}

func TestDismissAll(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push(LevelInfo, "m")
	}
	q.DismissAll()
	if len(q.Visible()) != 0 || q.Pending() != 0 {
		t.Fatal("DismissAll must clear both visible set and backlog")
	}
}

func TestSubscribeFiresOnChange(t *testing.T) {
	q := NewQueue()
	fired := 0
	q.Subscribe(func() { fired++ })
	n := q.Push(LevelInfo, "hello")
	q.Dismiss(n.ID)
	if fired != 2 {
		t.Fatalf("listener fired %d times, want 2", fired)
	}
}

func TestScanDueDates(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	soon := now.Add(6 * time.Hour)
	items := []*model.Item{
		{ID: "1", Label: "late", DueDate: &past},
		{ID: "2", Label: "also late", DueDate: &past,
			Children: []*model.Item{{ID: "3", Label: "soon", DueDate: &soon}}},
	}

	q := NewQueue()
	q.ScanDueDates(items, now, 24*time.Hour)

	visible := q.Visible()
	if len(visible) != 2 {
		t.Fatalf("got %d notifications, want 2", len(visible))
	}
	if visible[0].Level != LevelWarning || !strings.HasPrefix(visible[0].Message, "2 items overdue") {
		t.Errorf("overdue notification = %+v", visible[0])
	}
	if visible[1].Level != LevelInfo || !strings.Contains(visible[1].Message, "due within 24 hours") {
		t.Errorf("due-soon notification = %+v", visible[1])
	}
}

func TestScanDueDatesQuietWhenNothingDue(t *testing.T) {
	q := NewQueue()
	q.ScanDueDates([]*model.Item{{ID: "1", Label: "free"}}, time.Now(), 24*time.Hour)
	if len(q.Visible()) != 0 {
		t.Fatal("no notifications expected without due dates")
	}
}
