package analytics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDisabledTrackerDoesNothing(t *testing.T) {
	tr, err := NewTracker(filepath.Join(t.TempDir(), "never-created"), false)
	if err != nil {
		t.Fatal(err)
	}
	tr.Track("open", nil)
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush on disabled tracker: %v", err)
	}
	if _, err := os.Stat(tr.dir); !os.IsNotExist(err) {
		t.Fatal("disabled tracker must not touch the filesystem")
	}
}

func TestClientIDPersistsAcrossSessions(t *testing.T) {
	dir := t.TempDir()
	first, err := NewTracker(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewTracker(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if first.clientID == "" || first.clientID != second.clientID {
		t.Fatalf("client id should persist: %q vs %q", first.clientID, second.clientID)
	}
}

func TestFlushWritesMonthFile(t *testing.T) {
	dir := t.TempDir()
	tr, err := NewTracker(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	tr.Track("item_created", map[string]string{"priority": "high"})
	tr.Track("item_completed", nil)
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	path := filepath.Join(dir, filePrefix+time.Now().UTC().Format(monthLayout)+fileSuffix)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("month file missing: %v", err)
	}
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		t.Fatalf("month file not valid JSON: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Name != "item_created" || events[0].Props["priority"] != "high" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[0].ClientID != tr.clientID || events[0].ID == "" {
		t.Error("events must carry the anonymous client id and an id")
	}

	// A second flush appends rather than overwrites.
	tr.Track("item_deleted", nil)
	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	json.Unmarshal(data, &events)
	if len(events) != 3 {
		t.Fatalf("got %d events after second flush, want 3", len(events))
	}
}

func TestFailedFlushKeepsBuffer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "analytics")
	tr, err := NewTracker(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	tr.Track("kept", nil)

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(); err == nil {
		t.Fatal("flush into a missing directory should fail")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(); err != nil {
		t.Fatalf("retry flush: %v", err)
	}
	events, err := tr.Events()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Name != "kept" {
		t.Fatalf("buffered event lost: %+v", events)
	}
}

func TestPruneDropsOldMonths(t *testing.T) {
	dir := t.TempDir()
	tr, err := NewTracker(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	old := filepath.Join(dir, filePrefix+"2024-01"+fileSuffix)
	if err := os.WriteFile(old, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	tr.Track("anything", nil)
	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("months past retention should be removed")
	}
	current := filepath.Join(dir, filePrefix+time.Now().UTC().Format(monthLayout)+fileSuffix)
	if _, err := os.Stat(current); err != nil {
		t.Fatal("current month must survive pruning")
	}
}

func TestStartStopFlushesInBackground(t *testing.T) {
	dir := t.TempDir()
	tr, err := NewTracker(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	tr.Track("background", nil)
	tr.Start(10 * time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	tr.Stop()

	events, err := tr.Events()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}
