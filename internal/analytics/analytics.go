// Package analytics records anonymous usage events into month-scoped
// JSON files on local disk. Nothing ever leaves the machine.
package analytics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	filePrefix      = "analytics-"
	fileSuffix      = ".json"
	clientIDFile    = "client-id"
	retentionMonths = 12
	monthLayout     = "2006-01"
)

// Event is a single recorded action.
type Event struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	ClientID  string            `json:"client_id"`
	Props     map[string]string `json:"props,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Tracker buffers events in memory and flushes them to disk
// periodically. A disabled tracker discards everything, so callers
// never need to branch on the config flag.
type Tracker struct {
	dir      string
	enabled  bool
	clientID string

	mu  sync.Mutex
	buf []Event

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewTracker opens (or initializes) the analytics directory. The
// anonymous client id is generated once and reused across sessions.
func NewTracker(dir string, enabled bool) (*Tracker, error) {
	t := &Tracker{dir: dir, enabled: enabled}
	if !enabled {
		return t, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating analytics dir: %w", err)
	}
	id, err := loadClientID(filepath.Join(dir, clientIDFile))
	if err != nil {
		return nil, err
	}
	t.clientID = id
	return t, nil
}

func loadClientID(path string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	id := uuid.New().String()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("persisting client id: %w", err)
	}
	return id, nil
}

// Track buffers an event. It is cheap and safe to call from any
// goroutine.
func (t *Tracker) Track(name string, props map[string]string) {
	if !t.enabled {
		return
	}
	ev := Event{
		ID:        uuid.New().String(),
		Name:      name,
		ClientID:  t.clientID,
		Props:     props,
		Timestamp: time.Now().UTC(),
	}
	t.mu.Lock()
	t.buf = append(t.buf, ev)
	t.mu.Unlock()
}

// Start flushes the buffer every interval until Stop is called.
func (t *Tracker) Start(interval time.Duration) {
	if !t.enabled || t.stopCh != nil {
		return
	}
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	go func() {
		defer close(t.doneCh)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := t.Flush(); err != nil {
					log.Printf("analytics flush failed: %v", err)
				}
			case <-t.stopCh:
				return
			}
		}
	}()
}

// Stop halts the background flusher and performs a final flush.
func (t *Tracker) Stop() {
	if t.stopCh == nil {
		return
	}
	close(t.stopCh)
	<-t.doneCh
	t.stopCh = nil
	if err := t.Flush(); err != nil {
		log.Printf("analytics final flush failed: %v", err)
	}
}

// Flush appends buffered events to the current month's file and prunes
// files past the retention window. On failure the buffer is kept so
// events are retried on the next flush.
func (t *Tracker) Flush() error {
	if !t.enabled {
		return nil
	}
	t.mu.Lock()
	pending := t.buf
	t.buf = nil
	t.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}

	if err := t.appendEvents(pending); err != nil {
		t.mu.Lock()
		t.buf = append(pending, t.buf...)
		t.mu.Unlock()
		return err
	}
	return t.prune(time.Now())
}

func (t *Tracker) appendEvents(pending []Event) error {
	path := filepath.Join(t.dir, filePrefix+time.Now().UTC().Format(monthLayout)+fileSuffix)

	var events []Event
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &events); err != nil {
			log.Printf("analytics file %s is corrupt, starting over: %v", filepath.Base(path), err)
			events = nil
		}
	}
	events = append(events, pending...)

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing analytics file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing analytics file: %w", err)
	}
	return nil
}

// prune removes month files older than the retention window.
func (t *Tracker) prune(now time.Time) error {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return err
	}
	cutoff := now.UTC().AddDate(0, -retentionMonths, 0)
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		month, err := time.Parse(monthLayout, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		if month.Before(cutoff) {
			if err := os.Remove(filepath.Join(t.dir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Events reads every retained event, newest month first. Used by the
// stats view and for debugging.
func (t *Tracker) Events() ([]Event, error) {
	if !t.enabled {
		return nil, nil
	}
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileSuffix) {
			names = append(names, e.Name())
		}
	}
	// Lexical order matches chronological order for yyyy-MM names.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	var all []Event
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(t.dir, name))
		if err != nil {
			return nil, err
		}
		var events []Event
		if err := json.Unmarshal(data, &events); err != nil {
			continue
		}
		all = append(all, events...)
	}
	return all, nil
}
