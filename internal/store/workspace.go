package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/pasperfection/checklist/internal/model"
)

// WorkspaceFileName is the fixed name of the checklist file kept at the
// workspace root.
const WorkspaceFileName = ".implementation-checklist.json"

// WorkspaceStore persists the checklist as a pretty-printed JSON array in
// the workspace root. External edits to the file are detected with a
// watcher; an isUpdating guard keeps self-initiated saves from looping
// back as reloads.
type WorkspaceStore struct {
	root string

	mu         sync.Mutex
	isUpdating bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWorkspaceStore creates a store rooted at dir and ensures the
// checklist file is listed in the workspace .gitignore.
func NewWorkspaceStore(dir string) *WorkspaceStore {
	s := &WorkspaceStore{root: dir}
	if err := s.ensureGitignore(); err != nil {
		log.Printf("updating .gitignore: %v", err)
	}
	return s
}

// Path returns the absolute path of the checklist file.
func (s *WorkspaceStore) Path() string {
	return filepath.Join(s.root, WorkspaceFileName)
}

// Load reads the checklist file. A missing or unparseable file yields an
// empty collection, never an error.
func (s *WorkspaceStore) Load() []*model.Item {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return []*model.Item{}
	}
	var items []*model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return []*model.Item{}
	}
	if items == nil {
		items = []*model.Item{}
	}
	return items
}

// Save overwrites the checklist file with a pretty-printed JSON array,
// writing through a temp file so a crash cannot leave a torn file.
func (s *WorkspaceStore) Save(items []*model.Item) error {
	if items == nil {
		items = []*model.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding checklist: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	s.isUpdating = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.isUpdating = false
		s.mu.Unlock()
	}()

	tmp, err := os.CreateTemp(s.root, WorkspaceFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing checklist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing checklist file: %w", err)
	}
	return nil
}

// Watch reloads the file on external changes and invokes onChange with the
// fresh collection. Changes caused by our own Save are ignored. Stop with
// StopWatch.
func (s *WorkspaceStore) Watch(onChange func([]*model.Item)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	if err := w.Add(s.root); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", s.root, err)
	}

	s.watcher = w
	s.done = make(chan struct{})

	go func() {
		for {
			select {
			case <-s.done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != WorkspaceFileName {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				s.mu.Lock()
				self := s.isUpdating
				s.mu.Unlock()
				if self {
					continue
				}
				onChange(s.Load())
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("workspace watcher: %v", err)
			}
		}
	}()

	return nil
}

// StopWatch shuts down the change watcher, if running.
func (s *WorkspaceStore) StopWatch() {
	if s.watcher == nil {
		return
	}
	close(s.done)
	s.watcher.Close()
	s.watcher = nil
}

// ensureGitignore appends the checklist filename to the workspace
// .gitignore when it is not already listed.
func (s *WorkspaceStore) ensureGitignore() error {
	path := filepath.Join(s.root, ".gitignore")

	var content string
	if data, err := os.ReadFile(path); err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return err
	}

	if strings.Contains(content, WorkspaceFileName) {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	entry := WorkspaceFileName + "\n"
	if content != "" && !strings.HasSuffix(content, "\n") {
		entry = "\n" + entry
	}
	_, err = f.WriteString(entry)
	return err
}
