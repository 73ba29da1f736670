package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pasperfection/checklist/internal/model"
)

const (
	backupPrefix = "backup-"
	backupSuffix = ".json"

	// maxBackups is how many snapshot files the retention pass keeps,
	// newest first.
	maxBackups = 10

	// autoBackupInterval gates automatic backups: one is taken only when
	// the newest existing backup is at least this old.
	autoBackupInterval = 24 * time.Hour
)

// BackupStore writes timestamped full snapshots of the item store, one
// file per backup, and prunes old ones past the retention limit.
type BackupStore struct {
	dir string
}

// NewBackupStore creates a backup store rooted at dir, creating the
// directory if needed.
func NewBackupStore(dir string) (*BackupStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup directory %s: %w", dir, err)
	}
	return &BackupStore{dir: dir}, nil
}

// backupFileName renders the fixed filename pattern: an ISO-8601 timestamp
// with colons and dots replaced by dashes.
func backupFileName(ts time.Time) string {
	stamp := ts.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return backupPrefix + stamp + backupSuffix
}

// parseBackupTimestamp recovers the timestamp from a backup filename.
func parseBackupTimestamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)

	// The filename holds an ISO-8601 timestamp with ':' and '.' rewritten
	// to '-' (2006-01-02T15-04-05-000Z). The date dashes are genuine, so
	// restore only the time-part separators before parsing.
	datePart, timePart, ok := strings.Cut(stamp, "T")
	if !ok {
		return time.Time{}, false
	}
	parts := strings.Split(timePart, "-")
	if len(parts) != 4 {
		return time.Time{}, false
	}
	iso := datePart + "T" + parts[0] + ":" + parts[1] + ":" + parts[2] + "." + parts[3]
	ts, err := time.Parse("2006-01-02T15:04:05.000Z", iso)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Create writes a new backup file for the given snapshot and prunes
// backups beyond the retention limit.
func (b *BackupStore) Create(items []*model.Item) (model.BackupMetadata, error) {
	now := time.Now()

	// Filenames have millisecond resolution. Clamp the timestamp past
	// the newest existing backup so rapid calls stay strictly newer and
	// never reuse an instant that retention already deleted.
	existing, err := b.List()
	if err != nil {
		return model.BackupMetadata{}, err
	}
	if len(existing) > 0 {
		if next := existing[0].Timestamp.Add(time.Millisecond); now.Before(next) {
			now = next
		}
	}

	rec := model.BackupRecord{Timestamp: now.UTC(), Items: items}
	if rec.Items == nil {
		rec.Items = []*model.Item{}
	}
	name := backupFileName(now)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return model.BackupMetadata{}, fmt.Errorf("encoding backup: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.dir, name), data, 0o644); err != nil {
		return model.BackupMetadata{}, fmt.Errorf("writing backup %s: %w", name, err)
	}

	if err := b.prune(); err != nil {
		return model.BackupMetadata{}, err
	}

	return model.BackupMetadata{
		File:      name,
		Timestamp: rec.Timestamp,
		ItemCount: model.Count(rec.Items),
	}, nil
}

// AutoBackup creates a backup only when the newest existing backup is at
// least 24 hours old (or none exists). It reports whether one was taken.
func (b *BackupStore) AutoBackup(items []*model.Item) (bool, error) {
	backups, err := b.List()
	if err != nil {
		return false, err
	}
	if len(backups) > 0 {
		if time.Since(backups[0].Timestamp) < autoBackupInterval {
			return false, nil
		}
	}
	if _, err := b.Create(items); err != nil {
		return false, err
	}
	return true, nil
}

// List returns metadata for all backups, newest first.
func (b *BackupStore) List() ([]model.BackupMetadata, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var out []model.BackupMetadata
	for _, e := range entries {
		ts, ok := parseBackupTimestamp(e.Name())
		if !ok {
			continue
		}
		out = append(out, model.BackupMetadata{File: e.Name(), Timestamp: ts})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Restore reads a backup file and returns its snapshot.
func (b *BackupStore) Restore(file string) ([]*model.Item, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, filepath.Base(file)))
	if err != nil {
		return nil, fmt.Errorf("reading backup %s: %w", file, err)
	}
	var rec model.BackupRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing backup %s: %w", file, err)
	}
	if rec.Items == nil {
		rec.Items = []*model.Item{}
	}
	return rec.Items, nil
}

// backupSet is the on-disk shape of an exported collection of backups.
type backupSet struct {
	Backups []model.BackupRecord `json:"backups"`
}

// Export writes all backups as a single JSON document at path.
func (b *BackupStore) Export(path string) error {
	backups, err := b.List()
	if err != nil {
		return err
	}

	set := backupSet{Backups: []model.BackupRecord{}}
	for _, meta := range backups {
		items, err := b.Restore(meta.File)
		if err != nil {
			return err
		}
		set.Backups = append(set.Backups, model.BackupRecord{
			Timestamp: meta.Timestamp,
			Items:     items,
		})
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding backup set: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing backup export: %w", err)
	}
	return nil
}

// Import reads an exported backup set and materializes each entry as its
// own backup file, then prunes to the retention limit.
func (b *BackupStore) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading backup import: %w", err)
	}
	var set backupSet
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parsing backup import: %w", err)
	}

	for _, rec := range set.Backups {
		if rec.Items == nil {
			rec.Items = []*model.Item{}
		}
		body, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding imported backup: %w", err)
		}
		name := backupFileName(rec.Timestamp)
		if err := os.WriteFile(filepath.Join(b.dir, name), body, 0o644); err != nil {
			return fmt.Errorf("writing imported backup %s: %w", name, err)
		}
	}

	return b.prune()
}

// prune deletes all but the most recent maxBackups files.
func (b *BackupStore) prune() error {
	backups, err := b.List()
	if err != nil {
		return err
	}
	for _, meta := range backups[min(len(backups), maxBackups):] {
		if err := os.Remove(filepath.Join(b.dir, meta.File)); err != nil {
			return fmt.Errorf("pruning backup %s: %w", meta.File, err)
		}
	}
	return nil
}
