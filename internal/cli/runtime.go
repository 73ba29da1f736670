package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pasperfection/checklist/internal/analytics"
	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/model"
	storepkg "github.com/pasperfection/checklist/internal/store"
)

// runtime bundles the loaded config and the opened stores for one
// command invocation.
type runtime struct {
	cfg         *model.AppConfig
	store       *checklist.Store
	workspace   *storepkg.WorkspaceStore
	workspaceID string
	global      *storepkg.GlobalStore
	backups     *storepkg.BackupStore
	tracker     *analytics.Tracker
}

// load resolves the workspace, reads the config and hydrates the item
// store from the workspace file. The SQLite mirror is best-effort: a
// failure to open it degrades to workspace-file-only operation.
func (a *App) load() (*runtime, error) {
	cfgPath := a.ConfigPath
	if cfgPath == "" {
		cfgPath = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dir := a.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("resolving workspace directory: %w", err)
		}
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return nil, fmt.Errorf("resolving workspace directory: %w", err)
	}

	rt := &runtime{
		cfg:         cfg,
		workspace:   storepkg.NewWorkspaceStore(dir),
		workspaceID: dir,
	}

	rt.store = checklist.NewStore(cfg.DefaultPriority)
	rt.store.ReplaceAll(rt.workspace.Load())
	seeded := false
	if rt.store.Len() == 0 && cfg.DefaultTemplate != "" {
		if err := rt.store.ApplyTemplate(cfg.DefaultTemplate); err != nil {
			log.Printf("default template: %v", err)
		} else {
			seeded = rt.store.Len() > 0
		}
	}

	dataDir := model.DefaultDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	rt.global, err = storepkg.NewGlobalStore(filepath.Join(dataDir, "checklist.db"))
	if err != nil {
		log.Printf("opening global store: %v (continuing without mirror)", err)
		rt.global = nil
	}

	rt.backups, err = storepkg.NewBackupStore(filepath.Join(dataDir, "backups"))
	if err != nil {
		return nil, fmt.Errorf("opening backup store: %w", err)
	}

	rt.tracker, err = analytics.NewTracker(filepath.Join(dataDir, "analytics"), cfg.AnalyticsEnabled)
	if err != nil {
		return nil, fmt.Errorf("opening analytics: %w", err)
	}

	if cfg.AutoSave {
		rt.store.SetFlusher(rt.flush)
	}
	if seeded {
		rt.save()
	}
	if cfg.AutoBackup {
		if _, err := rt.backups.AutoBackup(rt.store.Items()); err != nil {
			log.Printf("auto backup: %v", err)
		}
	}

	return rt, nil
}

// flush persists a snapshot to the workspace file and mirrors it into
// the global store. Mirror failures are logged, not fatal: the
// workspace file is the source of truth.
func (rt *runtime) flush(items []*model.Item) {
	if err := rt.workspace.Save(items); err != nil {
		log.Printf("saving workspace file: %v", err)
		return
	}
	if rt.global != nil {
		if err := rt.global.Adapter(rt.workspaceID).Save(items); err != nil {
			log.Printf("mirroring to global store: %v", err)
		}
	}
}

// save is the explicit flush used when auto_save is off.
func (rt *runtime) save() {
	rt.flush(rt.store.Items())
}

// persist flushes after a CLI mutation unless auto_save already did.
func (rt *runtime) persist() {
	if !rt.cfg.AutoSave {
		rt.save()
	}
}

// close flushes analytics and releases the SQLite handle.
func (rt *runtime) close() {
	if err := rt.tracker.Flush(); err != nil {
		log.Printf("flushing analytics: %v", err)
	}
	if rt.global != nil {
		if err := rt.global.Close(); err != nil {
			log.Printf("closing global store: %v", err)
		}
	}
}

// dueSoonHorizon converts the configured due_soon_days to a duration.
func (rt *runtime) dueSoonHorizon() time.Duration {
	return time.Duration(rt.cfg.DueSoonDays) * 24 * time.Hour
}
