package cli

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasperfection/checklist/internal/app"
	"github.com/pasperfection/checklist/internal/model"
	"github.com/pasperfection/checklist/internal/notify"
)

// runTUI wires the runtime into the Bubble Tea program and blocks until
// the user quits.
func runTUI(a *App) error {
	rt, err := a.load()
	if err != nil {
		return err
	}
	defer rt.close()

	queue := notify.NewQueue()

	if rt.cfg.AnalyticsEnabled {
		rt.tracker.Start(app.AnalyticsFlushInterval)
		defer rt.tracker.Stop()
	}
	rt.tracker.Track("session_started", nil)

	// External edits to the workspace file land on this channel; the
	// program re-arms a wait command after each delivery. A stale
	// snapshot is dropped rather than blocking the watcher goroutine.
	changes := make(chan []*model.Item, 1)
	if err := rt.workspace.Watch(func(items []*model.Item) {
		select {
		case changes <- items:
		default:
		}
	}); err != nil {
		log.Printf("watching workspace file: %v (external edits will not refresh)", err)
	}
	defer rt.workspace.StopWatch()

	cfgPath := a.ConfigPath
	if cfgPath == "" {
		cfgPath = model.DefaultConfigPath()
	}
	root := app.New(app.Options{
		Config:      *rt.cfg,
		Store:       rt.store,
		Backups:     rt.backups,
		Queue:       queue,
		Tracker:     rt.tracker,
		ConfigPath:  cfgPath,
		FileChanges: changes,
	})

	program := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
