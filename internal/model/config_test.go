package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DefaultPriority != PriorityMedium {
		t.Errorf("DefaultPriority = %q, want %q", cfg.DefaultPriority, PriorityMedium)
	}
	if !cfg.AutoSave || !cfg.AutoBackup || !cfg.ScanOnStartup {
		t.Errorf("expected auto_save, auto_backup and scan_on_startup to default on")
	}
	if cfg.DueSoonDays != 7 {
		t.Errorf("DueSoonDays = %d, want 7", cfg.DueSoonDays)
	}
	if cfg.Display.Theme != "default" || !cfg.Display.ShowStatusBar {
		t.Errorf("unexpected display defaults: %+v", cfg.Display)
	}
	if cfg.Icons.Completed == "" || cfg.Icons.Pending == "" {
		t.Errorf("expected default icons, got %+v", cfg.Icons)
	}
}

func TestLoadConfigMergesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "default_priority: low\ndisplay:\n  theme: modern-dark\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DefaultPriority != PriorityLow {
		t.Errorf("DefaultPriority = %q, want %q", cfg.DefaultPriority, PriorityLow)
	}
	if cfg.Display.Theme != "modern-dark" {
		t.Errorf("Theme = %q, want modern-dark", cfg.Display.Theme)
	}
	// Untouched keys keep their defaults.
	if cfg.SortOrder.By != "priority" || cfg.SortOrder.Direction != "desc" {
		t.Errorf("unexpected sort order: %+v", cfg.SortOrder)
	}
	if !cfg.AnalyticsEnabled {
		t.Error("AnalyticsEnabled should default to true")
	}
}

func TestLoadConfigSanitizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "default_priority: urgent\ndue_soon_days: -3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DefaultPriority != PriorityMedium {
		t.Errorf("invalid priority should fall back to medium, got %q", cfg.DefaultPriority)
	}
	if cfg.DueSoonDays != 7 {
		t.Errorf("non-positive due_soon_days should fall back to 7, got %d", cfg.DueSoonDays)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.DefaultPriority = PriorityHigh
	cfg.AutoSave = false
	cfg.DefaultTemplate = "go-service"
	cfg.Display.Theme = "ocean-dark"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.DefaultPriority != PriorityHigh {
		t.Errorf("DefaultPriority = %q, want high", got.DefaultPriority)
	}
	if got.AutoSave {
		t.Error("AutoSave should round-trip as false")
	}
	if got.DefaultTemplate != "go-service" {
		t.Errorf("DefaultTemplate = %q, want go-service", got.DefaultTemplate)
	}
	if got.Display.Theme != "ocean-dark" {
		t.Errorf("Theme = %q, want ocean-dark", got.Display.Theme)
	}
}
