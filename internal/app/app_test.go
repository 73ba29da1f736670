package app

import (
	"testing"
	"time"

	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/model"
)

func TestDueSoonWindowFollowsConfig(t *testing.T) {
	cfg := model.AppConfig{DefaultPriority: model.PriorityMedium, DueSoonDays: 3}

	m := New(Options{Config: cfg, Store: checklist.NewStore(cfg.DefaultPriority)})
	if m.horizon != 3*24*time.Hour {
		t.Fatalf("horizon = %v, want 72h", m.horizon)
	}
}

func TestDueSoonWindowFallsBackWhenUnset(t *testing.T) {
	cfg := model.AppConfig{DefaultPriority: model.PriorityMedium}

	m := New(Options{Config: cfg, Store: checklist.NewStore(cfg.DefaultPriority)})
	if m.horizon != DueSoonHorizon {
		t.Fatalf("horizon = %v, want %v", m.horizon, DueSoonHorizon)
	}
}
