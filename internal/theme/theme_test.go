package theme

import (
	"testing"

	"github.com/pasperfection/checklist/internal/model"
)

func TestNamedFallsBackToDefault(t *testing.T) {
	got := Named("no-such-theme")
	if got.Name != DefaultName {
		t.Fatalf("Name = %q, want %q", got.Name, DefaultName)
	}
}

func TestNamesIncludesAllPalettes(t *testing.T) {
	names := Names()
	if len(names) != len(palettes) {
		t.Fatalf("Names() = %v, want %d entries", names, len(palettes))
	}
	for _, name := range names {
		if !Known(name) {
			t.Errorf("Known(%q) = false for a listed theme", name)
		}
	}
}

func TestIcons(t *testing.T) {
	icons := model.IconConfig{High: "!", Medium: "-", Low: ".", Completed: "x", Pending: "o"}
	if got := PriorityIcon(icons, model.PriorityHigh); got != "!" {
		t.Errorf("PriorityIcon(high) = %q", got)
	}
	if got := PriorityIcon(icons, model.PriorityNone); got != " " {
		t.Errorf("PriorityIcon(none) = %q", got)
	}
	if got := StatusIcon(icons, true); got != "x" {
		t.Errorf("StatusIcon(done) = %q", got)
	}
}
