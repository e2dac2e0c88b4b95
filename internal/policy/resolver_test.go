package policy

import (
	"testing"

	"github.com/dmehra/lexassist/internal/dialog"
)

func TestNextUnfilledSlotPriorityOrder(t *testing.T) {
	order := []string{"Origin", "Destination", "TravelDate"}
	slots := map[string]*dialog.Slot{
		"Origin":      nil,
		"Destination": nil,
		"TravelDate":  nil,
	}

	if got := NextUnfilledSlot(order, slots); got != "Origin" {
		t.Errorf("expected first slot by priority, got %q", got)
	}
}

func TestNextUnfilledSlotIdempotent(t *testing.T) {
	order := []string{"A", "B"}
	slots := map[string]*dialog.Slot{"A": nil, "B": nil}

	first := NextUnfilledSlot(order, slots)
	second := NextUnfilledSlot(order, slots)
	if first != second {
		t.Errorf("resolver not idempotent: %q then %q", first, second)
	}
}

func TestNextUnfilledSlotStrictProgress(t *testing.T) {
	order := []string{"A", "B", "C"}
	slots := map[string]*dialog.Slot{"A": nil, "B": nil, "C": nil}

	seen := map[string]bool{}
	for {
		next := NextUnfilledSlot(order, slots)
		if next == "" {
			break
		}
		if seen[next] {
			t.Fatalf("slot %q returned twice after being filled", next)
		}
		seen[next] = true
		dialog.SetSlot(slots, next, "utterance", "value")
	}
	if len(seen) != 3 {
		t.Errorf("expected all 3 slots visited, got %d", len(seen))
	}
}

func TestNextUnfilledSlotAllFilled(t *testing.T) {
	order := []string{"A"}
	slots := map[string]*dialog.Slot{"A": nil}
	dialog.SetSlot(slots, "A", "x", "y")

	if got := NextUnfilledSlot(order, slots); got != "" {
		t.Errorf("expected none pending, got %q", got)
	}
}

func TestNextUnfilledSlotEmptyOrder(t *testing.T) {
	if got := NextUnfilledSlot(nil, map[string]*dialog.Slot{"A": nil}); got != "" {
		t.Errorf("empty catalog must signal ready, got %q", got)
	}
}

func TestNextUnfilledSlotIgnoresUnknownStateEntries(t *testing.T) {
	// A slot in the state but not in the catalog contributes no
	// ordering signal.
	order := []string{"A"}
	slots := map[string]*dialog.Slot{"Stray": nil, "A": nil}
	dialog.SetSlot(slots, "A", "x", "y")

	if got := NextUnfilledSlot(order, slots); got != "" {
		t.Errorf("stray state entry must not block progress, got %q", got)
	}
}

func TestNextUnfilledSlotSkipsOrderedSlotMissingFromState(t *testing.T) {
	order := []string{"Ghost", "A"}
	slots := map[string]*dialog.Slot{"A": nil}

	if got := NextUnfilledSlot(order, slots); got != "A" {
		t.Errorf("expected %q, got %q", "A", got)
	}
}
