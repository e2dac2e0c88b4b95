// Package catalog reads the bot definition (intents, slots, priorities,
// slot-type values) from the recognizer service.
package catalog

import (
	"context"
	"errors"

	"github.com/dmehra/lexassist/internal/dialog"
)

// ErrNotFound marks an intent or slot missing from the bot definition.
// Callers must treat it as "cannot proceed" for the lookup's subject and
// must not attempt downstream resolution.
var ErrNotFound = errors.New("not found in bot definition")

// Catalog exposes the bot-definition lookups the dialog policy needs.
// Every method fetches fresh data; nothing is cached across turns.
type Catalog interface {
	// Intents returns every intent name mapped to its description.
	Intents(ctx context.Context) (map[string]string, error)

	// Slots returns an all-unset slot map for the intent, one entry per
	// declared slot.
	Slots(ctx context.Context, intentName string) (map[string]*dialog.Slot, error)

	// SlotOrder returns the intent's slot names in ascending priority
	// (lower rank is elicited sooner). Slots without a priority entry,
	// and priority entries that do not resolve to a known slot, are
	// dropped from the ordering.
	SlotOrder(ctx context.Context, intentName string) ([]string, error)

	// SlotValues returns the sample values of the slot's type. A nil
	// slice with a nil error means no enumerable domain is available
	// (built-in slot type, or a degraded lookup) and LLM assistance
	// must be skipped for the slot.
	SlotValues(ctx context.Context, intentName, slotName string) ([]string, error)
}
