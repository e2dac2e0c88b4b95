package policy

import "github.com/dmehra/lexassist/internal/dialog"

// NextUnfilledSlot walks the slot order (ascending priority) and returns
// the first slot whose entry in the state is unset. An empty string
// means every ordered slot is filled and the intent is ready for
// fulfillment. Ordered slots absent from the state, and state entries
// absent from the order, contribute nothing.
func NextUnfilledSlot(order []string, slots map[string]*dialog.Slot) string {
	for _, name := range order {
		s, ok := slots[name]
		if !ok {
			continue
		}
		if s == nil || s.Value == nil {
			return name
		}
	}
	return ""
}
