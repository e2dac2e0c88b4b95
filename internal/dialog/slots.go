package dialog

// SetSlot writes a mapped value into the slot map: the raw utterance is
// kept as the original text and the mapped label becomes both the
// resolved and interpreted value.
func SetSlot(slots map[string]*Slot, name, originalText, value string) {
	slots[name] = &Slot{
		Shape: "Scalar",
		Value: &SlotValue{
			OriginalValue:    originalText,
			ResolvedValues:   []string{value},
			InterpretedValue: value,
		},
	}
}

// Filled reports whether the named slot holds a value.
func Filled(slots map[string]*Slot, name string) bool {
	s, ok := slots[name]
	return ok && s != nil && s.Value != nil
}

// AnyFilled reports whether any slot holds a value.
func AnyFilled(slots map[string]*Slot) bool {
	for name := range slots {
		if Filled(slots, name) {
			return true
		}
	}
	return false
}

// InterpretedValue returns the named slot's interpreted value, or "" when
// the slot is unset.
func InterpretedValue(slots map[string]*Slot, name string) string {
	if !Filled(slots, name) {
		return ""
	}
	return slots[name].Value.InterpretedValue
}
