package dialog

// ActionType enumerates the terminal dialog actions.
type ActionType string

const (
	ActionDelegate     ActionType = "Delegate"
	ActionElicitSlot   ActionType = "ElicitSlot"
	ActionElicitIntent ActionType = "ElicitIntent"
	ActionClose        ActionType = "Close"
)

// Action is the tagged decision the policy produces, exactly one per turn.
type Action struct {
	Type         ActionType
	SlotToElicit string // set only for ElicitSlot
}

// Delegate defers the next step back to the host engine.
func Delegate() Action { return Action{Type: ActionDelegate} }

// ElicitSlot prompts the user for the named slot.
func ElicitSlot(slot string) Action {
	return Action{Type: ActionElicitSlot, SlotToElicit: slot}
}

// ElicitIntent prompts the user to restate their goal.
func ElicitIntent() Action { return Action{Type: ActionElicitIntent} }

// Close ends the conversation.
func Close() Action { return Action{Type: ActionClose} }
