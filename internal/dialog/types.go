package dialog

// InputMode is the channel the user's utterance arrived on.
type InputMode string

const (
	ModeText   InputMode = "Text"
	ModeSpeech InputMode = "Speech"
	ModeDTMF   InputMode = "DTMF"
)

// Voice reports whether the mode requires a spoken prompt.
func (m InputMode) Voice() bool {
	return m == ModeSpeech || m == ModeDTMF
}

// Intent states echoed back to the host engine.
const (
	StateInProgress          = "InProgress"
	StateFailed              = "Failed"
	StateReadyForFulfillment = "ReadyForFulfillment"
	StateFulfilled           = "Fulfilled"
)

// AttemptInitial marks the host engine's first elicitation attempt for a slot.
const AttemptInitial = "Initial"

// Bot identifies the bot build a turn belongs to.
type Bot struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	LocaleID string `json:"localeId"`
}

// SlotValue is the wire value of a filled slot. A slot is either wholly
// unset (nil *Slot in the slot map) or carries all three fields.
type SlotValue struct {
	OriginalValue    string   `json:"originalValue"`
	ResolvedValues   []string `json:"resolvedValues"`
	InterpretedValue string   `json:"interpretedValue"`
}

// Slot wraps a SlotValue in the host engine's wire shape.
type Slot struct {
	Shape string     `json:"shape"`
	Value *SlotValue `json:"value"`
}

// Intent carries the recognized intent and its slot state.
type Intent struct {
	Name  string           `json:"name"`
	Slots map[string]*Slot `json:"slots,omitempty"`
	State string           `json:"state,omitempty"`
}

// WireAction mirrors the host engine's dialogAction object.
type WireAction struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

// Prompt describes the host engine's elicitation attempt counter.
type Prompt struct {
	Attempt string `json:"attempt"`
}

// ProposedNextState is the host engine's own plan for the next turn.
type ProposedNextState struct {
	DialogAction WireAction `json:"dialogAction"`
	Prompt       Prompt     `json:"prompt"`
}

// SessionState is the conversation state the host engine persists and
// echoes back on every turn.
type SessionState struct {
	DialogAction      *WireAction       `json:"dialogAction,omitempty"`
	Intent            Intent            `json:"intent"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
}

// Event is one turn's input from the host engine. It is immutable for
// the duration of one decision.
type Event struct {
	SessionID         string             `json:"sessionId"`
	InputTranscript   string             `json:"inputTranscript"`
	InputMode         InputMode          `json:"inputMode"`
	InvocationSource  string             `json:"invocationSource"`
	Bot               Bot                `json:"bot"`
	SessionState      SessionState       `json:"sessionState"`
	ProposedNextState *ProposedNextState `json:"proposedNextState,omitempty"`
}

// Message is user-facing response text.
type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Response is the turn output handed back to the host engine.
type Response struct {
	SessionState SessionState `json:"sessionState"`
	Messages     []Message    `json:"messages,omitempty"`
}
