// Package audit persists one record per decided turn so operators can
// inspect what the service told the dialog engine to do and why.
package audit

import "time"

// Decision is a single decided turn.
type Decision struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	SessionID    string    `json:"sessionId"`
	InputMode    string    `json:"inputMode"`
	Utterance    string    `json:"utterance"`
	Intent       string    `json:"intent"`
	Action       string    `json:"action"`
	SlotToElicit string    `json:"slotToElicit,omitempty"`
	IntentState  string    `json:"intentState"`
}
