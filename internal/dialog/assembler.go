package dialog

// Result couples the policy's chosen action with the state and optional
// user-facing text to hand back to the host engine.
type Result struct {
	Action            Action
	IntentName        string
	Slots             map[string]*Slot
	IntentState       string
	SessionAttributes map[string]string
	Message           string
	// AlwaysMessage forces the message onto the response even for text
	// channels. Intent re-prompts and fulfillment summaries must reach
	// the user on every channel; slot prompts are spoken only on voice
	// channels because the host engine renders its own text prompts.
	AlwaysMessage bool
}

// Assemble renders a policy result into the host engine's wire structure.
// A spoken prompt is attached only when the channel is voice-class,
// unless the result demands the message on every channel.
func Assemble(res Result, mode InputMode) *Response {
	resp := &Response{
		SessionState: SessionState{
			DialogAction: &WireAction{
				Type:         string(res.Action.Type),
				SlotToElicit: res.Action.SlotToElicit,
			},
			Intent: Intent{
				Name:  res.IntentName,
				Slots: res.Slots,
				State: res.IntentState,
			},
			SessionAttributes: res.SessionAttributes,
		},
	}
	if res.Message != "" && (res.AlwaysMessage || mode.Voice()) {
		resp.Messages = append(resp.Messages, Message{
			ContentType: "PlainText",
			Content:     res.Message,
		})
	}
	return resp
}
