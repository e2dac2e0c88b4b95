// Package policy is the dialog decision state machine: given one turn's
// intent, slot state, and the host engine's proposed next state, it
// produces exactly one dialog action, consulting the LLM classifier for
// fallback intents and enumerable slot values.
package policy

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dmehra/lexassist/internal/catalog"
	"github.com/dmehra/lexassist/internal/claims"
	"github.com/dmehra/lexassist/internal/classifier"
	"github.com/dmehra/lexassist/internal/dialog"
	"github.com/dmehra/lexassist/internal/prompts"
)

// FallbackIntentName is the host engine's intent for unrecognized input.
const FallbackIntentName = "FallbackIntent"

// elicitedSlotAttr is the session attribute tracking which slot the bot
// is currently asking the user for.
const elicitedSlotAttr = "elicited_slot_type"

// invocationDialogCodeHook marks a turn triggered during slot collection.
const invocationDialogCodeHook = "DialogCodeHook"

// reanchorMessage is the fixed re-prompt when the intent stays unknown.
// It is attached on every channel: re-prompting needs user-facing text.
const reanchorMessage = "I'm sorry, I didn't understand that. Could you please rephrase your request?"

// Tag names the prompt templates instruct the model to answer in.
const (
	intentLabelTag = "intent_output"
	slotLabelTag   = "slot_output"
)

// Policy decides one dialog action per turn. It holds no state between
// turns; everything it needs arrives in the event or is fetched fresh.
type Policy struct {
	catalog    catalog.Catalog
	classifier *classifier.Classifier
	prompts    *prompts.Store
	claims     *claims.Service
	log        *zap.Logger
}

// New creates a policy over the given collaborators.
func New(cat catalog.Catalog, cls *classifier.Classifier, store *prompts.Store, claimSvc *claims.Service, log *zap.Logger) *Policy {
	return &Policy{
		catalog:    cat,
		classifier: cls,
		prompts:    store,
		claims:     claimSvc,
		log:        log,
	}
}

// Decide computes the turn's single dialog action.
func (p *Policy) Decide(ctx context.Context, ev *dialog.Event) (*dialog.Response, error) {
	intent := ev.SessionState.Intent
	slots := intent.Slots
	if slots == nil {
		slots = map[string]*dialog.Slot{}
	}
	attrs := ev.SessionState.SessionAttributes
	if attrs == nil {
		attrs = map[string]string{}
	}

	switch {
	case intent.Name == FallbackIntentName:
		return p.identifyIntent(ctx, ev, attrs)

	case p.claims != nil && p.claims.Handles(intent.Name) && dialog.Filled(slots, claims.SlotName):
		return p.fulfillClaim(ctx, ev, intent.Name, slots, attrs)

	case initialRecognition(ev, slots):
		// The host engine's own first-pass slot collection must run
		// before any assistance kicks in.
		p.log.Debug("initial elicitation attempt, deferring to host engine")
		return p.delegate(ev, intent.Name, slots, attrs), nil

	default:
		if slot := pendingElicitation(ev, attrs); slot != "" {
			return p.assistSlot(ctx, ev, intent.Name, slot, slots, attrs)
		}
		return p.delegate(ev, intent.Name, slots, attrs), nil
	}
}

// initialRecognition reports whether the host proposes the very first
// elicitation attempt for an intent whose slots are all still empty.
func initialRecognition(ev *dialog.Event, slots map[string]*dialog.Slot) bool {
	pns := ev.ProposedNextState
	return pns != nil &&
		pns.DialogAction.Type == string(dialog.ActionElicitSlot) &&
		pns.Prompt.Attempt == dialog.AttemptInitial &&
		!dialog.AnyFilled(slots)
}

// pendingElicitation resolves which slot is currently being elicited:
// either recorded in session attributes on an earlier turn, or signaled
// by the host through a dialog code-hook invocation with an in-progress
// (non-initial) elicitation.
func pendingElicitation(ev *dialog.Event, attrs map[string]string) string {
	if slot := attrs[elicitedSlotAttr]; slot != "" {
		return slot
	}
	pns := ev.ProposedNextState
	if ev.InvocationSource == invocationDialogCodeHook &&
		pns != nil &&
		pns.DialogAction.Type == string(dialog.ActionElicitSlot) &&
		pns.Prompt.Attempt != dialog.AttemptInitial {
		return pns.DialogAction.SlotToElicit
	}
	return ""
}

// IdentifyIntentLabel classifies an utterance against the bot's intent
// catalog without touching dialog state.
func (p *Policy) IdentifyIntentLabel(ctx context.Context, utterance string) (classifier.Result, error) {
	intents, err := p.catalog.Intents(ctx)
	if err != nil {
		return classifier.Result{}, err
	}

	template, err := p.prompts.Load(prompts.IntentIdentification)
	if err != nil {
		return classifier.Result{}, err
	}

	return p.classifier.Classify(ctx, utterance, intents, template, intentLabelTag)
}

// identifyIntent asks the LLM to pick the user's intent from the bot's
// full catalog.
func (p *Policy) identifyIntent(ctx context.Context, ev *dialog.Event, attrs map[string]string) (*dialog.Response, error) {
	res, err := p.IdentifyIntentLabel(ctx, ev.InputTranscript)
	if err != nil {
		return nil, err
	}
	if !res.Determined() {
		return p.intentFailed(ev, attrs), nil
	}

	newSlots, err := p.catalog.Slots(ctx, res.Label)
	if errors.Is(err, catalog.ErrNotFound) {
		// The model named an intent the bot does not define. Treat the
		// turn like an undetermined classification.
		p.log.Warn("classified intent missing from bot definition",
			zap.String("intent", res.Label))
		return p.intentFailed(ev, attrs), nil
	}
	if err != nil {
		return nil, err
	}

	order, err := p.catalog.SlotOrder(ctx, res.Label)
	if err != nil {
		return nil, err
	}

	next := NextUnfilledSlot(order, newSlots)
	if next == "" {
		// Intent takes no slots; the host runs fulfillment.
		delete(attrs, elicitedSlotAttr)
		return dialog.Assemble(dialog.Result{
			Action:            dialog.Delegate(),
			IntentName:        res.Label,
			Slots:             newSlots,
			IntentState:       dialog.StateReadyForFulfillment,
			SessionAttributes: attrs,
		}, ev.InputMode), nil
	}

	attrs[elicitedSlotAttr] = next
	p.log.Info("intent identified, eliciting first slot",
		zap.String("intent", res.Label),
		zap.String("slot", next))
	return dialog.Assemble(dialog.Result{
		Action:            dialog.ElicitSlot(next),
		IntentName:        res.Label,
		Slots:             newSlots,
		IntentState:       dialog.StateInProgress,
		SessionAttributes: attrs,
	}, ev.InputMode), nil
}

// intentFailed re-elicits the intent with the fixed re-prompt.
func (p *Policy) intentFailed(ev *dialog.Event, attrs map[string]string) *dialog.Response {
	return dialog.Assemble(dialog.Result{
		Action:            dialog.ElicitIntent(),
		IntentName:        FallbackIntentName,
		IntentState:       dialog.StateFailed,
		SessionAttributes: attrs,
		Message:           reanchorMessage,
		AlwaysMessage:     true,
	}, ev.InputMode)
}

// assistSlot asks the LLM to map the utterance onto one of the elicited
// slot's enumerated values.
func (p *Policy) assistSlot(ctx context.Context, ev *dialog.Event, intentName, slotName string, slots map[string]*dialog.Slot, attrs map[string]string) (*dialog.Response, error) {
	values, err := p.catalog.SlotValues(ctx, intentName, slotName)
	if errors.Is(err, catalog.ErrNotFound) {
		p.log.Warn("elicited slot unknown to bot definition, delegating",
			zap.String("intent", intentName),
			zap.String("slot", slotName))
		return p.delegate(ev, intentName, slots, attrs), nil
	}
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		// Built-in slot type or degraded lookup: no assistance
		// available, hand the turn back unmodified.
		return p.delegate(ev, intentName, slots, attrs), nil
	}

	template, err := p.prompts.Load(prompts.SlotAssistance)
	if err != nil {
		return nil, err
	}
	candidates := make(map[string]string, len(values))
	for _, v := range values {
		candidates[v] = ""
	}

	res, err := p.classifier.Classify(ctx, ev.InputTranscript, candidates, template, slotLabelTag)
	if err != nil {
		return nil, err
	}
	if !res.Determined() {
		// Ask for the same slot again.
		return dialog.Assemble(dialog.Result{
			Action:            dialog.ElicitSlot(slotName),
			IntentName:        intentName,
			Slots:             slots,
			IntentState:       dialog.StateInProgress,
			SessionAttributes: attrs,
		}, ev.InputMode), nil
	}

	dialog.SetSlot(slots, slotName, ev.InputTranscript, res.Label)
	p.log.Info("slot value mapped",
		zap.String("slot", slotName),
		zap.String("value", res.Label))

	order, err := p.catalog.SlotOrder(ctx, intentName)
	if err != nil {
		return nil, err
	}
	next := NextUnfilledSlot(order, slots)
	if next != "" {
		attrs[elicitedSlotAttr] = next
		return dialog.Assemble(dialog.Result{
			Action:            dialog.ElicitSlot(next),
			IntentName:        intentName,
			Slots:             slots,
			IntentState:       dialog.StateInProgress,
			SessionAttributes: attrs,
		}, ev.InputMode), nil
	}

	delete(attrs, elicitedSlotAttr)
	return dialog.Assemble(dialog.Result{
		Action:            dialog.Delegate(),
		IntentName:        intentName,
		Slots:             slots,
		IntentState:       dialog.StateReadyForFulfillment,
		SessionAttributes: attrs,
	}, ev.InputMode), nil
}

// fulfillClaim runs the fixed-lookup path: validate the claim number,
// resolve its status, and close the conversation with a rendered or
// templated message. A format mismatch re-elicits the slot instead.
func (p *Policy) fulfillClaim(ctx context.Context, ev *dialog.Event, intentName string, slots map[string]*dialog.Slot, attrs map[string]string) (*dialog.Response, error) {
	id := dialog.InterpretedValue(slots, claims.SlotName)
	if !claims.ValidFormat(id) {
		p.log.Info("claim number failed format validation", zap.String("claimNumber", id))
		// Clear the rejected value so the next turn re-collects it.
		slots[claims.SlotName] = nil
		attrs[elicitedSlotAttr] = claims.SlotName
		return dialog.Assemble(dialog.Result{
			Action:            dialog.ElicitSlot(claims.SlotName),
			IntentName:        intentName,
			Slots:             slots,
			IntentState:       dialog.StateInProgress,
			SessionAttributes: attrs,
			Message:           claims.InvalidFormatMessage,
			AlwaysMessage:     true,
		}, ev.InputMode), nil
	}

	status := p.claims.Lookup(id)
	message, err := p.claims.StatusMessage(ctx, id, status)
	if err != nil {
		return nil, err
	}

	delete(attrs, elicitedSlotAttr)
	p.log.Info("claim fulfilled",
		zap.String("claimNumber", id),
		zap.String("status", status))
	return dialog.Assemble(dialog.Result{
		Action:            dialog.Close(),
		IntentName:        intentName,
		Slots:             slots,
		IntentState:       dialog.StateFulfilled,
		SessionAttributes: attrs,
		Message:           message,
		AlwaysMessage:     true,
	}, ev.InputMode), nil
}

// delegate hands the turn back to the host engine untouched, recording
// the slot the host plans to elicit next so the following turn can
// assist it.
func (p *Policy) delegate(ev *dialog.Event, intentName string, slots map[string]*dialog.Slot, attrs map[string]string) *dialog.Response {
	if pns := ev.ProposedNextState; pns != nil && pns.DialogAction.SlotToElicit != "" {
		attrs[elicitedSlotAttr] = pns.DialogAction.SlotToElicit
	} else {
		delete(attrs, elicitedSlotAttr)
	}
	return dialog.Assemble(dialog.Result{
		Action:            dialog.Delegate(),
		IntentName:        intentName,
		Slots:             slots,
		IntentState:       dialog.StateInProgress,
		SessionAttributes: attrs,
	}, ev.InputMode)
}
