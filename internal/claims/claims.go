// Package claims implements the fixed-lookup fulfillment path for the
// claim-status intent: validate the claim number, resolve its status
// from a static table, and render a closing response.
package claims

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/dmehra/lexassist/internal/classifier"
	"github.com/dmehra/lexassist/internal/llm"
	"github.com/dmehra/lexassist/internal/prompts"
)

const (
	// IntentName is the intent this fulfillment path handles.
	IntentName = "CheckClaimStatus"
	// SlotName carries the claim identifier.
	SlotName = "ClaimNumber"
	// responseTag is the template tag the model renders its answer in.
	responseTag = "response_output"
	// statusNotFound is returned for identifiers absent from the table.
	statusNotFound = "Not Found"
)

// InvalidFormatMessage is the corrective re-elicitation copy.
const InvalidFormatMessage = "A claim number is CLM- followed by six digits, for example CLM-123456. Could you share yours again?"

// claimNumberPattern is the strict identifier format: the CLM- prefix
// followed by exactly six digits.
var claimNumberPattern = regexp.MustCompile(`^CLM-[0-9]{6}$`)

// statusTable is the static claim-status lookup. In-memory, no external
// I/O.
var statusTable = map[string]string{
	"CLM-123456": "In Progress",
	"CLM-234567": "Approved",
	"CLM-345678": "Pending Documents",
	"CLM-456789": "Closed",
	"CLM-567890": "Under Review",
}

// ValidFormat reports whether the identifier matches the claim number
// format.
func ValidFormat(id string) bool {
	return claimNumberPattern.MatchString(id)
}

// Service resolves claim statuses and renders the closing response.
type Service struct {
	provider llm.Provider
	model    string
	prompts  *prompts.Store
	statuses map[string]string
	log      *zap.Logger
}

// NewService creates the fulfillment service over the static status table.
func NewService(provider llm.Provider, model string, store *prompts.Store, log *zap.Logger) *Service {
	return &Service{
		provider: provider,
		model:    model,
		prompts:  store,
		statuses: statusTable,
		log:      log,
	}
}

// Handles reports whether the intent runs the fixed-lookup path.
func (s *Service) Handles(intentName string) bool {
	return intentName == IntentName
}

// Lookup returns the claim's status, defaulting to "Not Found" for
// identifiers absent from the table.
func (s *Service) Lookup(id string) string {
	if status, ok := s.statuses[id]; ok {
		return status
	}
	return statusNotFound
}

// StatusMessage renders the user-facing status text through the LLM,
// gated by the same confidence threshold as classification. A malformed
// or low-confidence rendering degrades to the templated plain-text
// status; a failed LLM call propagates.
func (s *Service) StatusMessage(ctx context.Context, id, status string) (string, error) {
	fallback := fmt.Sprintf("Your claim %s is currently: %s.", id, status)

	template, err := s.prompts.Load(prompts.ClaimStatus)
	if err != nil {
		return "", err
	}
	prompt := prompts.Render(template, map[string]string{
		"claim_id": id,
		"status":   status,
	})

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("rendering claim status: %w", err)
	}

	text, ok := classifier.ExtractTagContent(resp.Content, responseTag)
	if !ok {
		s.log.Warn("claim status rendering missing response tag, using fallback")
		return fallback, nil
	}
	confText, ok := classifier.ExtractTagContent(resp.Content, classifier.ConfidenceTag)
	if !ok {
		s.log.Warn("claim status rendering missing confidence tag, using fallback")
		return fallback, nil
	}
	confidence, err := strconv.ParseFloat(confText, 64)
	if err != nil || confidence < classifier.Threshold {
		s.log.Info("claim status rendering below threshold, using fallback",
			zap.String("confidence", confText))
		return fallback, nil
	}

	return text, nil
}
