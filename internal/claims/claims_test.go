package claims

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/dmehra/lexassist/internal/llm"
	"github.com/dmehra/lexassist/internal/prompts"
)

type cannedProvider struct {
	content string
	err     error
}

func (p *cannedProvider) Name() string { return "canned" }

func (p *cannedProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.content}, nil
}

func newTestService(t *testing.T, p llm.Provider) *Service {
	t.Helper()
	dir := t.TempDir()
	tpl := "Claim {claim_id} has status {status}. Answer in <response_output></response_output> and <confidence_score></confidence_score> tags."
	if err := os.WriteFile(filepath.Join(dir, prompts.ClaimStatus), []byte(tpl), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewService(p, "test-model", prompts.NewStore(dir), zap.NewNop())
}

func TestValidFormat(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"CLM-123456", true},
		{"CLM-000001", true},
		{"12345", false},
		{"CLM-12345", false},
		{"CLM-1234567", false},
		{"clm-123456", false},
		{"CLM-12345a", false},
		{"", false},
		{"XCLM-123456", false},
	}
	for _, tc := range cases {
		if got := ValidFormat(tc.id); got != tc.valid {
			t.Errorf("ValidFormat(%q) = %v, want %v", tc.id, got, tc.valid)
		}
	}
}

func TestLookup(t *testing.T) {
	s := newTestService(t, &cannedProvider{})
	if got := s.Lookup("CLM-123456"); got != "In Progress" {
		t.Errorf("Lookup(CLM-123456) = %q", got)
	}
	if got := s.Lookup("CLM-999999"); got != "Not Found" {
		t.Errorf("Lookup of unknown claim = %q, want Not Found", got)
	}
}

func TestStatusMessageConfident(t *testing.T) {
	p := &cannedProvider{content: "<response_output>Good news! Claim CLM-123456 is in progress.</response_output><confidence_score>0.92</confidence_score>"}
	s := newTestService(t, p)

	msg, err := s.StatusMessage(context.Background(), "CLM-123456", "In Progress")
	if err != nil {
		t.Fatalf("StatusMessage() error: %v", err)
	}
	if msg != "Good news! Claim CLM-123456 is in progress." {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestStatusMessageLowConfidenceFallsBack(t *testing.T) {
	p := &cannedProvider{content: "<response_output>maybe?</response_output><confidence_score>0.4</confidence_score>"}
	s := newTestService(t, p)

	msg, err := s.StatusMessage(context.Background(), "CLM-123456", "In Progress")
	if err != nil {
		t.Fatalf("StatusMessage() error: %v", err)
	}
	if msg != "Your claim CLM-123456 is currently: In Progress." {
		t.Errorf("expected templated fallback, got %q", msg)
	}
}

func TestStatusMessageMalformedFallsBack(t *testing.T) {
	p := &cannedProvider{content: "no tags at all"}
	s := newTestService(t, p)

	msg, err := s.StatusMessage(context.Background(), "CLM-456789", "Closed")
	if err != nil {
		t.Fatalf("StatusMessage() error: %v", err)
	}
	if msg != "Your claim CLM-456789 is currently: Closed." {
		t.Errorf("expected templated fallback, got %q", msg)
	}
}

func TestStatusMessageProviderErrorPropagates(t *testing.T) {
	p := &cannedProvider{err: errors.New("model unavailable")}
	s := newTestService(t, p)

	if _, err := s.StatusMessage(context.Background(), "CLM-123456", "In Progress"); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
