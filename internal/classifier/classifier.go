// Package classifier maps free-text utterances onto one of a set of
// candidate labels through a single-turn, confidence-gated LLM call.
package classifier

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dmehra/lexassist/internal/llm"
	"github.com/dmehra/lexassist/internal/prompts"
)

// Threshold is the fixed acceptance bound for LLM judgments. It applies
// to intent identification and slot-value mapping alike and is not
// tunable per call site.
const Threshold = 0.70

// ConfidenceTag names the template tag the model reports its confidence in.
const ConfidenceTag = "confidence_score"

// undeterminedSentinel is the answer the prompts instruct the model to
// give when no candidate is a clear match. Compared case-insensitively.
const undeterminedSentinel = "NOT SURE"

// maxOutputTokens is the hard output ceiling for classification calls.
const maxOutputTokens = 1024

// Result is the outcome of one classification. A determined result
// carries the accepted label; an undetermined one carries only the
// confidence the model reported.
type Result struct {
	Label      string
	Confidence float64
}

// Determined reports whether the classification was accepted.
func (r Result) Determined() bool { return r.Label != "" }

// Classifier is the confidence-gated adapter between the dialog policy
// and the LLM provider.
type Classifier struct {
	provider llm.Provider
	model    string
	log      *zap.Logger
}

// New creates a classifier using the given provider and model.
func New(provider llm.Provider, model string, log *zap.Logger) *Classifier {
	return &Classifier{provider: provider, model: model, log: log}
}

// Classify renders the template with the candidate mapping and utterance,
// invokes the LLM once with deterministic settings, and gates the answer:
// the result is determined iff the extracted label is not the sentinel
// and the reported confidence is at least Threshold. A response missing
// the label or confidence tag is a fatal adapter error.
func (c *Classifier) Classify(ctx context.Context, utterance string, candidates map[string]string, template string, labelTag string) (Result, error) {
	prompt := prompts.Render(template, map[string]string{
		"candidates": FormatCandidates(candidates),
		"utterance":  utterance,
	})

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   maxOutputTokens,
		Temperature: 0,
	})
	if err != nil {
		return Result{}, fmt.Errorf("classification call failed: %w", err)
	}

	label, ok := ExtractTagContent(resp.Content, labelTag)
	if !ok {
		return Result{}, fmt.Errorf("malformed LLM output: missing <%s> tag", labelTag)
	}
	confText, ok := ExtractTagContent(resp.Content, ConfidenceTag)
	if !ok {
		return Result{}, fmt.Errorf("malformed LLM output: missing <%s> tag", ConfidenceTag)
	}
	confidence, err := strconv.ParseFloat(confText, 64)
	if err != nil {
		return Result{}, fmt.Errorf("malformed LLM output: confidence %q is not a number", confText)
	}

	if strings.EqualFold(label, undeterminedSentinel) || confidence < Threshold {
		c.log.Info("classification undetermined",
			zap.String("label", label),
			zap.Float64("confidence", confidence))
		return Result{Confidence: confidence}, nil
	}

	c.log.Info("classification determined",
		zap.String("label", label),
		zap.Float64("confidence", confidence))
	return Result{Label: label, Confidence: confidence}, nil
}

// FormatCandidates renders a candidate mapping as one "name: description"
// line per label, sorted for deterministic prompts. Labels without a
// description are rendered bare.
func FormatCandidates(candidates map[string]string) string {
	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString("- ")
		b.WriteString(name)
		if desc := candidates[name]; desc != "" {
			b.WriteString(": ")
			b.WriteString(desc)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
