// Package prompts loads and renders the externally supplied prompt
// templates the assist logic feeds to the LLM.
package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Template file names resolved against the store's directory.
const (
	IntentIdentification = "intent_identification_prompt.txt"
	SlotAssistance       = "slot_assistance_prompt.txt"
	ClaimStatus          = "claim_status_prompt.txt"
)

// Store reads prompt templates from a directory. Templates are read
// fresh on every call so operators can edit them without a restart;
// nothing is cached or validated beyond substitution.
type Store struct {
	dir string
}

// NewStore creates a template store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the named template file.
func (s *Store) Load(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("loading prompt template %s: %w", name, err)
	}
	return string(data), nil
}

// Render substitutes {name} placeholders in the template with the given
// values. Placeholders without a value are left verbatim.
func Render(template string, vars map[string]string) string {
	out := template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
