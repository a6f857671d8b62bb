package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips all markup from model-generated summary text.
// Implements domain.TextSanitizer.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer with a strict (no tags) policy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize removes tags and returns plain text. Entities escaped by the
// policy are decoded again since output is rendered as text, not HTML.
func (s *Sanitizer) Sanitize(text string) string {
	cleaned := s.policy.Sanitize(text)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
