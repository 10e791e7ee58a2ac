// Package content cleans author-supplied lesson bodies before they are
// stored.
package content

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a policy on top of bluemonday's UGC policy. Lessons may
// embed formatted text, links, images and code samples, but no scripts,
// frames, styles or event handlers.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	p.RequireNoFollowOnLinks(false)
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &Sanitizer{policy: p}
}

// Sanitize returns the cleaned HTML. Plain text passes through unchanged
// apart from HTML escaping of markup characters.
func (s *Sanitizer) Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	return s.policy.Sanitize(raw)
}
