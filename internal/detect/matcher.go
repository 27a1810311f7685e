// Package detect implements the per-message detection pipeline: the pattern
// matcher that maps free text to fraud-signal categories, and the risk scorer
// that folds matched categories into a bounded confidence score.
//
// Both are pure with respect to session state — they look only at the message
// in hand. Cross-turn accumulation lives in the session store.
package detect

import (
	"sort"

	"scambait/honeypot-api/internal/catalog"
	"scambait/honeypot-api/internal/domain"
)

// Matcher finds which signal categories are present in a message.
type Matcher struct {
	cat *catalog.Catalog
}

// NewMatcher creates a matcher backed by the given catalog.
func NewMatcher(c *catalog.Catalog) *Matcher {
	return &Matcher{cat: c}
}

// Match returns the categories with at least one trigger present in text,
// plus the distinct trigger phrases that fired. Triggers match only as whole
// words or contiguous whole phrases: "I know the deadline" fires "deadline"
// but never the "now" hiding inside "know".
//
// Match is pure and deterministic; both result slices come back sorted.
func (m *Matcher) Match(text string) domain.MatchResult {
	result := domain.MatchResult{
		Categories: []string{},
		Signals:    []string{},
	}

	normalized := catalog.Normalize(text)
	if normalized == "" {
		return result
	}

	rules := m.cat.Rules()
	seenSignal := make(map[string]bool)

	for _, cat := range rules.Categories {
		matched := false
		for _, trig := range cat.Triggers {
			if !trig.MatchIn(normalized) {
				continue
			}
			matched = true
			if !seenSignal[trig.Phrase] {
				seenSignal[trig.Phrase] = true
				result.Signals = append(result.Signals, trig.Phrase)
			}
		}
		if matched {
			result.Categories = append(result.Categories, cat.Name)
		}
	}

	sort.Strings(result.Categories)
	sort.Strings(result.Signals)
	return result
}
