package services

import (
	"strings"

	"apartment-hunter/config"
)

// KeywordExtractor scans listing body text for the configured keyword
// groups.
type KeywordExtractor struct {
	groups []config.KeywordGroup
}

// NewKeywordExtractor creates an extractor over the configured groups.
func NewKeywordExtractor(groups []config.KeywordGroup) *KeywordExtractor {
	return &KeywordExtractor{groups: groups}
}

// Extract returns the names of all matched groups plus whether every
// required group matched. Matching is case-insensitive substring matching.
// An empty body yields no matches but a vacuous pass: many postings simply
// have no body, and absence of text is not evidence of a missing amenity.
func (e *KeywordExtractor) Extract(body string) (matched []string, requiredOK bool) {
	if body == "" {
		return nil, true
	}

	lowered := strings.ToLower(body)
	requiredOK = true

	for _, group := range e.groups {
		hit := false
		for _, syn := range group.Synonyms {
			if strings.Contains(lowered, strings.ToLower(syn)) {
				hit = true
				break
			}
		}

		if hit {
			matched = append(matched, group.Name)
		} else if group.Required {
			// Keep scanning so optional matches are still collected.
			requiredOK = false
		}
	}

	return matched, requiredOK
}
