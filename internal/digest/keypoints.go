package digest

import (
	"strings"

	"github.com/nhle/mail-digest/internal/model"
	"github.com/nhle/mail-digest/internal/nlp"
)

// keyPointLabels are the entity labels whose presence makes a sentence
// a key point.
var keyPointLabels = map[string]bool{
	nlp.LabelPerson:  true,
	nlp.LabelOrg:     true,
	nlp.LabelGPE:     true,
	nlp.LabelProduct: true,
	nlp.LabelEvent:   true,
	nlp.LabelMoney:   true,
}

// KeyPointExtractor selects sentences likely to carry action items or
// important information.
type KeyPointExtractor struct {
	indicators []string
}

// NewKeyPointExtractor creates an extractor with the given
// action-indicator phrase list, falling back to the defaults when
// empty.
func NewKeyPointExtractor(indicators []string) *KeyPointExtractor {
	if len(indicators) == 0 {
		indicators = model.DefaultActionIndicators()
	}
	lowered := make([]string, len(indicators))
	for i, p := range indicators {
		lowered[i] = strings.ToLower(p)
	}
	return &KeyPointExtractor{indicators: lowered}
}

// Extract returns qualifying sentences in first-occurrence order with
// exact duplicates suppressed. A sentence qualifies when it contains an
// action indicator, contains a significant entity, or is a question.
func (e *KeyPointExtractor) Extract(
	text string, entities []nlp.Entity,
) []string {
	var keyPoints []string
	seen := make(map[string]bool)

	for _, sent := range nlp.Sentences(text) {
		trimmed := strings.TrimSpace(sent.Text)
		if trimmed == "" || seen[trimmed] {
			continue
		}

		if e.hasIndicator(trimmed) ||
			hasSignificantEntity(sent, entities) ||
			strings.HasSuffix(trimmed, "?") {
			keyPoints = append(keyPoints, trimmed)
			seen[trimmed] = true
		}
	}

	return keyPoints
}

// hasIndicator reports whether the sentence contains any configured
// action-indicator phrase, case-insensitively.
func (e *KeyPointExtractor) hasIndicator(sentence string) bool {
	lowered := strings.ToLower(sentence)
	for _, p := range e.indicators {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// hasSignificantEntity reports whether any key-point entity overlaps
// the sentence span.
func hasSignificantEntity(sent nlp.Span, entities []nlp.Entity) bool {
	for _, ent := range entities {
		if !keyPointLabels[ent.Label] {
			continue
		}
		if ent.Start < sent.End && ent.End > sent.Start {
			return true
		}
	}
	return false
}
