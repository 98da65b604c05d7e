package nlp

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"
)

// Span is one sentence with its byte offsets in the segmented text.
// Spans are contiguous and cover the entire input.
type Span struct {
	Text  string
	Start int
	End   int
}

// Sentences segments text into sentences per Unicode UAX #29.
func Sentences(text string) []Span {
	if text == "" {
		return nil
	}

	var spans []Span
	pos := 0
	tokens := sentences.FromString(text)
	for tokens.Next() {
		value := tokens.Value()
		spans = append(spans, Span{
			Text:  value,
			Start: pos,
			End:   pos + len(value),
		})
		pos += len(value)
	}
	return spans
}

// SentenceContaining returns the trimmed sentence whose text contains
// needle (case-insensitive), or "" when no sentence matches.
func SentenceContaining(spans []Span, needle string) string {
	lowered := strings.ToLower(needle)
	for _, s := range spans {
		if strings.Contains(strings.ToLower(s.Text), lowered) {
			return strings.TrimSpace(s.Text)
		}
	}
	return ""
}
