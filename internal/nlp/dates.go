package nlp

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// ResolveDate attempts to resolve a natural-language date expression
// ("December 5, 2025", "next Monday", "tomorrow 5pm") to an absolute
// timestamp. Relative expressions are anchored at ref. When
// preferFuture is set, ambiguous expressions resolve to their future
// interpretation. The second return value is false when the text does
// not parse as a date.
func ResolveDate(
	text string, ref time.Time, preferFuture bool,
) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	cfg := &dateparser.Configuration{
		CurrentTime: ref,
	}
	if preferFuture {
		cfg.PreferredDateSource = dateparser.Future
	}

	parsed, err := dateparser.Parse(cfg, text)
	if err != nil || parsed.Time.IsZero() {
		return time.Time{}, false
	}
	return parsed.Time, true
}
