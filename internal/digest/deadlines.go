package digest

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nhle/mail-digest/internal/model"
	"github.com/nhle/mail-digest/internal/nlp"
)

// deadlineContextRadius is how many bytes of surrounding text are
// inspected for deadline keywords around a date entity.
const deadlineContextRadius = 50

// DeadlineExtractor resolves date/time entities to absolute timestamps
// and keeps the ones that look like due dates.
type DeadlineExtractor struct {
	keywords    []string
	horizonDays int
}

// NewDeadlineExtractor creates an extractor with the given keyword set
// and future-date horizon. Empty arguments fall back to the defaults.
func NewDeadlineExtractor(
	keywords []string, horizonDays int,
) *DeadlineExtractor {
	if len(keywords) == 0 {
		keywords = model.DefaultDeadlineKeywords()
	}
	if horizonDays <= 0 {
		horizonDays = 30
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &DeadlineExtractor{
		keywords:    lowered,
		horizonDays: horizonDays,
	}
}

// Extract returns the deduplicated deadlines found in text, using the
// given entities and reference time. A timestamp qualifies when a
// deadline keyword appears within the context window and the timestamp
// is not in the past, or when an undecorated DATE entity resolves to
// within the horizon. A timestamp equal to the reference time counts as
// future. Results are sorted ascending; order carries no meaning.
func (e *DeadlineExtractor) Extract(
	text string, entities []nlp.Entity, ref time.Time,
) []time.Time {
	byFormat := make(map[string]time.Time)

	for _, ent := range entities {
		switch ent.Label {
		case nlp.LabelDate, nlp.LabelTime, nlp.LabelEvent:
		default:
			continue
		}

		resolved, ok := nlp.ResolveDate(ent.Text, ref, true)
		if !ok {
			continue
		}

		days := daysUntil(ref, resolved)
		if days < 0 {
			continue
		}

		context := contextWindow(text, ent.Start, ent.End)
		if e.hasKeyword(context) ||
			(ent.Label == nlp.LabelDate && days <= e.horizonDays) {
			byFormat[resolved.Format(model.DeadlineFormat)] = resolved
		}
	}

	deadlines := make([]time.Time, 0, len(byFormat))
	for _, t := range byFormat {
		deadlines = append(deadlines, t)
	}
	sort.Slice(deadlines, func(i, j int) bool {
		return deadlines[i].Before(deadlines[j])
	})
	return deadlines
}

// hasKeyword reports whether the lower-cased context contains any
// deadline keyword.
func (e *DeadlineExtractor) hasKeyword(context string) bool {
	for _, k := range e.keywords {
		if strings.Contains(context, k) {
			return true
		}
	}
	return false
}

// contextWindow returns the lower-cased text surrounding [start, end),
// extended by deadlineContextRadius bytes on each side and clamped to
// the text bounds.
func contextWindow(text string, start, end int) string {
	lo := start - deadlineContextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + deadlineContextRadius
	if hi > len(text) {
		hi = len(text)
	}
	if lo > hi {
		return ""
	}
	return strings.ToLower(text[lo:hi])
}

// daysUntil returns the whole-day delta from ref to t, floored so that
// any timestamp before ref is negative while ref itself is day zero.
func daysUntil(ref, t time.Time) int {
	return int(math.Floor(t.Sub(ref).Hours() / 24))
}
