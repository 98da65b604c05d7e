package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-digest/internal/model"
	"github.com/nhle/mail-digest/internal/nlp"
)

var deadlineRef = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

// entityAt builds an entity for the first occurrence of substr in text.
func entityAt(t *testing.T, text, substr, label string) nlp.Entity {
	t.Helper()
	start := strings.Index(text, substr)
	require.GreaterOrEqual(t, start, 0, "substring %q not in text", substr)
	return nlp.Entity{
		Text:  substr,
		Label: label,
		Start: start,
		End:   start + len(substr),
	}
}

func formatAll(deadlines []time.Time) []string {
	out := make([]string, len(deadlines))
	for i, d := range deadlines {
		out[i] = d.Format(model.DeadlineFormat)
	}
	return out
}

func TestDeadlines_KeywordContext(t *testing.T) {
	e := NewDeadlineExtractor(nil, 0)
	text := "Please submit the report by December 5, 2025."
	entities := []nlp.Entity{
		entityAt(t, text, "December 5, 2025", nlp.LabelDate),
	}

	got := e.Extract(text, entities, deadlineRef)

	require.Len(t, got, 1)
	assert.Equal(t, "2025-12-05 00:00", got[0].Format(model.DeadlineFormat))
}

func TestDeadlines_PastDateExcluded(t *testing.T) {
	e := NewDeadlineExtractor(nil, 0)
	text := "The invoice was due by January 5, 2020."
	entities := []nlp.Entity{
		entityAt(t, text, "January 5, 2020", nlp.LabelDate),
	}

	assert.Empty(t, e.Extract(text, entities, deadlineRef))
}

func TestDeadlines_NearDateWithoutKeyword(t *testing.T) {
	e := NewDeadlineExtractor(nil, 0)
	text := "The all hands happens December 1, 2025."
	entities := []nlp.Entity{
		entityAt(t, text, "December 1, 2025", nlp.LabelDate),
	}

	got := e.Extract(text, entities, deadlineRef)

	require.Len(t, got, 1)
	assert.Equal(t, "2025-12-01 00:00", got[0].Format(model.DeadlineFormat))
}

func TestDeadlines_FarDateWithoutKeywordExcluded(t *testing.T) {
	e := NewDeadlineExtractor(nil, 0)
	text := "The retreat takes place March 25, 2026."
	entities := []nlp.Entity{
		entityAt(t, text, "March 25, 2026", nlp.LabelDate),
	}

	assert.Empty(t, e.Extract(text, entities, deadlineRef))
}

func TestDeadlines_FarDateWithKeywordIncluded(t *testing.T) {
	e := NewDeadlineExtractor(nil, 0)
	text := "Applications close by March 25, 2026."
	entities := []nlp.Entity{
		entityAt(t, text, "March 25, 2026", nlp.LabelDate),
	}

	got := e.Extract(text, entities, deadlineRef)

	require.Len(t, got, 1)
	assert.Equal(t, "2026-03-25 00:00", got[0].Format(model.DeadlineFormat))
}

func TestDeadlines_Deduplicated(t *testing.T) {
	e := NewDeadlineExtractor(nil, 0)
	text := "Submit by December 5, 2025. Reminder: it is due December 5, 2025."
	first := entityAt(t, text, "December 5, 2025", nlp.LabelDate)
	secondStart := strings.LastIndex(text, "December 5, 2025")
	second := nlp.Entity{
		Text:  "December 5, 2025",
		Label: nlp.LabelDate,
		Start: secondStart,
		End:   secondStart + len("December 5, 2025"),
	}

	got := e.Extract(text, []nlp.Entity{first, second}, deadlineRef)

	assert.Len(t, got, 1)
}

func TestDeadlines_SortedAscending(t *testing.T) {
	e := NewDeadlineExtractor(nil, 0)
	text := "Apply by December 10, 2025. Register by November 28, 2025."
	entities := []nlp.Entity{
		entityAt(t, text, "December 10, 2025", nlp.LabelDate),
		entityAt(t, text, "November 28, 2025", nlp.LabelDate),
	}

	got := e.Extract(text, entities, deadlineRef)

	assert.Equal(
		t,
		[]string{"2025-11-28 00:00", "2025-12-10 00:00"},
		formatAll(got),
	)
}

func TestDeadlines_NonDateLabelsIgnored(t *testing.T) {
	e := NewDeadlineExtractor(nil, 0)
	text := "Submit the form by December 5, 2025."
	entities := []nlp.Entity{
		entityAt(t, text, "December 5, 2025", nlp.LabelPerson),
	}

	assert.Empty(t, e.Extract(text, entities, deadlineRef))
}

func TestDeadlines_UnparsableEntitySkipped(t *testing.T) {
	e := NewDeadlineExtractor(nil, 0)
	text := "Submit before the quarterly window closes."
	entities := []nlp.Entity{
		entityAt(t, text, "the quarterly window", nlp.LabelDate),
	}

	assert.Empty(t, e.Extract(text, entities, deadlineRef))
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 0, daysUntil(deadlineRef, deadlineRef))
	assert.Equal(t, 1, daysUntil(deadlineRef, deadlineRef.Add(25*time.Hour)))
	assert.Equal(t, -1, daysUntil(deadlineRef, deadlineRef.Add(-time.Hour)))
	assert.Equal(t, 0, daysUntil(deadlineRef, deadlineRef.Add(23*time.Hour)))
}
