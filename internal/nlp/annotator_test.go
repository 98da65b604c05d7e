package nlp

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMentions_PlainJSON(t *testing.T) {
	got, err := parseMentions(
		`[{"text": "Acme Corp", "label": "ORG"}]`,
	)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Mention{Text: "Acme Corp", Label: "ORG"}, got[0])
}

func TestParseMentions_FencedJSON(t *testing.T) {
	raw := "```json\n" +
		`[{"text": "Friday", "label": "DATE"}]` +
		"\n```"

	got, err := parseMentions(raw)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Friday", got[0].Text)
}

func TestParseMentions_BareFence(t *testing.T) {
	raw := "```\n[]\n```"

	got, err := parseMentions(raw)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseMentions_Invalid(t *testing.T) {
	_, err := parseMentions("not json at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding entity list")
}

func TestResolveMentions_AllOccurrences(t *testing.T) {
	text := "Acme hired Bob. Acme also hired Carol."

	got := ResolveMentions(text, []Mention{
		{Text: "Acme", Label: "ORG"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 4, got[0].End)
	assert.Equal(t, "Acme", got[0].Text)
	assert.Equal(t, 16, got[1].Start)
}

func TestResolveMentions_CaseInsensitive(t *testing.T) {
	text := "ACME announced a merger."

	got := ResolveMentions(text, []Mention{
		{Text: "acme", Label: "ORG"},
	})

	require.Len(t, got, 1)
	// The entity text preserves the original casing.
	assert.Equal(t, "ACME", got[0].Text)
	assert.Equal(t, "ORG", got[0].Label)
}

func TestResolveMentions_DuplicateMentionsResolveOnce(t *testing.T) {
	text := "Acme announced a merger."

	got := ResolveMentions(text, []Mention{
		{Text: "Acme", Label: "ORG"},
		{Text: "acme", Label: "ORG"},
	})

	assert.Len(t, got, 1)
}

func TestResolveMentions_CaseFoldShrinksLoweredText(t *testing.T) {
	// U+0130 is 2 bytes but lowercases to the 1-byte "i", so lowered
	// offsets drift left of the original ones.
	text := "İİİ report.pdf"

	got := ResolveMentions(text, []Mention{
		{Text: "report.pdf", Label: "PRODUCT"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "report.pdf", got[0].Text)
	assert.Equal(t, strings.Index(text, "report.pdf"), got[0].Start)
	assert.Equal(t, got[0].Start+len("report.pdf"), got[0].End)
}

func TestResolveMentions_CaseFoldGrowsLoweredText(t *testing.T) {
	// U+023A is 2 bytes but lowercases to the 3-byte U+2C65, so the
	// lowered string is longer than the original; offsets taken from it
	// must not run past the original's end.
	text := "ȺȺȺ abc"

	got := ResolveMentions(text, []Mention{
		{Text: "abc", Label: "ORG"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].Text)
	assert.Equal(t, strings.Index(text, "abc"), got[0].Start)
	assert.Equal(t, got[0].Start+len("abc"), got[0].End)
}

func TestResolveMentions_AbsentMentionDropped(t *testing.T) {
	got := ResolveMentions("Nothing relevant here.", []Mention{
		{Text: "Acme", Label: "ORG"},
		{Text: "", Label: "ORG"},
		{Text: "Nothing", Label: ""},
	})

	assert.Empty(t, got)
}

func TestSummarize_EmptyInput(t *testing.T) {
	s := NewOpenAISummarizer(nil, "", 0, 0, zerolog.Nop())

	got := s.Summarize(context.Background(), "   \n ")

	assert.Equal(t, SummaryNoContent, got)
}

func TestAnnotate_EmptyInput(t *testing.T) {
	a := NewOpenAIAnnotator(nil, "", zerolog.Nop())

	got, err := a.Annotate(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, got)
}
