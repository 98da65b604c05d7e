package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentences_ContiguousSpans(t *testing.T) {
	text := "First sentence. Second sentence! Is there a third?"

	spans := Sentences(text)

	require.NotEmpty(t, spans)
	assert.Equal(t, 0, spans[0].Start)
	for i := 1; i < len(spans); i++ {
		assert.Equal(t, spans[i-1].End, spans[i].Start)
	}
	assert.Equal(t, len(text), spans[len(spans)-1].End)

	var rebuilt string
	for _, s := range spans {
		rebuilt += s.Text
	}
	assert.Equal(t, text, rebuilt)
}

func TestSentences_SplitsOnTerminators(t *testing.T) {
	spans := Sentences("One is here. Two is here. Three is here.")

	assert.Len(t, spans, 3)
}

func TestSentences_Empty(t *testing.T) {
	assert.Empty(t, Sentences(""))
}

func TestSentenceContaining(t *testing.T) {
	spans := Sentences("The numbers are ready. I attached invoice.pdf today.")

	got := SentenceContaining(spans, "invoice.pdf")
	assert.Equal(t, "I attached invoice.pdf today.", got)

	got = SentenceContaining(spans, "INVOICE.PDF")
	assert.Equal(t, "I attached invoice.pdf today.", got)

	assert.Equal(t, "", SentenceContaining(spans, "missing.txt"))
}
