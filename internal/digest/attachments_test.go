package digest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-digest/internal/model"
)

func TestAttachments_SentenceContext(t *testing.T) {
	d := NewAttachmentDetector(nil)
	text := "The numbers are ready. I attached invoice.pdf for your review. Thanks."

	got := d.Detect(text)

	require.Len(t, got, 1)
	assert.Equal(t, model.AttachmentMention{
		Filename: "invoice.pdf",
		Context:  "I attached invoice.pdf for your review.",
	}, got[0])
}

func TestAttachments_SortedByFilename(t *testing.T) {
	d := NewAttachmentDetector(nil)
	text := "See report.xlsx and photo.jpg inside."

	got := d.Detect(text)

	require.Len(t, got, 2)
	assert.Equal(t, "photo.jpg", got[0].Filename)
	assert.Equal(t, "report.xlsx", got[1].Filename)
}

func TestAttachments_Deduplicated(t *testing.T) {
	d := NewAttachmentDetector(nil)
	text := "Use invoice.pdf today; the same invoice.pdf was sent before."

	got := d.Detect(text)

	assert.Len(t, got, 1)
}

func TestAttachments_NoMentions(t *testing.T) {
	d := NewAttachmentDetector(nil)

	assert.Empty(t, d.Detect("No files referenced in this message."))
	assert.Empty(t, d.Detect(""))
}

func TestAttachments_UnknownExtensionIgnored(t *testing.T) {
	d := NewAttachmentDetector(nil)

	assert.Empty(t, d.Detect("The server wrote output.bin overnight."))
}

func TestAttachments_CustomExtensions(t *testing.T) {
	d := NewAttachmentDetector([]string{"log"})
	text := "Check system.log and also invoice.pdf."

	got := d.Detect(text)

	require.Len(t, got, 1)
	assert.Equal(t, "system.log", got[0].Filename)
}

func TestAttachments_CaseInsensitiveMatch(t *testing.T) {
	d := NewAttachmentDetector(nil)
	text := "Slides are in Deck.PPTX as promised."

	got := d.Detect(text)

	require.Len(t, got, 1)
	assert.Equal(t, "Deck.PPTX", got[0].Filename)
}

func TestWindowContext_BoldsFilename(t *testing.T) {
	d := NewAttachmentDetector(nil)
	text := "please find the updated invoice.pdf attached to this message"
	start := strings.Index(text, "invoice.pdf")

	got := d.windowContext(text, start, start+len("invoice.pdf"))

	assert.Equal(
		t,
		"please find the updated **invoice.pdf** attached to this message",
		got,
	)
}

func TestWindowContext_TooShortDropped(t *testing.T) {
	d := NewAttachmentDetector(nil)

	assert.Equal(t, "", d.windowContext("a.pdf", 0, 5))
}
