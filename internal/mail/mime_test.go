package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crlf rewrites message literals to the CRLF line endings the MIME
// parser expects.
func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestDecodeMIMEBody_PlainText(t *testing.T) {
	raw := crlf(`From: alice@example.com
To: bob@example.com
Subject: Status
Content-Type: text/plain; charset=utf-8

The report is ready.
`)

	text, html, attachments := DecodeMIMEBody(raw)

	assert.Contains(t, text, "The report is ready.")
	assert.Empty(t, html)
	assert.Empty(t, attachments)
}

func TestDecodeMIMEBody_MultipartAlternative(t *testing.T) {
	raw := crlf(`From: alice@example.com
To: bob@example.com
Subject: Status
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary=BOUNDARY

--BOUNDARY
Content-Type: text/plain; charset=utf-8

Plain body here.
--BOUNDARY
Content-Type: text/html; charset=utf-8

<p>HTML body here.</p>
--BOUNDARY--
`)

	text, html, attachments := DecodeMIMEBody(raw)

	assert.Contains(t, text, "Plain body here.")
	assert.Contains(t, html, "<p>HTML body here.</p>")
	assert.Empty(t, attachments)
}

func TestDecodeMIMEBody_AttachmentMetadata(t *testing.T) {
	raw := crlf(`From: alice@example.com
To: bob@example.com
Subject: Invoice
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary=BOUNDARY

--BOUNDARY
Content-Type: text/plain; charset=utf-8

Invoice attached.
--BOUNDARY
Content-Type: application/pdf
Content-Disposition: attachment; filename="invoice.pdf"

fake-pdf-bytes
--BOUNDARY--
`)

	text, _, attachments := DecodeMIMEBody(raw)

	assert.Contains(t, text, "Invoice attached.")
	require.Len(t, attachments, 1)
	assert.Equal(t, "invoice.pdf", attachments[0].Filename)
	assert.Equal(t, "application/pdf", attachments[0].MIMEType)
	assert.Greater(t, attachments[0].Size, int64(0))
}

func TestDecodeMIMEBody_UnparseableFallsBackToRaw(t *testing.T) {
	raw := []byte("no header line, just loose text")

	text, html, attachments := DecodeMIMEBody(raw)

	assert.Equal(t, "no header line, just loose text", text)
	assert.Empty(t, html)
	assert.Empty(t, attachments)
}

func TestMessageBody_PrefersPlainText(t *testing.T) {
	m := &Message{TextBody: "plain", HTMLBody: "<p>html</p>"}
	assert.Equal(t, "plain", m.Body())

	m = &Message{HTMLBody: "<p>html</p>"}
	assert.Equal(t, "<p>html</p>", m.Body())
}
