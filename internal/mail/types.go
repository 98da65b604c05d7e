// Package mail wraps the IMAP protocol client: connect, list recent
// envelopes, and fetch one message body with its MIME parts decoded.
// It is a thin collaborator with no retry logic or connection pooling;
// every operation dials, runs, and logs out.
package mail

import "time"

// Envelope holds the parsed envelope data for one inbox message.
type Envelope struct {
	UID       uint32
	MessageID string
	Subject   string
	From      string
	To        []string
	Date      time.Time
	Flags     []string
}

// Message holds the full fetched content of one email.
type Message struct {
	Envelope    Envelope
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Attachment holds metadata about a real (MIME-level) attachment part.
type Attachment struct {
	Filename string
	Size     int64
	MIMEType string
}

// Body returns the plain-text body when present, otherwise the raw
// HTML body. Callers are expected to pass the result through the text
// cleaner before analysis.
func (m *Message) Body() string {
	if m.TextBody != "" {
		return m.TextBody
	}
	return m.HTMLBody
}
