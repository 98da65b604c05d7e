package model

import "time"

// DeadlineFormat is the canonical minute-resolution rendering of a
// deadline. Two date mentions that format identically are the same
// deadline.
const DeadlineFormat = "2006-01-02 15:04"

// AttachmentMention is a filename found in a message body together with
// the sentence (or trimmed text window) it appeared in. Context may be
// empty when no meaningful surrounding text exists.
type AttachmentMention struct {
	Filename string `json:"filename"`
	Context  string `json:"context"`
}

// Digest is the analysis result for one email body. It is a pure
// function of the cleaned text it was computed from (given fixed model
// versions) and carries no reference back to the message.
type Digest struct {
	// Summary is the abstractive summary, or a sentinel string when
	// there was nothing to summarize or the summarizer failed.
	Summary string `json:"summary"`

	// KeyPoints holds qualifying sentences in first-occurrence order,
	// with exact duplicates suppressed.
	KeyPoints []string `json:"key_points"`

	// Deadlines holds resolved due timestamps, deduplicated by their
	// DeadlineFormat rendering and sorted ascending.
	Deadlines []time.Time `json:"deadlines"`

	// Attachments holds deduplicated filename mentions, sorted by
	// filename then context.
	Attachments []AttachmentMention `json:"attachments"`
}

// Equal reports whether two digests carry identical content.
func (d Digest) Equal(other Digest) bool {
	if d.Summary != other.Summary ||
		len(d.KeyPoints) != len(other.KeyPoints) ||
		len(d.Deadlines) != len(other.Deadlines) ||
		len(d.Attachments) != len(other.Attachments) {
		return false
	}
	for i := range d.KeyPoints {
		if d.KeyPoints[i] != other.KeyPoints[i] {
			return false
		}
	}
	for i := range d.Deadlines {
		if !d.Deadlines[i].Equal(other.Deadlines[i]) {
			return false
		}
	}
	for i := range d.Attachments {
		if d.Attachments[i] != other.Attachments[i] {
			return false
		}
	}
	return true
}
