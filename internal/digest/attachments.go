package digest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nhle/mail-digest/internal/model"
	"github.com/nhle/mail-digest/internal/nlp"
)

const (
	// attachmentWindowRadius bounds the fallback context captured on
	// each side of a filename when no containing sentence is found.
	attachmentWindowRadius = 80

	// minFallbackContext is the shortest fallback window worth keeping;
	// anything shorter is reported with empty context instead.
	minFallbackContext = 10
)

// AttachmentDetector finds filename-like tokens and the sentence or
// text window around each mention.
type AttachmentDetector struct {
	pattern *regexp.Regexp
}

// NewAttachmentDetector creates a detector recognizing the given
// filename extensions, falling back to the default set when empty.
func NewAttachmentDetector(extensions []string) *AttachmentDetector {
	if len(extensions) == 0 {
		extensions = model.DefaultAttachmentExtensions()
	}
	escaped := make([]string, len(extensions))
	for i, ext := range extensions {
		escaped[i] = regexp.QuoteMeta(strings.ToLower(ext))
	}
	pattern := regexp.MustCompile(fmt.Sprintf(
		`(?i)\b\w+\.(?:%s)\b`, strings.Join(escaped, "|"),
	))
	return &AttachmentDetector{pattern: pattern}
}

// Detect returns deduplicated (filename, context) pairs for every
// attachment mention in text. Context is preferably the full sentence
// containing the filename; otherwise the trimmed surrounding window
// with the filename bold-marked, or empty when the window is too short
// to mean anything. Results are sorted by filename then context.
func (d *AttachmentDetector) Detect(
	text string,
) []model.AttachmentMention {
	matches := d.pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	spans := nlp.Sentences(text)

	seen := make(map[model.AttachmentMention]bool)
	var mentions []model.AttachmentMention
	for _, m := range matches {
		filename := text[m[0]:m[1]]
		context := nlp.SentenceContaining(spans, filename)
		if context == "" {
			context = d.windowContext(text, m[0], m[1])
		}

		mention := model.AttachmentMention{
			Filename: filename,
			Context:  context,
		}
		if !seen[mention] {
			seen[mention] = true
			mentions = append(mentions, mention)
		}
	}

	sort.Slice(mentions, func(i, j int) bool {
		if mentions[i].Filename != mentions[j].Filename {
			return mentions[i].Filename < mentions[j].Filename
		}
		return mentions[i].Context < mentions[j].Context
	})
	return mentions
}

// windowContext builds the fallback context for a filename at
// [start, end): up to attachmentWindowRadius bytes on each side, with
// the filename bold-marked inline. Windows shorter than
// minFallbackContext are dropped.
func (d *AttachmentDetector) windowContext(
	text string, start, end int,
) string {
	lo := start - attachmentWindowRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + attachmentWindowRadius
	if hi > len(text) {
		hi = len(text)
	}

	pre := strings.TrimSpace(text[lo:start])
	filename := text[start:end]
	post := strings.TrimSpace(text[end:hi])

	parts := make([]string, 0, 3)
	if pre != "" {
		parts = append(parts, pre)
	}
	parts = append(parts, "**"+filename+"**")
	if post != "" {
		parts = append(parts, post)
	}
	snippet := whitespaceRun.ReplaceAllString(
		strings.Join(parts, " "), " ",
	)

	if len(snippet) < minFallbackContext {
		return ""
	}
	return snippet
}
