package inbox

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mail-digest/internal/mail"
	"github.com/nhle/mail-digest/internal/theme"
)

// EnvelopeItem wraps a mail.Envelope so it can be used in a
// bubbles/list.
type EnvelopeItem struct {
	Envelope mail.Envelope
}

// FilterValue returns the string used for fuzzy filtering.
func (i EnvelopeItem) FilterValue() string {
	return i.Envelope.From + " " + i.Envelope.Subject
}

// Title returns the message subject for the list.
func (i EnvelopeItem) Title() string {
	if i.Envelope.Subject == "" {
		return "(no subject)"
	}
	return i.Envelope.Subject
}

// Description returns a short summary line for the list.
func (i EnvelopeItem) Description() string {
	return i.Envelope.From + " | " + relativeTime(i.Envelope.Date)
}

// seen reports whether the message carries the \Seen flag.
func (i EnvelopeItem) seen() bool {
	for _, f := range i.Envelope.Flags {
		if f == "\\Seen" {
			return true
		}
	}
	return false
}

// ItemDelegate implements list.ItemDelegate for rendering inbox rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single inbox row: unread marker, sender, subject,
// relative age.
func (d ItemDelegate) Render(
	w io.Writer, m list.Model, index int, item list.Item,
) {
	env, ok := item.(EnvelopeItem)
	if !ok {
		return
	}

	prefix := "●"
	if env.seen() {
		prefix = " "
	}

	from := truncate(env.Envelope.From, 24)
	subject := truncate(env.Title(), 52)
	age := theme.DimmedStyle.Render(relativeTime(env.Envelope.Date))

	line := fmt.Sprintf("%s %-24s %s  %s", prefix, from, subject, age)
	if env.seen() {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// truncate shortens s to at most n runes, appending an ellipsis when
// something was cut.
func truncate(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	if n <= 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
