// Package digest implements the text-digest pipeline: a cleaner that
// normalizes raw email bodies and four independent extractors that turn
// cleaned text into a structured digest.
package digest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nhle/mail-digest/internal/model"
)

// rule is one compiled substitution applied by the cleaner.
type rule struct {
	re      *regexp.Regexp
	replace string
}

// htmlTagRule strips anything tag-shaped, replacing with a space so
// adjacent words don't merge.
var htmlTagRule = rule{
	re:      regexp.MustCompile(`<[^>]+>`),
	replace: " ",
}

// boilerplateRules remove footers, quoted replies, and notification
// chrome commonly found in fetched mail. Order matters: they run after
// tags are gone and before URL removal.
var boilerplateRules = []rule{
	{regexp.MustCompile(`(?is)to unsubscribe from this group.*|you received this message because.*`), ""},
	{regexp.MustCompile(`(?ims)^\s*[-_=]{3,}.*?original message.*$`), ""},
	{regexp.MustCompile(`(?is)on\s+.*?wrote:.*?\n>.*`), ""},
	{regexp.MustCompile(`(?is)change notification settings.*`), ""},
	{regexp.MustCompile(`(?i)since \d{1,2}:\d{2} (?:am|pm) \([A-Za-z]{3} \d{1,2}, \d{4}\)`), ""},
	{regexp.MustCompile(`(?i)here['’]s what you missed:`), ""},
	{regexp.MustCompile(`(?i)view group`), ""},
	{regexp.MustCompile(`(?i)are we sending you too many emails\?`), ""},
	{regexp.MustCompile(`(?i)we['’]re bundling up all your email notifications: hourly`), ""},
	{regexp.MustCompile(`(?is)change to:.*?(?:\d+\s*mins|\d+\s*hours|daily|weekly)`), ""},
}

// urlRules remove links and explicit link placeholders.
var urlRules = []rule{
	{regexp.MustCompile(`(?i)\s*\(?\s*(?:https?://\S+|www\.\S+|\b\w+\.(?:com|org|net|io|co|ai)/\S*)\s*\)?\s*`), " "},
	{regexp.MustCompile(`(?i)\[link\]`), " "},
}

// artifactRules remove residue that survives tag stripping: tracking
// pixel attributes, stray asterisks, and emptied parenthetical groups.
var artifactRules = []rule{
	{regexp.MustCompile(`(?i)alt="" width="1" height="1" border="0" style="[^"]*"`), ""},
	{regexp.MustCompile(`\*+`), ""},
	{regexp.MustCompile(`\s*\( ?\)\s*(?:\s*\( ?\)\s*)*`), " "},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Cleaner turns a raw message body into normalized plain text. The
// boilerplate rule list is data: deployments extend it through config
// without touching extractor logic.
type Cleaner struct {
	boilerplate []rule
}

// NewCleaner builds a cleaner with the built-in rules plus any extra
// boilerplate rules. Extra patterns compile case-insensitively with `.`
// matching newlines.
func NewCleaner(extra []model.CleanRule) (*Cleaner, error) {
	rules := make([]rule, 0, len(boilerplateRules)+len(extra))
	rules = append(rules, boilerplateRules...)

	for _, r := range extra {
		re, err := regexp.Compile("(?is)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf(
				"compiling clean rule %q: %w", r.Pattern, err,
			)
		}
		rules = append(rules, rule{re: re, replace: r.Replace})
	}

	return &Cleaner{boilerplate: rules}, nil
}

// Clean strips markup, boilerplate, links, and residual artifacts, then
// normalizes whitespace. It is total and deterministic; the worst case
// is an empty string. Cleaning already-clean text is a no-op.
func (c *Cleaner) Clean(raw string) string {
	text := htmlTagRule.re.ReplaceAllString(raw, htmlTagRule.replace)

	for _, r := range c.boilerplate {
		text = r.re.ReplaceAllString(text, r.replace)
	}
	for _, r := range urlRules {
		text = r.re.ReplaceAllString(text, r.replace)
	}
	for _, r := range artifactRules {
		text = r.re.ReplaceAllString(text, r.replace)
	}

	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
