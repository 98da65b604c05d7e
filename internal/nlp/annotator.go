package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const annotatorSystemPrompt = `You are a named-entity recognizer. ` +
	`Given a text, list every entity mention with one of these labels: ` +
	`PERSON, ORG, GPE, PRODUCT, EVENT, MONEY, DATE, TIME. ` +
	`Reply with a JSON array only, no prose, each element an object ` +
	`{"text": "<exact mention as it appears>", "label": "<label>"}.`

// annotatorSeed pins decoding for repeatable entity lists.
var annotatorSeed = 42

// OpenAIAnnotator implements Annotator by asking a chat model for a
// JSON entity list and resolving each mention back to byte offsets in
// the input.
type OpenAIAnnotator struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAIAnnotator creates an annotator using the given client.
func NewOpenAIAnnotator(
	client *openai.Client, model string, log zerolog.Logger,
) *OpenAIAnnotator {
	if model == "" {
		model = defaultSummaryModel
	}
	return &OpenAIAnnotator{client: client, model: model, log: log}
}

// Mention is one entity occurrence as reported by the model,
// before offsets are resolved.
type Mention struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Annotate recognizes entities in text. Unlike summarization, a failure
// here aborts the whole digest, so errors propagate.
func (a *OpenAIAnnotator) Annotate(
	ctx context.Context, text string,
) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: annotatorSystemPrompt,
				},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			Temperature: deterministicTemperature,
			Seed:        &annotatorSeed,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("annotating text: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("annotating text: empty response")
	}

	mentions, err := parseMentions(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("annotating text: %w", err)
	}

	entities := ResolveMentions(text, mentions)
	a.log.Debug().
		Int("mentions", len(mentions)).
		Int("entities", len(entities)).
		Msg("annotated text")
	return entities, nil
}

// parseMentions decodes the model's JSON array, tolerating a fenced
// code block around it.
func parseMentions(raw string) ([]Mention, error) {
	raw = strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(raw, "```json"); ok {
		raw = after
	} else if after, ok := strings.CutPrefix(raw, "```"); ok {
		raw = after
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	raw = strings.TrimSpace(raw)

	var mentions []Mention
	if err := json.Unmarshal([]byte(raw), &mentions); err != nil {
		return nil, fmt.Errorf("decoding entity list: %w", err)
	}
	return mentions, nil
}

// ResolveMentions locates every case-insensitive occurrence of each
// mention in text and returns one Entity per occurrence with byte
// offsets into the original string. Mentions that never occur verbatim
// are dropped; duplicate (text, label) mentions resolve once.
func ResolveMentions(text string, mentions []Mention) []Entity {
	lower, starts := foldOffsets(text)

	seen := make(map[string]bool)
	var entities []Entity
	for _, m := range mentions {
		if m.Text == "" || m.Label == "" {
			continue
		}
		needle := strings.ToLower(m.Text)
		key := needle + "\x00" + m.Label
		if seen[key] {
			continue
		}
		seen[key] = true

		for from := 0; ; {
			idx := strings.Index(lower[from:], needle)
			if idx < 0 {
				break
			}
			lo := from + idx
			hi := lo + len(needle)
			start, end := starts[lo], starts[hi]
			entities = append(entities, Entity{
				Text:  text[start:end],
				Label: m.Label,
				Start: start,
				End:   end,
			})
			from = hi
		}
	}
	return entities
}

// foldOffsets lowercases text rune by rune and records, for every byte
// of the lowered string, the starting offset of the originating rune in
// the original string. Lowercasing can change a rune's encoded length
// (U+0130 shrinks, U+023A grows), so offsets found in the lowered
// string must be mapped back before indexing the original.
func foldOffsets(text string) (lower string, starts []int) {
	var b strings.Builder
	b.Grow(len(text))
	starts = make([]int, 0, len(text)+1)
	for i, r := range text {
		lr := unicode.ToLower(r)
		for n := utf8.RuneLen(lr); n > 0; n-- {
			starts = append(starts, i)
		}
		b.WriteRune(lr)
	}
	starts = append(starts, len(text))
	return b.String(), starts
}
