package nlp

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Fixed sentinel outputs. Summarization failure must never abort the
// digest, so both the empty-input and error cases map to strings.
const (
	SummaryNoContent   = "No content to summarize."
	SummaryUnavailable = "Could not generate summary."
)

const defaultSummaryModel = "gpt-4o-mini"

// summarySeed pins the decoding so identical input yields identical
// output across runs, as far as the serving layer honors it.
var summarySeed = 42

// deterministicTemperature is effectively zero. The client omits a
// literal 0 from the request body, which would fall back to the API
// default of 1.
const deterministicTemperature = math.SmallestNonzeroFloat32

// OpenAISummarizer implements Summarizer on top of the OpenAI chat
// completion API with deterministic decoding settings.
type OpenAISummarizer struct {
	client   *openai.Client
	model    string
	minWords int
	maxWords int
	log      zerolog.Logger
}

// NewOpenAISummarizer creates a summarizer using the given client.
// minWords/maxWords bound the requested summary length; zero values
// fall back to 50/150.
func NewOpenAISummarizer(
	client *openai.Client,
	model string,
	minWords, maxWords int,
	log zerolog.Logger,
) *OpenAISummarizer {
	if model == "" {
		model = defaultSummaryModel
	}
	if minWords <= 0 {
		minWords = 50
	}
	if maxWords <= 0 {
		maxWords = 150
	}
	return &OpenAISummarizer{
		client:   client,
		model:    model,
		minWords: minWords,
		maxWords: maxWords,
		log:      log,
	}
}

// Summarize compresses text into a short paragraph. Empty or
// whitespace-only input returns SummaryNoContent; any capability
// failure is logged and downgraded to SummaryUnavailable.
func (s *OpenAISummarizer) Summarize(
	ctx context.Context, text string,
) string {
	if strings.TrimSpace(text) == "" {
		return SummaryNoContent
	}

	system := fmt.Sprintf(
		"You summarize emails. Write one concise paragraph of %d to %d "+
			"words capturing what the email is about and what it asks "+
			"for. Output only the summary.",
		s.minWords, s.maxWords,
	)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			Temperature: deterministicTemperature,
			Seed:        &summarySeed,
		},
	)
	if err != nil {
		s.log.Error().Err(err).Msg("summarization failed")
		return SummaryUnavailable
	}
	if len(resp.Choices) == 0 {
		s.log.Error().Msg("summarization returned no choices")
		return SummaryUnavailable
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return SummaryUnavailable
	}
	return summary
}
