// Package nlp provides the language capabilities the digest pipeline
// consumes: abstractive summarization, named-entity annotation,
// natural-language date resolution, and sentence segmentation. The
// heavyweight capabilities are interfaces so they can be constructed
// once at startup and faked in tests.
package nlp

import "context"

// Entity labels follow the spaCy inventory used throughout the
// pipeline configuration.
const (
	LabelPerson  = "PERSON"
	LabelOrg     = "ORG"
	LabelGPE     = "GPE"
	LabelProduct = "PRODUCT"
	LabelEvent   = "EVENT"
	LabelMoney   = "MONEY"
	LabelDate    = "DATE"
	LabelTime    = "TIME"
)

// Entity is a named span of text with a semantic label. Start and End
// are byte offsets into the annotated text.
type Entity struct {
	Text  string
	Label string
	Start int
	End   int
}

// Annotator recognizes named entities in plain text. Its failure is a
// fatal precondition for the extractors that depend on it.
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]Entity, error)
}

// Summarizer produces a short abstractive summary of plain text. It
// never fails: empty input and capability errors both map to fixed
// sentinel strings.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}
