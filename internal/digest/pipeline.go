package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/mail-digest/internal/model"
	"github.com/nhle/mail-digest/internal/nlp"
)

// Cache persists computed digests keyed by the content hash of the
// cleaned text they were derived from.
type Cache interface {
	GetDigest(ctx context.Context, hash string) (*model.Digest, error)
	PutDigest(ctx context.Context, hash string, d model.Digest) error
}

// Pipeline applies the cleaner and the four extractors to one message
// body at a time. It holds no per-message state beyond a memo of the
// last computed digest: a digest is a pure function of cleaned text, so
// recomputation is only ever wasted model invocations.
type Pipeline struct {
	cleaner     *Cleaner
	summarizer  nlp.Summarizer
	annotator   nlp.Annotator
	deadlines   *DeadlineExtractor
	keyPoints   *KeyPointExtractor
	attachments *AttachmentDetector
	cache       Cache
	now         func() time.Time
	log         zerolog.Logger

	// Digest commands run on their own goroutines, so the memo is the
	// pipeline's only shared mutable state and stays behind the mutex.
	mu          sync.Mutex
	lastCleaned string
	lastDigest  model.Digest
	hasMemo     bool
}

// NewPipeline assembles a pipeline from its capabilities. cache may be
// nil to disable cross-process caching; now may be nil for wall-clock
// time.
func NewPipeline(
	cleaner *Cleaner,
	summarizer nlp.Summarizer,
	annotator nlp.Annotator,
	deadlines *DeadlineExtractor,
	keyPoints *KeyPointExtractor,
	attachments *AttachmentDetector,
	cache Cache,
	now func() time.Time,
	log zerolog.Logger,
) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		cleaner:     cleaner,
		summarizer:  summarizer,
		annotator:   annotator,
		deadlines:   deadlines,
		keyPoints:   keyPoints,
		attachments: attachments,
		cache:       cache,
		now:         now,
		log:         log,
	}
}

// Clean exposes the cleaner so callers can display the intermediate
// cleaned text.
func (p *Pipeline) Clean(raw string) string {
	return p.cleaner.Clean(raw)
}

// ComputeDigest runs the extractors over cleaned text and assembles the
// digest. Summarization failure degrades to a sentinel summary;
// annotator failure aborts with a single error. The four extractors are
// mutually independent and run sequentially per document.
func (p *Pipeline) ComputeDigest(
	ctx context.Context, cleaned string,
) (model.Digest, error) {
	if d, ok := p.memoized(cleaned); ok {
		return d, nil
	}

	hash := ContentHash(cleaned)
	if p.cache != nil {
		cached, err := p.cache.GetDigest(ctx, hash)
		if err != nil {
			p.log.Warn().Err(err).Msg("digest cache lookup failed")
		} else if cached != nil {
			p.memoize(cleaned, *cached)
			return *cached, nil
		}
	}

	started := p.now()

	summary := p.summarizer.Summarize(ctx, cleaned)

	entities, err := p.annotator.Annotate(ctx, cleaned)
	if err != nil {
		return model.Digest{}, fmt.Errorf("computing digest: %w", err)
	}

	ref := p.now()
	d := model.Digest{
		Summary:     summary,
		KeyPoints:   p.keyPoints.Extract(cleaned, entities),
		Deadlines:   p.deadlines.Extract(cleaned, entities, ref),
		Attachments: p.attachments.Detect(cleaned),
	}

	p.log.Info().
		Int("key_points", len(d.KeyPoints)).
		Int("deadlines", len(d.Deadlines)).
		Int("attachments", len(d.Attachments)).
		Dur("elapsed", p.now().Sub(started)).
		Msg("computed digest")

	p.memoize(cleaned, d)
	if p.cache != nil {
		if err := p.cache.PutDigest(ctx, hash, d); err != nil {
			p.log.Warn().Err(err).Msg("digest cache write failed")
		}
	}

	return d, nil
}

// memoized returns the last digest when it was computed from the same
// cleaned text.
func (p *Pipeline) memoized(cleaned string) (model.Digest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasMemo && p.lastCleaned == cleaned {
		return p.lastDigest, true
	}
	return model.Digest{}, false
}

// memoize records the last (cleaned text, digest) pair.
func (p *Pipeline) memoize(cleaned string, d model.Digest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastCleaned = cleaned
	p.lastDigest = d
	p.hasMemo = true
}

// ContentHash returns the cache key for a cleaned text: the hex SHA-256
// of its bytes.
func ContentHash(cleaned string) string {
	sum := sha256.Sum256([]byte(cleaned))
	return hex.EncodeToString(sum[:])
}
