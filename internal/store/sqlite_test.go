package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-digest/internal/model"
)

// newTestStore creates an in-memory store with all migrations applied.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})

	return s
}

func sampleDigest() model.Digest {
	return model.Digest{
		Summary: "A report is due in early December.",
		KeyPoints: []string{
			"Please submit the report by December 5, 2025.",
		},
		Deadlines: []time.Time{
			time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC),
		},
		Attachments: []model.AttachmentMention{
			{
				Filename: "invoice.pdf",
				Context:  "I attached invoice.pdf for reference.",
			},
		},
	}
}

func TestSQLiteStore_PutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d := sampleDigest()

	require.NoError(t, s.PutDigest(ctx, "hash-1", d))

	got, err := s.GetDigest(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, d.Equal(*got))
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetDigest(context.Background(), "absent")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_UpsertReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleDigest()
	require.NoError(t, s.PutDigest(ctx, "hash-1", first))

	second := first
	second.Summary = "Revised summary."
	require.NoError(t, s.PutDigest(ctx, "hash-1", second))

	got, err := s.GetDigest(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Revised summary.", got.Summary)
}

func TestSQLiteStore_HashesIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := sampleDigest()
	b := sampleDigest()
	b.Summary = "Different message entirely."

	require.NoError(t, s.PutDigest(ctx, "hash-a", a))
	require.NoError(t, s.PutDigest(ctx, "hash-b", b))

	gotA, err := s.GetDigest(ctx, "hash-a")
	require.NoError(t, err)
	gotB, err := s.GetDigest(ctx, "hash-b")
	require.NoError(t, err)

	assert.Equal(t, a.Summary, gotA.Summary)
	assert.Equal(t, b.Summary, gotB.Summary)
}

func TestSQLiteStore_EmptyCollections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d := model.Digest{Summary: "No content to summarize."}

	require.NoError(t, s.PutDigest(ctx, "hash-empty", d))

	got, err := s.GetDigest(ctx, "hash-empty")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.Summary, got.Summary)
	assert.Empty(t, got.KeyPoints)
	assert.Empty(t, got.Deadlines)
	assert.Empty(t, got.Attachments)
}
