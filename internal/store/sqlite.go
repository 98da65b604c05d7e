// Package store persists computed digests in a local SQLite database,
// keyed by the content hash of the cleaned text they were derived
// from. With the default ":memory:" DSN the cache lives only for the
// process; pointing it at a file carries digests across runs so a
// reopened message costs no model invocations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/mail-digest/internal/model"
)

// SQLiteStore is a digest cache backed by a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migration is a single versioned schema change.
type migration struct {
	version int
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE schema_version (
				version INTEGER PRIMARY KEY,
				applied_at TEXT NOT NULL
			)`,
			`CREATE TABLE digests (
				id TEXT PRIMARY KEY,
				content_hash TEXT NOT NULL UNIQUE,
				summary TEXT NOT NULL,
				key_points TEXT NOT NULL,
				deadlines TEXT NOT NULL,
				attachments TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX idx_digests_hash ON digests(content_hash)`,
		},
	},
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(
			&currentVersion,
			"SELECT COALESCE(MAX(version), 0) FROM schema_version",
		)
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", m.version, err)
		}

		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf(
					"applying migration %d: %w", m.version, err,
				)
			}
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			m.version, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf(
				"recording migration %d: %w", m.version, err,
			)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf(
				"committing migration %d: %w", m.version, err,
			)
		}
	}

	return nil
}

// digestRow is the database representation of a cached digest.
type digestRow struct {
	ID          string `db:"id"`
	ContentHash string `db:"content_hash"`
	Summary     string `db:"summary"`
	KeyPoints   string `db:"key_points"`
	Deadlines   string `db:"deadlines"`
	Attachments string `db:"attachments"`
	CreatedAt   string `db:"created_at"`
}

// GetDigest returns the cached digest for the given content hash, or
// nil when no entry exists.
func (s *SQLiteStore) GetDigest(
	ctx context.Context, hash string,
) (*model.Digest, error) {
	var row digestRow
	err := s.db.GetContext(
		ctx, &row,
		"SELECT * FROM digests WHERE content_hash = ?", hash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying digest %s: %w", hash, err)
	}

	d := &model.Digest{Summary: row.Summary}
	if err := json.Unmarshal([]byte(row.KeyPoints), &d.KeyPoints); err != nil {
		return nil, fmt.Errorf("decoding key points: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Deadlines), &d.Deadlines); err != nil {
		return nil, fmt.Errorf("decoding deadlines: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Attachments), &d.Attachments); err != nil {
		return nil, fmt.Errorf("decoding attachments: %w", err)
	}

	return d, nil
}

// PutDigest stores (or replaces) the digest for the given content hash.
func (s *SQLiteStore) PutDigest(
	ctx context.Context, hash string, d model.Digest,
) error {
	keyPoints, err := json.Marshal(d.KeyPoints)
	if err != nil {
		return fmt.Errorf("encoding key points: %w", err)
	}
	deadlines, err := json.Marshal(d.Deadlines)
	if err != nil {
		return fmt.Errorf("encoding deadlines: %w", err)
	}
	attachments, err := json.Marshal(d.Attachments)
	if err != nil {
		return fmt.Errorf("encoding attachments: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO digests
			(id, content_hash, summary, key_points, deadlines,
			 attachments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET
			summary = excluded.summary,
			key_points = excluded.key_points,
			deadlines = excluded.deadlines,
			attachments = excluded.attachments`,
		uuid.NewString(), hash, d.Summary,
		string(keyPoints), string(deadlines), string(attachments),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing digest %s: %w", hash, err)
	}

	return nil
}
