package store

import (
	"context"
	"errors"
	"fmt"

	"tag-engine/internal/signature"
	"tag-engine/internal/token"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when no segment matches a lookup.
var ErrNotFound = errors.New("segment not found")

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Segment is one source/target pair with the keys derived from its source.
type Segment struct {
	ID     string
	Source token.Sequence
	Target token.Sequence
	Keys   signature.Keys
}

// NewSegment builds a Segment and computes its keys.
func NewSegment(id string, source, target token.Sequence) Segment {
	return Segment{ID: id, Source: source, Target: target, Keys: signature.Of(source)}
}

// SegmentStore persists segments in PostgreSQL. Token sequences are
// stored in their JSON wire shape.
type SegmentStore struct {
	db DB
}

// NewSegmentStore creates a new segment store.
func NewSegmentStore(db DB) *SegmentStore {
	return &SegmentStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS segments (
	id               TEXT PRIMARY KEY,
	source           JSONB NOT NULL,
	target           JSONB NOT NULL,
	match_key        TEXT NOT NULL,
	marker_signature TEXT NOT NULL,
	source_hash      TEXT NOT NULL,
	digest           CHAR(64) NOT NULL
);
CREATE INDEX IF NOT EXISTS segments_digest_idx ON segments (digest);
`

// EnsureSchema creates the segments table when it does not exist.
func (s *SegmentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create segments table: %w", err)
	}
	return nil
}

const upsertSQL = `
INSERT INTO segments (id, source, target, match_key, marker_signature, source_hash, digest)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
	source = EXCLUDED.source,
	target = EXCLUDED.target,
	match_key = EXCLUDED.match_key,
	marker_signature = EXCLUDED.marker_signature,
	source_hash = EXCLUDED.source_hash,
	digest = EXCLUDED.digest`

// Upsert inserts or replaces segments by ID and returns how many rows
// were written.
func (s *SegmentStore) Upsert(ctx context.Context, segments []Segment) (int, error) {
	written := 0
	for _, seg := range segments {
		args, err := upsertArgs(seg)
		if err != nil {
			return written, err
		}
		tag, err := s.db.Exec(ctx, upsertSQL, args...)
		if err != nil {
			return written, fmt.Errorf("upsert segment %s: %w", seg.ID, err)
		}
		written += int(tag.RowsAffected())
	}

	log.Info().Int("written", written).Msg("Upserted segments")
	return written, nil
}

func upsertArgs(seg Segment) ([]any, error) {
	src, err := token.Encode(seg.Source)
	if err != nil {
		return nil, fmt.Errorf("segment %s source: %w", seg.ID, err)
	}
	tgt, err := token.Encode(seg.Target)
	if err != nil {
		return nil, fmt.Errorf("segment %s target: %w", seg.ID, err)
	}
	k := seg.Keys
	return []any{seg.ID, src, tgt, k.MatchKey, k.MarkerSignature, k.SourceHash, k.Digest}, nil
}

const selectColumns = `id, source, target, match_key, marker_signature, source_hash, digest`

// Get loads the segment with the given ID.
func (s *SegmentStore) Get(ctx context.Context, id string) (*Segment, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM segments WHERE id = $1`, id)
	seg, err := scanSegment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get segment %s: %w", id, err)
	}
	return seg, nil
}

// FindExact returns the segments whose source hash equals sourceHash.
func (s *SegmentStore) FindExact(ctx context.Context, sourceHash string) ([]Segment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+selectColumns+` FROM segments WHERE digest = $1 AND source_hash = $2 ORDER BY id`,
		signature.Digest(sourceHash), sourceHash)
	if err != nil {
		return nil, fmt.Errorf("find exact match: %w", err)
	}
	return collect(rows)
}

// All returns every stored segment ordered by ID.
func (s *SegmentStore) All(ctx context.Context) ([]Segment, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectColumns+` FROM segments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Segment, error) {
	defer rows.Close()
	var out []Segment
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read segments: %w", err)
	}
	return out, nil
}

func scanSegment(row pgx.Row) (*Segment, error) {
	var (
		seg      Segment
		src, tgt []byte
	)
	err := row.Scan(&seg.ID, &src, &tgt,
		&seg.Keys.MatchKey, &seg.Keys.MarkerSignature, &seg.Keys.SourceHash, &seg.Keys.Digest)
	if err != nil {
		return nil, err
	}
	if seg.Source, err = token.Decode(src); err != nil {
		return nil, fmt.Errorf("segment %s source: %w", seg.ID, err)
	}
	if seg.Target, err = token.Decode(tgt); err != nil {
		return nil, fmt.Errorf("segment %s target: %w", seg.ID, err)
	}
	return &seg, nil
}
