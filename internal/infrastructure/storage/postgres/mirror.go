package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"logoobjects/internal/core/apperror"
	"logoobjects/internal/domain/mirror"
)

const (
	mirrorTable     = "logo_mirror"
	mirrorRunsTable = "logo_mirror_runs"
)

// CompressionAlgo specifies how a payload is stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// MirrorSchema creates the mirror tables. It is idempotent.
const MirrorSchema = `
CREATE TABLE IF NOT EXISTS logo_mirror (
	entity             text        NOT NULL,
	ref                bigint      NOT NULL,
	payload            jsonb,
	payload_compressed bytea,
	compression_algo   text        NOT NULL DEFAULT 'none',
	synced_at          timestamptz NOT NULL,
	PRIMARY KEY (entity, ref)
);

CREATE TABLE IF NOT EXISTS logo_mirror_runs (
	id          bigserial   PRIMARY KEY,
	entity      text        NOT NULL,
	pages       integer     NOT NULL,
	records     integer     NOT NULL,
	skipped     integer     NOT NULL,
	started_at  timestamptz NOT NULL,
	finished_at timestamptz NOT NULL
);
`

var _ mirror.Store = (*MirrorStore)(nil)

// mirrorRow is the stored form of a mirror.Snapshot.
type mirrorRow struct {
	Entity            string          `db:"entity"`
	Ref               int64           `db:"ref"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	SyncedAt          time.Time       `db:"synced_at"`
}

// MirrorStore keeps mirrored Logo Objects records in PostgreSQL.
// Payloads above the threshold are stored zstd-compressed.
type MirrorStore struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes, default 8KB
}

// NewMirrorStore creates a mirror store.
func NewMirrorStore(txManager *TxManager) (*MirrorStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &MirrorStore{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 8 * 1024,
	}, nil
}

// EnsureSchema creates the mirror tables if they are missing.
func (s *MirrorStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, MirrorSchema); err != nil {
		return fmt.Errorf("create mirror schema: %w", err)
	}
	return nil
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (s *MirrorStore) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Upsert inserts or replaces snapshots keyed by (entity, ref).
func (s *MirrorStore) Upsert(ctx context.Context, snapshots []mirror.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	sql, args, err := s.upsertQuery(snapshots).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := s.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", mirrorTable, err)
	}
	return nil
}

func (s *MirrorStore) upsertQuery(snapshots []mirror.Snapshot) squirrel.InsertBuilder {
	q := s.Builder().
		Insert(mirrorTable).
		Columns("entity", "ref", "payload", "payload_compressed", "compression_algo", "synced_at")

	for _, snap := range snapshots {
		row := s.toRow(snap)
		q = q.Values(row.Entity, row.Ref, row.Payload, row.PayloadCompressed, row.CompressionAlgo, row.SyncedAt)
	}

	return q.Suffix(`ON CONFLICT (entity, ref) DO UPDATE SET
		payload = EXCLUDED.payload,
		payload_compressed = EXCLUDED.payload_compressed,
		compression_algo = EXCLUDED.compression_algo,
		synced_at = EXCLUDED.synced_at`)
}

// Get returns one stored snapshot, decompressed.
func (s *MirrorStore) Get(ctx context.Context, entity string, ref int64) (mirror.Snapshot, error) {
	q := s.Builder().
		Select("entity", "ref", "payload", "payload_compressed", "compression_algo", "synced_at").
		From(mirrorTable).
		Where(squirrel.Eq{"entity": entity, "ref": ref}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return mirror.Snapshot{}, fmt.Errorf("build query: %w", err)
	}

	var row mirrorRow
	querier := s.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return mirror.Snapshot{}, apperror.NewNotFound(entity, ref)
		}
		return mirror.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	return s.fromRow(row)
}

// Count returns how many records of entity are mirrored.
func (s *MirrorStore) Count(ctx context.Context, entity string) (int64, error) {
	sql, args, err := s.Builder().
		Select("count(*)").
		From(mirrorTable).
		Where(squirrel.Eq{"entity": entity}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	if err := s.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", mirrorTable, err)
	}
	return n, nil
}

// SaveRun records a finished sync.
func (s *MirrorStore) SaveRun(ctx context.Context, run mirror.Run) error {
	sql, args, err := s.Builder().
		Insert(mirrorRunsTable).
		SetMap(map[string]any{
			"entity":      run.Entity,
			"pages":       run.Pages,
			"records":     run.Records,
			"skipped":     run.Skipped,
			"started_at":  run.StartedAt,
			"finished_at": run.FinishedAt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", mirrorRunsTable, err)
	}
	return nil
}

func (s *MirrorStore) toRow(snap mirror.Snapshot) mirrorRow {
	row := mirrorRow{
		Entity:          snap.Entity,
		Ref:             snap.Ref,
		Payload:         snap.Payload,
		CompressionAlgo: CompressionNone,
		SyncedAt:        snap.SyncedAt.UTC(),
	}

	// Compress large payloads
	if len(snap.Payload) > s.compressThreshold {
		row.PayloadCompressed = s.encoder.EncodeAll(snap.Payload, nil)
		row.Payload = nil
		row.CompressionAlgo = CompressionZstd
	}
	return row
}

func (s *MirrorStore) fromRow(row mirrorRow) (mirror.Snapshot, error) {
	snap := mirror.Snapshot{
		Entity:   row.Entity,
		Ref:      row.Ref,
		Payload:  row.Payload,
		SyncedAt: row.SyncedAt,
	}

	if row.CompressionAlgo == CompressionZstd && len(row.PayloadCompressed) > 0 {
		decompressed, err := s.decoder.DecodeAll(row.PayloadCompressed, nil)
		if err != nil {
			return snap, fmt.Errorf("decompress payload: %w", err)
		}
		snap.Payload = decompressed
	}
	return snap, nil
}
