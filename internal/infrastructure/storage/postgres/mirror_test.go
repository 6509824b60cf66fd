package postgres

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logoobjects/internal/domain/mirror"
)

func newTestMirrorStore(t *testing.T) *MirrorStore {
	t.Helper()
	s, err := NewMirrorStore(nil)
	require.NoError(t, err)
	return s
}

func TestMirrorStore_UpsertQuery(t *testing.T) {
	s := newTestMirrorStore(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	sql, args, err := s.upsertQuery([]mirror.Snapshot{
		{Entity: "Banks", Ref: 1, Payload: json.RawMessage(`{"CODE":"A"}`), SyncedAt: at},
		{Entity: "Banks", Ref: 2, Payload: json.RawMessage(`{"CODE":"B"}`), SyncedAt: at},
	}).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql,
		"INSERT INTO logo_mirror (entity,ref,payload,payload_compressed,compression_algo,synced_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6),($7,$8,$9,$10,$11,$12) ON CONFLICT (entity, ref) DO UPDATE SET"), sql)
	assert.Contains(t, sql, "payload = EXCLUDED.payload")
	require.Len(t, args, 12)
	assert.Equal(t, "Banks", args[0])
	assert.Equal(t, int64(2), args[7])
	assert.Equal(t, CompressionNone, args[4])
	assert.Equal(t, at, args[5])
}

func TestMirrorStore_CompressesLargePayloads(t *testing.T) {
	s := newTestMirrorStore(t)
	s.compressThreshold = 64

	small := json.RawMessage(`{"CODE":"A"}`)
	large := json.RawMessage(`{"NOTES":"` + strings.Repeat("x", 1024) + `"}`)

	row := s.toRow(mirror.Snapshot{Entity: "Items", Ref: 1, Payload: small})
	assert.Equal(t, CompressionNone, row.CompressionAlgo)
	assert.Nil(t, row.PayloadCompressed)
	assert.Equal(t, small, row.Payload)

	row = s.toRow(mirror.Snapshot{Entity: "Items", Ref: 2, Payload: large})
	assert.Equal(t, CompressionZstd, row.CompressionAlgo)
	assert.Nil(t, row.Payload)
	assert.Less(t, len(row.PayloadCompressed), len(large))

	snap, err := s.fromRow(row)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(large, snap.Payload))
	assert.Equal(t, int64(2), snap.Ref)
}

func TestMirrorStore_FromRowCorrupt(t *testing.T) {
	s := newTestMirrorStore(t)

	_, err := s.fromRow(mirrorRow{CompressionAlgo: CompressionZstd, PayloadCompressed: []byte("not zstd")})
	assert.Error(t, err)
}
