package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logoobjects/internal/core/apperror"
	"logoobjects/internal/core/tx"
	"logoobjects/internal/domain"
	"logoobjects/internal/domain/entities"
)

// pagedAPI serves total records of one entity, honoring limit and offset.
// maxLimit caps the page size the way a server-side limit does; noTotal
// leaves totalCount out of the response.
type pagedAPI struct {
	total    int
	maxLimit int
	noTotal  bool
	paths    []string
	fail     error
}

func (a *pagedAPI) Do(_ context.Context, method, path string, _, out any) error {
	a.paths = append(a.paths, path)
	if a.fail != nil {
		return a.fail
	}

	u, err := url.Parse(path)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(u.Query().Get("limit"))
	offset, _ := strconv.Atoi(u.Query().Get("offset"))
	if a.maxLimit > 0 && limit > a.maxLimit {
		limit = a.maxLimit
	}

	items := []map[string]any{}
	for i := offset; i < offset+limit && i < a.total; i++ {
		items = append(items, map[string]any{"INTERNAL_REFERENCE": i + 1, "CODE": fmt.Sprintf("B%03d", i+1)})
	}
	body := map[string]any{"items": items, "count": len(items)}
	if u.Query().Get("count") == "true" && !a.noTotal {
		body["totalCount"] = a.total
	}
	data, _ := json.Marshal(body)
	return json.Unmarshal(data, out)
}

type memStore struct {
	rows map[string]Snapshot
	runs []Run
	fail error
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]Snapshot{}}
}

func (m *memStore) key(entity string, ref int64) string {
	return entity + "/" + strconv.FormatInt(ref, 10)
}

func (m *memStore) Upsert(_ context.Context, snapshots []Snapshot) error {
	if m.fail != nil {
		return m.fail
	}
	for _, s := range snapshots {
		m.rows[m.key(s.Entity, s.Ref)] = s
	}
	return nil
}

func (m *memStore) Get(_ context.Context, entity string, ref int64) (Snapshot, error) {
	s, ok := m.rows[m.key(entity, ref)]
	if !ok {
		return Snapshot{}, apperror.NewNotFound(entity, ref)
	}
	return s, nil
}

func (m *memStore) Count(_ context.Context, entity string) (int64, error) {
	var n int64
	for k := range m.rows {
		if strings.HasPrefix(k, entity+"/") {
			n++
		}
	}
	return n, nil
}

func (m *memStore) SaveRun(_ context.Context, run Run) error {
	m.runs = append(m.runs, run)
	return nil
}

func TestService_Sync(t *testing.T) {
	tests := []struct {
		name      string
		api       pagedAPI
		opts      SyncOptions
		wantPages int
		wantRecs  int
	}{
		{"exact multiple", pagedAPI{total: 10}, SyncOptions{PageSize: 5}, 2, 10},
		{"short last page", pagedAPI{total: 12}, SyncOptions{PageSize: 5}, 3, 12},
		{"empty entity", pagedAPI{total: 0}, SyncOptions{PageSize: 5}, 1, 0},
		{"max pages", pagedAPI{total: 50}, SyncOptions{PageSize: 5, MaxPages: 2}, 2, 10},
		{"default page size", pagedAPI{total: 150}, SyncOptions{}, 2, 150},
		{"server caps the limit", pagedAPI{total: 10, maxLimit: 3}, SyncOptions{PageSize: 5}, 4, 10},
		{"no total pages until empty", pagedAPI{total: 12, noTotal: true}, SyncOptions{PageSize: 5}, 4, 12},
		{"capped limit without total", pagedAPI{total: 7, maxLimit: 3, noTotal: true}, SyncOptions{PageSize: 5}, 4, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &tt.api
			store := newMemStore()
			svc := NewService(api, entities.Registry(), store, tx.None)

			run, err := svc.Sync(context.Background(), "banks", tt.opts)
			require.NoError(t, err)

			assert.Equal(t, "Banks", run.Entity)
			assert.Equal(t, tt.wantPages, run.Pages)
			assert.Equal(t, tt.wantRecs, run.Records)
			assert.Len(t, api.paths, tt.wantPages)
			require.Len(t, store.runs, 1)

			n, err := store.Count(context.Background(), "Banks")
			require.NoError(t, err)
			assert.EqualValues(t, tt.wantRecs, n)
		})
	}
}

func TestService_Sync_Paths(t *testing.T) {
	api := &pagedAPI{total: 3}
	svc := NewService(api, entities.Registry(), newMemStore(), tx.None)

	_, err := svc.Sync(context.Background(), "Banks", SyncOptions{
		PageSize: 2,
		Criteria: map[string]any{"code": map[string]any{"like": "B"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/banks?sort=INTERNAL_REFERENCE+asc&limit=2&q=CODE+like+%27B%2A%27&count=true",
		"/banks?sort=INTERNAL_REFERENCE+asc&limit=2&offset=2&q=CODE+like+%27B%2A%27&count=true",
	}, api.paths)
}

func TestService_Sync_SkipsRecordsWithoutReference(t *testing.T) {
	svc := NewService(nil, entities.Registry(), newMemStore(), tx.None)

	snaps, skipped := svc.snapshots("Banks", []domain.Record{
		{"INTERNAL_REFERENCE": float64(4), "CODE": "A"},
		{"CODE": "B"},
		{"INTERNAL_REFERENCE": "7"},
		{"INTERNAL_REFERENCE": float64(0)},
	})
	assert.Equal(t, 2, skipped)
	require.Len(t, snaps, 2)
	assert.EqualValues(t, 4, snaps[0].Ref)
	assert.EqualValues(t, 7, snaps[1].Ref)
}

func TestService_Sync_Errors(t *testing.T) {
	t.Run("unknown entity", func(t *testing.T) {
		svc := NewService(&pagedAPI{}, entities.Registry(), newMemStore(), tx.None)
		_, err := svc.Sync(context.Background(), "nope", SyncOptions{})
		assert.True(t, apperror.HasCode(err, apperror.CodeUnknownEntity))
	})

	t.Run("fetch failure", func(t *testing.T) {
		remote := apperror.NewRemote(500, "down")
		svc := NewService(&pagedAPI{fail: remote}, entities.Registry(), newMemStore(), tx.None)
		_, err := svc.Sync(context.Background(), "banks", SyncOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, remote))
	})

	t.Run("store failure keeps earlier pages", func(t *testing.T) {
		store := newMemStore()
		calls := 0
		txm := tx.Func(func(ctx context.Context, fn func(ctx context.Context) error) error {
			calls++
			if calls == 2 {
				store.fail = errors.New("disk full")
			}
			return fn(ctx)
		})
		svc := NewService(&pagedAPI{total: 10}, entities.Registry(), store, txm)

		run, err := svc.Sync(context.Background(), "banks", SyncOptions{PageSize: 4})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, 4, run.Records)
		assert.Empty(t, store.runs)
	})
}

func TestService_Get(t *testing.T) {
	store := newMemStore()
	svc := NewService(&pagedAPI{total: 3}, entities.Registry(), store, tx.None)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	_, err := svc.Sync(context.Background(), "banks", SyncOptions{})
	require.NoError(t, err)

	rec, err := svc.Get(context.Background(), "BANKS", 2)
	require.NoError(t, err)
	assert.Equal(t, "B002", rec["CODE"])

	_, err = svc.Get(context.Background(), "banks", 99)
	assert.True(t, apperror.IsNotFound(err))
}
