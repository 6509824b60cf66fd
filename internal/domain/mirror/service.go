// Package mirror copies Logo Objects entities into a local store, page by page.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"logoobjects/internal/core/apperror"
	"logoobjects/internal/core/tx"
	"logoobjects/internal/domain"
	"logoobjects/internal/domain/filter"
	"logoobjects/internal/metadata"
	"logoobjects/pkg/logger"
)

// ReferenceColumn is the server-assigned primary key every entity carries.
const ReferenceColumn = "INTERNAL_REFERENCE"

// DefaultPageSize is used when SyncOptions.PageSize is not set.
const DefaultPageSize = 100

// Snapshot is one mirrored record.
type Snapshot struct {
	Entity   string
	Ref      int64
	Payload  json.RawMessage
	SyncedAt time.Time
}

// Run summarizes one Sync call.
type Run struct {
	Entity     string
	Pages      int
	Records    int
	Skipped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store persists snapshots.
type Store interface {
	Upsert(ctx context.Context, snapshots []Snapshot) error
	Get(ctx context.Context, entity string, ref int64) (Snapshot, error)
	Count(ctx context.Context, entity string) (int64, error)
	SaveRun(ctx context.Context, run Run) error
}

// SyncOptions narrows and sizes a sync.
type SyncOptions struct {
	PageSize int
	// MaxPages stops the sync early; zero means no limit.
	MaxPages int
	Criteria filter.Criteria
	Q        string
}

// Service pages entities out of the API and into a Store.
type Service struct {
	req      domain.Requester
	registry *metadata.Registry
	store    Store
	txm      tx.Manager
	now      func() time.Time
}

// NewService creates a mirror service.
func NewService(req domain.Requester, registry *metadata.Registry, store Store, txm tx.Manager) *Service {
	return &Service{req: req, registry: registry, store: store, txm: txm, now: time.Now}
}

// Sync copies every record of entity matching opts. Each page is written in
// its own transaction, so an interrupted sync keeps the pages it finished.
//
// The offset advances by the records actually received, so a server that
// caps limit below PageSize is still paged through. Paging stops once the
// reported total is reached, or at the first empty page when the server
// reports no total.
func (s *Service) Sync(ctx context.Context, entity string, opts SyncOptions) (Run, error) {
	def, ok := s.registry.Get(entity)
	if !ok {
		return Run{}, apperror.NewUnknownEntity(entity)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	client := domain.NewEntityClient[domain.Record](s.req, def)
	log := logger.FromContext(ctx).WithComponent("mirror").WithEntity(def.Name)

	run := Run{Entity: def.Name, StartedAt: s.now()}
	for offset := 0; ; {
		if opts.MaxPages > 0 && run.Pages >= opts.MaxPages {
			break
		}

		page, err := client.Search(ctx, opts.Criteria, filter.QueryOptions{
			Q:      opts.Q,
			Sort:   filter.SortBy(ReferenceColumn),
			Limit:  opts.PageSize,
			Offset: offset,
			Count:  true,
		})
		if err != nil {
			return run, fmt.Errorf("fetch %s page at offset %d: %w", def.Name, offset, err)
		}
		run.Pages++

		snapshots, skipped := s.snapshots(def.Name, page.Items)
		run.Skipped += skipped
		if len(snapshots) > 0 {
			err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
				return s.store.Upsert(ctx, snapshots)
			})
			if err != nil {
				return run, fmt.Errorf("store %s page at offset %d: %w", def.Name, offset, err)
			}
		}
		run.Records += len(snapshots)
		log.Debugw("page mirrored", "offset", offset, "records", len(snapshots), "skipped", skipped,
			"total", page.TotalCount)

		offset += len(page.Items)
		if len(page.Items) == 0 || (page.TotalCount > 0 && offset >= page.TotalCount) {
			break
		}
	}
	run.FinishedAt = s.now()

	if err := s.store.SaveRun(ctx, run); err != nil {
		return run, fmt.Errorf("save %s run: %w", def.Name, err)
	}
	log.Infow("entity mirrored", "pages", run.Pages, "records", run.Records, "skipped", run.Skipped,
		"duration_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds())
	return run, nil
}

// Get returns the mirrored copy of one record.
func (s *Service) Get(ctx context.Context, entity string, ref int64) (domain.Record, error) {
	def, ok := s.registry.Get(entity)
	if !ok {
		return nil, apperror.NewUnknownEntity(entity)
	}

	snap, err := s.store.Get(ctx, def.Name, ref)
	if err != nil {
		return nil, err
	}

	var rec domain.Record
	if err := json.Unmarshal(snap.Payload, &rec); err != nil {
		return nil, fmt.Errorf("decode %s %d snapshot: %w", def.Name, ref, err)
	}
	return rec, nil
}

func (s *Service) snapshots(entity string, records []domain.Record) ([]Snapshot, int) {
	now := s.now()
	out := make([]Snapshot, 0, len(records))
	skipped := 0
	for _, rec := range records {
		ref, ok := referenceOf(rec)
		if !ok {
			skipped++
			continue
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, Snapshot{Entity: entity, Ref: ref, Payload: payload, SyncedAt: now})
	}
	return out, skipped
}

func referenceOf(rec domain.Record) (int64, bool) {
	switch v := rec[ReferenceColumn].(type) {
	case float64:
		return int64(v), v > 0
	case int:
		return int64(v), v > 0
	case int64:
		return v, v > 0
	case json.Number:
		n, err := v.Int64()
		return n, err == nil && n > 0
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil && n > 0
	}
	return 0, false
}
