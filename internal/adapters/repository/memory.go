package repository

import (
	"context"
	"fmt"

	"github.com/okian/contestcorr/internal/domain/model"
	"github.com/okian/contestcorr/pkg/logger"
	"github.com/okian/contestcorr/pkg/metrics"
)

// MemoryStore is an immutable in-memory result table. Every query is a full
// scan; it is safe for concurrent readers.
type MemoryStore struct {
	records []model.CompetitorRecord
	catalog *model.Catalog
	log     logger.Logger
	metrics *metrics.Manager
}

var _ Store = (*MemoryStore)(nil)

// New builds a store over records. The slice is owned by the store from
// here on and must not be modified by the caller.
func New(records []model.CompetitorRecord, catalog *model.Catalog, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		records: records,
		catalog: catalog,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.SetDatasetSize(len(records), catalog.Len())
	return s
}

// ByCompetition implements Store.
func (s *MemoryStore) ByCompetition(ctx context.Context, name string, filter Filter) (Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, ok := s.catalog.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompetition, name)
	}

	out := make(Set)
	for i := range s.records {
		p, ok := s.records[i].Result(c.Name)
		if !ok || !filter.Allows(p.Provenance) {
			continue
		}
		out[i] = struct{}{}
	}

	s.log.Debug(ctx, "competition scanned",
		logger.String("competition", c.Name),
		logger.Int("filter_size", len(filter)),
		logger.Int("matches", len(out)))
	return out, nil
}

// Record implements Store.
func (s *MemoryStore) Record(ctx context.Context, idx int) (model.CompetitorRecord, error) {
	if idx < 0 || idx >= len(s.records) {
		return model.CompetitorRecord{}, fmt.Errorf("%w: index %d", ErrNotFound, idx)
	}
	return s.records[idx], nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) int {
	return len(s.records)
}

// Catalog implements Store.
func (s *MemoryStore) Catalog() *model.Catalog {
	return s.catalog
}
