package memory

import (
	"context"
	"time"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.ProcessedEventRepository = (*ProcessedEventRepo)(nil)

// ProcessedEventRepo registros de deduplicación en memoria.
type ProcessedEventRepo struct {
	s *Store
}

// NewProcessedEventRepository construye el repositorio.
func NewProcessedEventRepository(s *Store) *ProcessedEventRepo {
	return &ProcessedEventRepo{s: s}
}

func (r *ProcessedEventRepo) Exists(_ context.Context, orderID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.processed[orderID]
	return ok, nil
}

func (r *ProcessedEventRepo) Insert(_ context.Context, e *entity.ProcessedEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.processed[e.OrderID]; ok {
		return domain.ErrDuplicate
	}
	c := *e
	r.s.processed[e.OrderID] = &c
	return nil
}

func (r *ProcessedEventRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, e := range r.s.processed {
		if !e.ExpiresAt.After(now) {
			delete(r.s.processed, id)
			n++
		}
	}
	return n, nil
}
