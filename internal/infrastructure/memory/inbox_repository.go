package memory

import (
	"context"
	"time"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.InboxRepository = (*InboxRepo)(nil)

// InboxRepo bandeja de entrada en memoria (orden de llegada).
type InboxRepo struct {
	s *Store
}

// NewInboxRepository construye el repositorio.
func NewInboxRepository(s *Store) *InboxRepo {
	return &InboxRepo{s: s}
}

func (r *InboxRepo) Save(_ context.Context, e *entity.InboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.inbox[e.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.inbox[e.ID] = cloneInbox(e)
	r.s.inboxOrder = append(r.s.inboxOrder, e.ID)
	return nil
}

func (r *InboxRepo) GetByID(_ context.Context, id string) (*entity.InboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.inbox[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneInbox(e), nil
}

func (r *InboxRepo) Claim(_ context.Context, limit int, staleBefore time.Time) ([]*entity.InboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	out := make([]*entity.InboxEvent, 0, limit)
	for _, id := range r.s.inboxOrder {
		if len(out) >= limit {
			break
		}
		e := r.s.inbox[id]
		stale := e.Status == entity.InboxStatusProcessing && e.ClaimedAt != nil && e.ClaimedAt.Before(staleBefore)
		if e.Status != entity.InboxStatusPending && !stale {
			continue
		}
		e.Status = entity.InboxStatusProcessing
		e.Attempts++
		claimed := now
		e.ClaimedAt = &claimed
		out = append(out, cloneInbox(e))
	}
	return out, nil
}

func (r *InboxRepo) Finish(_ context.Context, id, status, lastError string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.inbox[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := r.s.now()
	e.Status = status
	if lastError != "" {
		e.LastError = lastError
	}
	e.ProcessedAt = &now
	return nil
}

func (r *InboxRepo) Release(_ context.Context, id, lastError string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.inbox[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = entity.InboxStatusPending
	e.LastError = lastError
	e.ClaimedAt = nil
	return nil
}
