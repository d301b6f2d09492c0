package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.ProcessedEventRepository = (*ProcessedEventRepo)(nil)

// ProcessedEventRepo registros de deduplicación sobre PostgreSQL.
type ProcessedEventRepo struct {
	q Querier
}

// NewProcessedEventRepository construye el adaptador. Acepta pool o tx (Querier).
func NewProcessedEventRepository(q Querier) *ProcessedEventRepo {
	return &ProcessedEventRepo{q: q}
}

func (r *ProcessedEventRepo) Exists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM processed_events WHERE order_id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists processed event: %w", err)
	}
	return exists, nil
}

// Insert usa ON CONFLICT DO NOTHING: cero filas afectadas significa que otra entrega ganó.
func (r *ProcessedEventRepo) Insert(ctx context.Context, e *entity.ProcessedEvent) error {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO processed_events (order_id, created_at, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id) DO NOTHING`, e.OrderID, e.CreatedAt, e.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert processed event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

func (r *ProcessedEventRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM processed_events WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired processed events: %w", err)
	}
	return tag.RowsAffected(), nil
}
