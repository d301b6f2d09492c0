package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.InboxRepository = (*InboxRepo)(nil)

// InboxRepo bandeja de entrada durable sobre PostgreSQL.
type InboxRepo struct {
	q Querier
}

// NewInboxRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInboxRepository(q Querier) *InboxRepo {
	return &InboxRepo{q: q}
}

const inboxColumns = `id, merchant_id, order_id, event_type, payload, status, attempts, last_error, received_at, claimed_at, processed_at`

func scanInbox(row interface{ Scan(...any) error }) (*entity.InboxEvent, error) {
	var e entity.InboxEvent
	err := row.Scan(&e.ID, &e.MerchantID, &e.OrderID, &e.EventType, &e.Payload, &e.Status,
		&e.Attempts, &e.LastError, &e.ReceivedAt, &e.ClaimedAt, &e.ProcessedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *InboxRepo) Save(ctx context.Context, e *entity.InboxEvent) error {
	query := `
		INSERT INTO inbox_events (id, merchant_id, order_id, event_type, payload, status, attempts, last_error, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, e.ID, e.MerchantID, e.OrderID, e.EventType,
		string(e.Payload), e.Status, e.Attempts, e.LastError, e.ReceivedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inbox event: %w", err)
	}
	return nil
}

func (r *InboxRepo) GetByID(ctx context.Context, id string) (*entity.InboxEvent, error) {
	e, err := scanInbox(r.q.QueryRow(ctx, `SELECT `+inboxColumns+` FROM inbox_events WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get inbox event: %w", err)
	}
	return e, nil
}

// Claim reserva eventos con FOR UPDATE SKIP LOCKED: workers concurrentes nunca toman el mismo.
func (r *InboxRepo) Claim(ctx context.Context, limit int, staleBefore time.Time) ([]*entity.InboxEvent, error) {
	query := `
		UPDATE inbox_events SET status = 'PROCESSING', attempts = attempts + 1, claimed_at = now()
		WHERE id IN (
			SELECT id FROM inbox_events
			WHERE status = 'PENDING' OR (status = 'PROCESSING' AND claimed_at < $2)
			ORDER BY received_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + inboxColumns
	rows, err := r.q.Query(ctx, query, limit, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("claim inbox events: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.InboxEvent, 0, limit)
	for rows.Next() {
		e, err := scanInbox(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inbox event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Finish cierra el evento. Un lastError vacío conserva el error de intentos anteriores.
func (r *InboxRepo) Finish(ctx context.Context, id, status, lastError string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inbox_events SET status = $2, last_error = COALESCE(NULLIF($3, ''), last_error), processed_at = now()
		WHERE id = $1`, id, status, lastError)
	if err != nil {
		return fmt.Errorf("finish inbox event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InboxRepo) Release(ctx context.Context, id, lastError string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inbox_events SET status = 'PENDING', last_error = $2, claimed_at = NULL
		WHERE id = $1`, id, lastError)
	if err != nil {
		return fmt.Errorf("release inbox event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
