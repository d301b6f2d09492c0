package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

// DefaultDedupTTL retención de los registros de orden procesada.
const DefaultDedupTTL = 24 * time.Hour

// Deduplicator garantiza que una orden externa se concilie a lo sumo una vez.
type Deduplicator struct {
	repo repository.ProcessedEventRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewDeduplicator construye el deduplicador; ttl no positivo usa DefaultDedupTTL.
func NewDeduplicator(repo repository.ProcessedEventRepository, ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &Deduplicator{repo: repo, ttl: ttl, now: time.Now}
}

// ShouldProcess devuelve false si ya existe un registro para la orden, aunque esté vencido.
func (d *Deduplicator) ShouldProcess(ctx context.Context, orderID string) (bool, error) {
	exists, err := d.repo.Exists(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("consultar orden procesada: %w", err)
	}
	return !exists, nil
}

// MarkProcessed reserva la orden. Devuelve false si otra entrega la reservó primero.
func (d *Deduplicator) MarkProcessed(ctx context.Context, orderID string) (bool, error) {
	now := d.now()
	err := d.repo.Insert(ctx, &entity.ProcessedEvent{
		OrderID:   orderID,
		CreatedAt: now,
		ExpiresAt: now.Add(d.ttl),
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("marcar orden procesada: %w", err)
	}
	return true, nil
}

// Sweep elimina los registros vencidos y devuelve cuántos borró.
func (d *Deduplicator) Sweep(ctx context.Context) (int64, error) {
	n, err := d.repo.DeleteExpired(ctx, d.now())
	if err != nil {
		return 0, fmt.Errorf("barrer órdenes procesadas: %w", err)
	}
	return n, nil
}
