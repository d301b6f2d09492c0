package repository

import (
	"context"
	"time"

	"github.com/jhoicas/posync/internal/domain/entity"
)

// ProcessedEventRepository puerto de los registros de deduplicación de órdenes.
type ProcessedEventRepository interface {
	Exists(ctx context.Context, orderID string) (bool, error)
	// Insert es atómico: devuelve domain.ErrDuplicate si la orden ya tiene registro.
	Insert(ctx context.Context, event *entity.ProcessedEvent) error
	// DeleteExpired elimina los registros con ExpiresAt <= now y devuelve cuántos borró.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
