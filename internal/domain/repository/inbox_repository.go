package repository

import (
	"context"
	"time"

	"github.com/jhoicas/posync/internal/domain/entity"
)

// InboxRepository puerto de la bandeja de entrada durable de eventos del POS.
type InboxRepository interface {
	Save(ctx context.Context, event *entity.InboxEvent) error
	GetByID(ctx context.Context, id string) (*entity.InboxEvent, error)
	// Claim toma hasta limit eventos PENDING (o PROCESSING con lease vencido) y los marca PROCESSING.
	// Dos llamadas concurrentes nunca reciben el mismo evento.
	Claim(ctx context.Context, limit int, staleBefore time.Time) ([]*entity.InboxEvent, error)
	// Finish deja el evento en un estado terminal (DONE, SKIPPED, FAILED). Un lastError vacío
	// conserva el último error registrado.
	Finish(ctx context.Context, id, status, lastError string) error
	// Release devuelve el evento a PENDING para reintento, registrando el error.
	Release(ctx context.Context, id, lastError string) error
}
