package repository

import (
	"context"

	"github.com/jhoicas/posync/internal/domain/entity"
)

// IngredientMovementRepository puerto del registro de auditoría de movimientos.
type IngredientMovementRepository interface {
	Create(ctx context.Context, movement *entity.IngredientMovement) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.IngredientMovement, error)
	// ExistsForOrder solo considera consumos: una recepción nunca marca una orden como aplicada.
	ExistsForOrder(ctx context.Context, orderID string) (bool, error)
}
