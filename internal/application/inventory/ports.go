package inventory

import (
	"context"

	"github.com/jhoicas/posync/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el descuento y su movimiento de auditoría se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ingredientRepo repository.IngredientRepository,
		movementRepo repository.IngredientMovementRepository,
	) error) error
}
