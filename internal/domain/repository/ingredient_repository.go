package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/domain/entity"
)

// IngredientRepository define el puerto de persistencia del inventario de ingredientes (DIP).
type IngredientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Ingredient, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*entity.Ingredient, error)
	// Consume descuenta quantity (en unidad base) y devuelve el stock resultante.
	// Lectura y escritura son una sola operación indivisible del almacén; nunca rechaza stock negativo.
	// Devuelve domain.ErrNotFound si el ingrediente no existe.
	Consume(ctx context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error)
	// Receive suma quantity (en unidad base) con la misma atomicidad que Consume.
	Receive(ctx context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error)
	// UpsertFromPOS crea el ingrediente del ítem POS con su existencia, o solo renombra el que ya
	// estaba vinculado. Devuelve true si lo creó.
	UpsertFromPOS(ctx context.Context, businessID string, item entity.CatalogItem) (bool, error)
}
