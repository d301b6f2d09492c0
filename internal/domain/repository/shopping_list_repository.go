package repository

import (
	"context"

	"github.com/jhoicas/posync/internal/domain/entity"
)

// ShoppingListRepository puerto de la lista de compras (una por negocio).
type ShoppingListRepository interface {
	// Get devuelve nil, nil si el negocio aún no tiene lista.
	Get(ctx context.Context, businessID string) (*entity.ShoppingList, error)
	// Modify crea la lista si no existe, la bloquea para el negocio, aplica fn y persiste
	// una sola vez. Modificaciones concurrentes del mismo negocio quedan serializadas.
	// Si fn devuelve error no se persiste nada.
	Modify(ctx context.Context, businessID string, fn func(list *entity.ShoppingList) error) (*entity.ShoppingList, error)
}
