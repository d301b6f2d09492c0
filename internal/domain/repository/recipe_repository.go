package repository

import (
	"context"

	"github.com/jhoicas/posync/internal/domain/entity"
)

// RecipeRepository puerto de lectura del catálogo de recetas de un negocio.
type RecipeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*entity.Recipe, error)
}
