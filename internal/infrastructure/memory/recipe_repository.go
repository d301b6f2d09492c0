package memory

import (
	"context"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo catálogo de recetas en memoria.
type RecipeRepo struct {
	s *Store
}

// NewRecipeRepository construye el repositorio.
func NewRecipeRepository(s *Store) *RecipeRepo {
	return &RecipeRepo{s: s}
}

func (r *RecipeRepo) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.recipes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneRecipe(rec), nil
}

// ListByBusiness devuelve las recetas en orden de alta.
func (r *RecipeRepo) ListByBusiness(_ context.Context, businessID string) ([]*entity.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Recipe, 0)
	for _, id := range r.s.recipeOrder {
		if rec := r.s.recipes[id]; rec.BusinessID == businessID {
			out = append(out, cloneRecipe(rec))
		}
	}
	return out, nil
}
