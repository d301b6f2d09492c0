package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo inventario de ingredientes en memoria.
type IngredientRepo struct {
	s *Store
}

// NewIngredientRepository construye el repositorio.
func NewIngredientRepository(s *Store) *IngredientRepo {
	return &IngredientRepo{s: s}
}

func (r *IngredientRepo) GetByID(_ context.Context, id string) (*entity.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ing, ok := r.s.ingredients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneIngredient(ing), nil
}

func (r *IngredientRepo) ListByBusiness(_ context.Context, businessID string) ([]*entity.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Ingredient, 0)
	for _, ing := range r.s.ingredients {
		if ing.BusinessID == businessID {
			out = append(out, cloneIngredient(ing))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Consume lee y escribe bajo el mismo lock: equivalente al UPDATE ... RETURNING de PostgreSQL.
func (r *IngredientRepo) Consume(_ context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.adjustStock(id, quantity.Neg())
}

// Receive suma bajo el mismo lock que Consume.
func (r *IngredientRepo) Receive(_ context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.adjustStock(id, quantity)
}

func (r *IngredientRepo) UpsertFromPOS(_ context.Context, businessID string, item entity.CatalogItem) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ing := r.s.ingredientByPOSItem(businessID, item.ID); ing != nil {
		ing.Name = item.Name
		ing.UpdatedAt = r.s.now()
		return false, nil
	}
	now := r.s.now()
	id := uuid.New().String()
	r.s.ingredients[id] = &entity.Ingredient{
		ID:              id,
		BusinessID:      businessID,
		Name:            item.Name,
		QuantityInStock: item.QuantityInStock,
		BaseUnit:        "each",
		POSItemID:       item.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return true, nil
}
