package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo catálogo de recetas sobre PostgreSQL.
// Ingredientes y modificadores se guardan como JSONB; variaciones y categorías como TEXT[].
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Acepta pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

const recipeColumns = `id, business_id, name, unit_cost, ingredients, variation_ids, modifiers, categories, created_at, updated_at`

func scanRecipe(row interface{ Scan(...any) error }) (*entity.Recipe, error) {
	var (
		rec         entity.Recipe
		ingredients []byte
		modifiers   []byte
	)
	err := row.Scan(&rec.ID, &rec.BusinessID, &rec.Name, &rec.UnitCost, &ingredients,
		&rec.VariationIDs, &modifiers, &rec.Categories, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &rec.Ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients of recipe %s: %w", rec.ID, err)
		}
	}
	if len(modifiers) > 0 {
		if err := json.Unmarshal(modifiers, &rec.Modifiers); err != nil {
			return nil, fmt.Errorf("decode modifiers of recipe %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	rec, err := scanRecipe(r.q.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return rec, nil
}

func (r *RecipeRepo) ListByBusiness(ctx context.Context, businessID string) ([]*entity.Recipe, error) {
	rows, err := r.q.Query(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE business_id = $1 ORDER BY created_at, id`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
