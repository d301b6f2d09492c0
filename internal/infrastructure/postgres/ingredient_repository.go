package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo inventario de ingredientes sobre PostgreSQL (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

const ingredientColumns = `id, business_id, name, quantity_in_stock, base_unit, max, conversion_rate, pos_item_id, created_at, updated_at`

func scanIngredient(row interface{ Scan(...any) error }) (*entity.Ingredient, error) {
	var (
		ing      entity.Ingredient
		max      decimal.NullDecimal
		convRate decimal.NullDecimal
	)
	err := row.Scan(&ing.ID, &ing.BusinessID, &ing.Name, &ing.QuantityInStock, &ing.BaseUnit,
		&max, &convRate, &ing.POSItemID, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if max.Valid {
		ing.Max = &max.Decimal
	}
	if convRate.Valid {
		ing.ConversionRate = &convRate.Decimal
	}
	return &ing, nil
}

func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	ing, err := scanIngredient(r.q.QueryRow(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

func (r *IngredientRepo) ListByBusiness(ctx context.Context, businessID string) ([]*entity.Ingredient, error) {
	rows, err := r.q.Query(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE business_id = $1 ORDER BY name`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// Consume descuenta en una sola sentencia: la fila queda bloqueada solo lo que dura el UPDATE.
func (r *IngredientRepo) Consume(ctx context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE ingredients
		SET quantity_in_stock = quantity_in_stock - $2, updated_at = now()
		WHERE id = $1
		RETURNING quantity_in_stock`
	var newQty decimal.Decimal
	if err := r.q.QueryRow(ctx, query, id, quantity).Scan(&newQty); err != nil {
		if isNoRows(err) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("consume ingredient: %w", err)
	}
	return newQty, nil
}

// Receive suma en una sola sentencia, igual que Consume.
func (r *IngredientRepo) Receive(ctx context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE ingredients
		SET quantity_in_stock = quantity_in_stock + $2, updated_at = now()
		WHERE id = $1
		RETURNING quantity_in_stock`
	var newQty decimal.Decimal
	if err := r.q.QueryRow(ctx, query, id, quantity).Scan(&newQty); err != nil {
		if isNoRows(err) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("receive ingredient: %w", err)
	}
	return newQty, nil
}

// UpsertFromPOS inserta el ítem con unidad base "each" o renombra el existente.
// xmax = 0 distingue la fila recién insertada de la actualizada.
func (r *IngredientRepo) UpsertFromPOS(ctx context.Context, businessID string, item entity.CatalogItem) (bool, error) {
	query := `
		INSERT INTO ingredients (id, business_id, name, quantity_in_stock, base_unit, pos_item_id)
		VALUES ($1, $2, $3, $4, 'each', $5)
		ON CONFLICT (business_id, pos_item_id) WHERE pos_item_id <> ''
		DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING (xmax = 0)`
	var created bool
	err := r.q.QueryRow(ctx, query, uuid.New().String(), businessID, item.Name, item.QuantityInStock, item.ID).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert ingredient from pos: %w", err)
	}
	return created, nil
}
