package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.IngredientMovementRepository = (*IngredientMovementRepo)(nil)

// IngredientMovementRepo auditoría de movimientos sobre PostgreSQL.
type IngredientMovementRepo struct {
	q Querier
}

// NewIngredientMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientMovementRepository(q Querier) *IngredientMovementRepo {
	return &IngredientMovementRepo{q: q}
}

func (r *IngredientMovementRepo) Create(ctx context.Context, m *entity.IngredientMovement) error {
	query := `
		INSERT INTO ingredient_movements (id, business_id, ingredient_id, kind, order_id, quantity, unit, resulting_stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	kind := m.Kind
	if kind == "" {
		kind = entity.MovementKindConsume
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.BusinessID, m.IngredientID, kind, m.OrderID,
		m.Quantity, m.Unit, m.ResultingStock, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ingredient movement: %w", err)
	}
	return nil
}

func (r *IngredientMovementRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.IngredientMovement, error) {
	query := `
		SELECT id, business_id, ingredient_id, kind, order_id, quantity, unit, resulting_stock, created_at
		FROM ingredient_movements WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list ingredient movements: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.IngredientMovement, 0)
	for rows.Next() {
		var m entity.IngredientMovement
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.IngredientID, &m.Kind, &m.OrderID,
			&m.Quantity, &m.Unit, &m.ResultingStock, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *IngredientMovementRepo) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ingredient_movements WHERE order_id = $1 AND kind = 'CONSUME')`, orderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists ingredient movements: %w", err)
	}
	return exists, nil
}
