package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.ShoppingListRepository = (*ShoppingListRepo)(nil)

// ShoppingListRepo lista de compras por negocio sobre PostgreSQL.
// Necesita el pool para abrir su propia transacción en Modify.
type ShoppingListRepo struct {
	pool *pgxpool.Pool
}

// NewShoppingListRepository construye el adaptador.
func NewShoppingListRepository(pool *pgxpool.Pool) *ShoppingListRepo {
	return &ShoppingListRepo{pool: pool}
}

const shoppingListColumns = `id, business_id, lines, created_at, updated_at`

func scanShoppingList(row interface{ Scan(...any) error }) (*entity.ShoppingList, error) {
	var (
		list  entity.ShoppingList
		lines []byte
	)
	if err := row.Scan(&list.ID, &list.BusinessID, &lines, &list.CreatedAt, &list.UpdatedAt); err != nil {
		return nil, err
	}
	list.Lines = []entity.ShoppingListLine{}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &list.Lines); err != nil {
			return nil, fmt.Errorf("decode shopping list lines: %w", err)
		}
	}
	return &list, nil
}

func (r *ShoppingListRepo) Get(ctx context.Context, businessID string) (*entity.ShoppingList, error) {
	list, err := scanShoppingList(r.pool.QueryRow(ctx,
		`SELECT `+shoppingListColumns+` FROM shopping_lists WHERE business_id = $1`, businessID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	return list, nil
}

// Modify crea la fila si falta (INSERT ... ON CONFLICT DO NOTHING), la bloquea con
// SELECT ... FOR UPDATE y escribe las líneas una sola vez antes del Commit.
func (r *ShoppingListRepo) Modify(ctx context.Context, businessID string, fn func(list *entity.ShoppingList) error) (*entity.ShoppingList, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO shopping_lists (id, business_id, lines, created_at, updated_at)
		VALUES ($1, $2, '[]', now(), now())
		ON CONFLICT (business_id) DO NOTHING`, uuid.New().String(), businessID)
	if err != nil {
		return nil, fmt.Errorf("ensure shopping list: %w", err)
	}

	list, err := scanShoppingList(tx.QueryRow(ctx,
		`SELECT `+shoppingListColumns+` FROM shopping_lists WHERE business_id = $1 FOR UPDATE`, businessID))
	if err != nil {
		return nil, fmt.Errorf("lock shopping list: %w", err)
	}

	if err := fn(list); err != nil {
		return nil, err
	}

	lines, err := json.Marshal(list.Lines)
	if err != nil {
		return nil, fmt.Errorf("encode shopping list lines: %w", err)
	}
	if err := tx.QueryRow(ctx, `
		UPDATE shopping_lists SET lines = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`, list.ID, lines).Scan(&list.UpdatedAt); err != nil {
		return nil, fmt.Errorf("update shopping list: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return list, nil
}
