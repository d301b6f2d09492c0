package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/application/inventory"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn con repositorios que registran cómo deshacer cada escritura.
// Si fn falla, los cambios de stock y los movimientos creados se revierten en orden inverso.
// Los cambios son visibles para otros lectores antes de confirmarse; los ajustes de stock se
// revierten con el delta inverso, así que los descuentos concurrentes de otros no se pierden.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	ingredientRepo repository.IngredientRepository,
	movementRepo repository.IngredientMovementRepository,
) error) error {
	tx := &memTx{s: r.s}
	err := fn(
		txIngredients{IngredientRepo: NewIngredientRepository(r.s), tx: tx},
		txMovements{IngredientMovementRepo: NewIngredientMovementRepository(r.s), tx: tx},
	)
	if err != nil {
		tx.rollback()
	}
	return err
}

// memTx acumula las operaciones inversas de una ejecución.
type memTx struct {
	s    *Store
	undo []func()
}

func (t *memTx) onRollback(f func()) {
	t.undo = append(t.undo, f)
}

func (t *memTx) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

type txIngredients struct {
	*IngredientRepo
	tx *memTx
}

func (r txIngredients) Consume(ctx context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error) {
	qty, err := r.IngredientRepo.Consume(ctx, id, quantity)
	if err == nil {
		r.tx.onRollback(func() { _, _ = r.s.adjustStock(id, quantity) })
	}
	return qty, err
}

func (r txIngredients) Receive(ctx context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error) {
	qty, err := r.IngredientRepo.Receive(ctx, id, quantity)
	if err == nil {
		r.tx.onRollback(func() { _, _ = r.s.adjustStock(id, quantity.Neg()) })
	}
	return qty, err
}

func (r txIngredients) UpsertFromPOS(ctx context.Context, businessID string, item entity.CatalogItem) (bool, error) {
	r.s.mu.Lock()
	var prevName string
	if ing := r.s.ingredientByPOSItem(businessID, item.ID); ing != nil {
		prevName = ing.Name
	}
	r.s.mu.Unlock()

	created, err := r.IngredientRepo.UpsertFromPOS(ctx, businessID, item)
	if err != nil {
		return false, err
	}
	r.tx.onRollback(func() {
		ing := r.s.ingredientByPOSItem(businessID, item.ID)
		switch {
		case ing == nil:
		case created:
			delete(r.s.ingredients, ing.ID)
		default:
			ing.Name = prevName
		}
	})
	return created, nil
}

type txMovements struct {
	*IngredientMovementRepo
	tx *memTx
}

func (r txMovements) Create(ctx context.Context, m *entity.IngredientMovement) error {
	if err := r.IngredientMovementRepo.Create(ctx, m); err != nil {
		return err
	}
	id := m.ID
	r.tx.onRollback(func() { r.s.removeMovement(id) })
	return nil
}
