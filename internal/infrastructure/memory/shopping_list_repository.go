package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.ShoppingListRepository = (*ShoppingListRepo)(nil)

// ShoppingListRepo listas de compras en memoria.
type ShoppingListRepo struct {
	s *Store
}

// NewShoppingListRepository construye el repositorio.
func NewShoppingListRepository(s *Store) *ShoppingListRepo {
	return &ShoppingListRepo{s: s}
}

func (r *ShoppingListRepo) Get(_ context.Context, businessID string) (*entity.ShoppingList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.lists[businessID].Clone(), nil
}

// Modify serializa las escrituras de listas con listMu. fn corre sin el lock del almacén,
// así que puede leer otros repositorios (por ejemplo el stock actual).
func (r *ShoppingListRepo) Modify(_ context.Context, businessID string, fn func(list *entity.ShoppingList) error) (*entity.ShoppingList, error) {
	r.s.listMu.Lock()
	defer r.s.listMu.Unlock()

	r.s.mu.Lock()
	now := r.s.now()
	work := r.s.lists[businessID].Clone()
	r.s.mu.Unlock()
	if work == nil {
		work = &entity.ShoppingList{
			ID:         uuid.New().String(),
			BusinessID: businessID,
			Lines:      []entity.ShoppingListLine{},
			CreatedAt:  now,
		}
	}
	if err := fn(work); err != nil {
		return nil, err
	}
	work.UpdatedAt = now

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lists[businessID] = work
	return work.Clone(), nil
}
