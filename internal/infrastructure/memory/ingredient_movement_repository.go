package memory

import (
	"context"

	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.IngredientMovementRepository = (*IngredientMovementRepo)(nil)

// IngredientMovementRepo auditoría de movimientos en memoria (solo inserción).
type IngredientMovementRepo struct {
	s *Store
}

// NewIngredientMovementRepository construye el repositorio.
func NewIngredientMovementRepository(s *Store) *IngredientMovementRepo {
	return &IngredientMovementRepo{s: s}
}

func (r *IngredientMovementRepo) Create(_ context.Context, m *entity.IngredientMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	if c.Kind == "" {
		c.Kind = entity.MovementKindConsume
	}
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *IngredientMovementRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.IngredientMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.IngredientMovement, 0)
	for _, m := range r.s.movements {
		if m.OrderID == orderID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *IngredientMovementRepo) ExistsForOrder(_ context.Context, orderID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.OrderID == orderID && m.Kind == entity.MovementKindConsume {
			return true, nil
		}
	}
	return false, nil
}
