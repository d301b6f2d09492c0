package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/posync/internal/application/dto"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/repository"
)

// MovementsUseCase consulta de auditoría: qué descontó cada orden.
type MovementsUseCase struct {
	movementRepo repository.IngredientMovementRepository
}

// NewMovementsUseCase construye el caso de uso.
func NewMovementsUseCase(movementRepo repository.IngredientMovementRepository) *MovementsUseCase {
	return &MovementsUseCase{movementRepo: movementRepo}
}

// ListByOrder devuelve los movimientos de la orden que pertenecen al negocio.
func (uc *MovementsUseCase) ListByOrder(ctx context.Context, businessID, orderID string) (*dto.OrderMovementsResponse, error) {
	if businessID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.movementRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	out := &dto.OrderMovementsResponse{OrderID: orderID, Movements: make([]dto.IngredientMovementDTO, 0, len(list))}
	for _, m := range list {
		if m.BusinessID != businessID {
			continue
		}
		out.Movements = append(out.Movements, dto.IngredientMovementDTO{
			ID:             m.ID,
			IngredientID:   m.IngredientID,
			Quantity:       m.Quantity,
			Unit:           m.Unit,
			ResultingStock: m.ResultingStock,
			CreatedAt:      m.CreatedAt,
		})
	}
	if len(out.Movements) == 0 {
		return nil, domain.ErrNotFound
	}
	return out, nil
}
