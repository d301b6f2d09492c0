package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posync/internal/application/inventory"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/infrastructure/memory"
)

func TestMovementsUseCase_ListByOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewIngredientMovementRepository(memory.NewStore())
	require.NoError(t, repo.Create(ctx, &entity.IngredientMovement{ID: "m-1", BusinessID: "b-1", IngredientID: "pan", OrderID: "o-1", Quantity: dec("-2"), Unit: "slice"}))
	require.NoError(t, repo.Create(ctx, &entity.IngredientMovement{ID: "m-2", BusinessID: "b-1", IngredientID: "queso", OrderID: "o-1", Quantity: dec("-1"), Unit: "oz"}))
	require.NoError(t, repo.Create(ctx, &entity.IngredientMovement{ID: "m-3", BusinessID: "b-2", IngredientID: "pan", OrderID: "o-1", Quantity: dec("-5"), Unit: "slice"}))

	uc := inventory.NewMovementsUseCase(repo)

	out, err := uc.ListByOrder(ctx, "b-1", "o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", out.OrderID)
	require.Len(t, out.Movements, 2, "solo los movimientos del negocio del token")
	assert.Equal(t, "m-1", out.Movements[0].ID)
	assert.Equal(t, "m-2", out.Movements[1].ID)
}

func TestMovementsUseCase_Errores(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewIngredientMovementRepository(memory.NewStore())
	require.NoError(t, repo.Create(ctx, &entity.IngredientMovement{ID: "m-1", BusinessID: "b-2", OrderID: "o-1", Quantity: dec("-1")}))
	uc := inventory.NewMovementsUseCase(repo)

	_, err := uc.ListByOrder(ctx, "", "o-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ListByOrder(ctx, "b-1", "o-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "la orden de otro negocio no se expone")

	_, err = uc.ListByOrder(ctx, "b-1", "o-inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
