// Package purchasing registra la mercancía comprada: suma lo recibido al inventario y
// devuelve a la lista de compras lo que faltó respecto de lo pedido.
package purchasing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/application/dto"
	"github.com/jhoicas/posync/internal/application/inventory"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
	"github.com/jhoicas/posync/internal/domain/units"
)

// StockReceiver suma mercancía al inventario en una sola transacción.
type StockReceiver interface {
	ReceiveBatch(ctx context.Context, inputs []inventory.ReceiveInput) ([]decimal.Decimal, error)
}

// UseCase recepción de compras.
type UseCase struct {
	ingredients repository.IngredientRepository
	movements   repository.IngredientMovementRepository
	lists       repository.ShoppingListRepository
	ledger      StockReceiver
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	ingredients repository.IngredientRepository,
	movements repository.IngredientMovementRepository,
	lists repository.ShoppingListRepository,
	ledger StockReceiver,
) *UseCase {
	return &UseCase{ingredients: ingredients, movements: movements, lists: lists, ledger: ledger}
}

// line una línea ya validada y expresada en la unidad base del ingrediente.
type line struct {
	ingredientID string
	received     decimal.Decimal
	shortfall    decimal.Decimal
}

// Receive valida todas las líneas antes de tocar nada. Lo recibido entra al inventario en una
// transacción; el faltante (pedido − recibido, redondeado hacia arriba) se suma a la lista de
// compras bajo el mismo bloqueo que usa la conciliación. Un receiptID ya registrado devuelve
// domain.ErrDuplicate.
func (uc *UseCase) Receive(ctx context.Context, businessID string, in dto.ReceivePurchaseRequest) (*dto.ReceivePurchaseResponse, error) {
	if businessID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	receiptID := in.ReceiptID
	if receiptID == "" {
		receiptID = uuid.New().String()
	} else {
		prev, err := uc.movements.ListByOrder(ctx, receiptID)
		if err != nil {
			return nil, fmt.Errorf("verificar compra: %w", err)
		}
		if len(prev) > 0 {
			return nil, domain.ErrDuplicate
		}
	}

	lines, err := uc.validate(ctx, businessID, in.Lines)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReceivePurchaseResponse{
		ReceiptID: receiptID,
		Received:  make([]dto.ReceivedLineDTO, 0, len(lines)),
		Shortfall: make([]dto.ShortfallLineDTO, 0),
	}
	var (
		inputs    []inventory.ReceiveInput
		shortfall []entity.ShoppingListLine
	)
	for _, l := range lines {
		if l.received.IsPositive() {
			inputs = append(inputs, inventory.ReceiveInput{
				BusinessID:   businessID,
				IngredientID: l.ingredientID,
				ReceiptID:    receiptID,
				Quantity:     l.received,
			})
		}
		if l.shortfall.IsPositive() {
			shortfall = append(shortfall, entity.ShoppingListLine{IngredientID: l.ingredientID, Quantity: l.shortfall})
		}
	}

	receive := func() error {
		if len(inputs) == 0 {
			return nil
		}
		stocks, err := uc.ledger.ReceiveBatch(ctx, inputs)
		if err != nil {
			return err
		}
		for i, input := range inputs {
			resp.Received = append(resp.Received, dto.ReceivedLineDTO{
				IngredientID:   input.IngredientID,
				Quantity:       input.Quantity,
				ResultingStock: stocks[i],
			})
		}
		return nil
	}

	if len(shortfall) == 0 {
		if err := receive(); err != nil {
			return nil, err
		}
		return resp, nil
	}

	// La recepción corre dentro de Modify: si falla, el faltante tampoco se guarda.
	_, err = uc.lists.Modify(ctx, businessID, func(list *entity.ShoppingList) error {
		if err := receive(); err != nil {
			return err
		}
		for _, s := range shortfall {
			if i := list.IndexOf(s.IngredientID); i >= 0 {
				list.Lines[i].Quantity = list.Lines[i].Quantity.Add(s.Quantity)
				continue
			}
			list.Lines = append(list.Lines, s)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recibir compra: %w", err)
	}
	for _, s := range shortfall {
		resp.Shortfall = append(resp.Shortfall, dto.ShortfallLineDTO{IngredientID: s.IngredientID, Quantity: s.Quantity})
	}
	return resp, nil
}

func (uc *UseCase) validate(ctx context.Context, businessID string, in []dto.PurchaseLineRequest) ([]line, error) {
	seen := make(map[string]bool, len(in))
	out := make([]line, 0, len(in))
	for _, pl := range in {
		if pl.IngredientID == "" || seen[pl.IngredientID] || pl.Ordered.IsNegative() || pl.Received.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if pl.Ordered.IsZero() && pl.Received.IsZero() {
			return nil, domain.ErrInvalidInput
		}
		seen[pl.IngredientID] = true

		ing, err := uc.ingredients.GetByID(ctx, pl.IngredientID)
		if err != nil {
			return nil, err
		}
		if ing.BusinessID != businessID {
			return nil, domain.ErrNotFound
		}
		unit := pl.Unit
		if unit == "" {
			unit = ing.BaseUnit
		}
		ordered, err := units.Convert(pl.Ordered, unit, ing.BaseUnit, ing.ConversionRate)
		if err != nil {
			return nil, err
		}
		received, err := units.Convert(pl.Received, unit, ing.BaseUnit, ing.ConversionRate)
		if err != nil {
			return nil, err
		}
		l := line{ingredientID: ing.ID, received: received}
		if gap := ordered.Sub(received); gap.IsPositive() {
			l.shortfall = gap.Ceil()
		}
		out = append(out, l)
	}
	return out, nil
}
