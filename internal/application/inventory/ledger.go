package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
	"github.com/jhoicas/posync/internal/domain/units"
)

// ConsumeInput descuento de un ingrediente causado por una orden POS.
// Quantity ya viene convertida a la unidad base del ingrediente.
type ConsumeInput struct {
	BusinessID   string
	IngredientID string
	OrderID      string
	Quantity     decimal.Decimal
	Unit         string
}

// ReceiveInput entrada de mercancía comprada. Quantity viene en Unit y se convierte a la
// unidad base del ingrediente; ReceiptID identifica la compra en la auditoría.
type ReceiveInput struct {
	BusinessID   string
	IngredientID string
	ReceiptID    string
	Quantity     decimal.Decimal
	Unit         string
}

// Ledger libro de inventario: mueve stock de forma atómica y deja rastro de auditoría.
type Ledger struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedger construye el libro de inventario.
func NewLedger(txRunner TxRunner, log zerolog.Logger) *Ledger {
	return &Ledger{
		txRunner: txRunner,
		log:      log.With().Str("component", "ledger").Logger(),
		now:      time.Now,
	}
}

// Consume descuenta input.Quantity y devuelve el stock resultante.
// El stock puede quedar negativo: se registra y se advierte, nunca se rechaza.
func (l *Ledger) Consume(ctx context.Context, input ConsumeInput) (decimal.Decimal, error) {
	if input.IngredientID == "" || input.Quantity.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}

	var newQty decimal.Decimal
	err := l.txRunner.Run(ctx, func(
		ingredientRepo repository.IngredientRepository,
		movementRepo repository.IngredientMovementRepository,
	) error {
		qty, err := ingredientRepo.Consume(ctx, input.IngredientID, input.Quantity)
		if err != nil {
			return err
		}
		newQty = qty
		return movementRepo.Create(ctx, &entity.IngredientMovement{
			ID:             uuid.New().String(),
			BusinessID:     input.BusinessID,
			IngredientID:   input.IngredientID,
			Kind:           entity.MovementKindConsume,
			OrderID:        input.OrderID,
			Quantity:       input.Quantity.Neg(),
			Unit:           input.Unit,
			ResultingStock: qty,
			CreatedAt:      l.now(),
		})
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("consumir ingrediente %s: %w", input.IngredientID, err)
	}

	if newQty.IsNegative() {
		l.log.Warn().
			Str("ingredient_id", input.IngredientID).
			Str("order_id", input.OrderID).
			Str("stock", newQty.String()).
			Msg("Stock negativo tras descuento: revisar inventario")
	}
	return newQty, nil
}

// Receive suma la mercancía recibida y devuelve el stock resultante. El ingrediente debe
// pertenecer al negocio; una unidad incompatible devuelve domain.ErrUnsupportedConversion.
func (l *Ledger) Receive(ctx context.Context, input ReceiveInput) (decimal.Decimal, error) {
	out, err := l.ReceiveBatch(ctx, []ReceiveInput{input})
	if err != nil {
		return decimal.Zero, err
	}
	return out[0], nil
}

// ReceiveBatch aplica todas las entradas en una sola transacción: si una falla no se aplica
// ninguna. Devuelve el stock resultante de cada entrada, en el mismo orden.
func (l *Ledger) ReceiveBatch(ctx context.Context, inputs []ReceiveInput) ([]decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, in := range inputs {
		if in.IngredientID == "" || !in.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}

	out := make([]decimal.Decimal, len(inputs))
	err := l.txRunner.Run(ctx, func(
		ingredientRepo repository.IngredientRepository,
		movementRepo repository.IngredientMovementRepository,
	) error {
		for i, in := range inputs {
			qty, err := l.receiveOne(ctx, ingredientRepo, movementRepo, in)
			if err != nil {
				return fmt.Errorf("recibir ingrediente %s: %w", in.IngredientID, err)
			}
			out[i] = qty
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, in := range inputs {
		l.log.Info().
			Str("ingredient_id", in.IngredientID).
			Str("receipt_id", in.ReceiptID).
			Str("stock", out[i].String()).
			Msg("Mercancía recibida")
	}
	return out, nil
}

func (l *Ledger) receiveOne(
	ctx context.Context,
	ingredientRepo repository.IngredientRepository,
	movementRepo repository.IngredientMovementRepository,
	in ReceiveInput,
) (decimal.Decimal, error) {
	ing, err := ingredientRepo.GetByID(ctx, in.IngredientID)
	if err != nil {
		return decimal.Zero, err
	}
	if ing.BusinessID != in.BusinessID {
		return decimal.Zero, domain.ErrNotFound
	}
	unit := in.Unit
	if unit == "" {
		unit = ing.BaseUnit
	}
	base, err := units.Convert(in.Quantity, unit, ing.BaseUnit, ing.ConversionRate)
	if err != nil {
		return decimal.Zero, err
	}
	qty, err := ingredientRepo.Receive(ctx, ing.ID, base)
	if err != nil {
		return decimal.Zero, err
	}
	err = movementRepo.Create(ctx, &entity.IngredientMovement{
		ID:             uuid.New().String(),
		BusinessID:     ing.BusinessID,
		IngredientID:   ing.ID,
		Kind:           entity.MovementKindReceipt,
		OrderID:        in.ReceiptID,
		Quantity:       base,
		Unit:           ing.BaseUnit,
		ResultingStock: qty,
		CreatedAt:      l.now(),
	})
	return qty, err
}
