package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementKindConsume = "CONSUME" // descuento por una orden POS
	MovementKindReceipt = "RECEIPT" // entrada de mercancía comprada
)

// IngredientMovement registro de auditoría de un cambio de inventario.
// Quantity está en la unidad base del ingrediente: negativa en un consumo, positiva en una recepción.
// OrderID es la orden POS en un consumo y la referencia de la compra en una recepción.
type IngredientMovement struct {
	ID             string
	BusinessID     string
	IngredientID   string
	Kind           string
	OrderID        string
	Quantity       decimal.Decimal
	Unit           string
	ResultingStock decimal.Decimal
	CreatedAt      time.Time
}
