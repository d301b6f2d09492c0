package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WebhookAckResponse acuse inmediato al POS.
type WebhookAckResponse struct {
	Received bool   `json:"received"`
	EventID  string `json:"event_id,omitempty"`
	OrderID  string `json:"order_id"`
	Queued   bool   `json:"queued"`
}

// IngredientMovementDTO descuento registrado para una orden.
type IngredientMovementDTO struct {
	ID             string          `json:"id"`
	IngredientID   string          `json:"ingredient_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	ResultingStock decimal.Decimal `json:"resulting_stock"`
	CreatedAt      time.Time       `json:"created_at"`
}

// OrderMovementsResponse respuesta de GET /api/orders/:orderId/movements.
type OrderMovementsResponse struct {
	OrderID   string                  `json:"order_id"`
	Movements []IngredientMovementDTO `json:"movements"`
}
