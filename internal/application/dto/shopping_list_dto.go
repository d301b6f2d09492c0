package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingListLineDTO línea de la lista con el nombre del ingrediente ("Unknown" si ya no existe).
type ShoppingListLineDTO struct {
	IngredientID   string          `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	Note           string          `json:"note,omitempty"`
}

// ShoppingListResponse respuesta de GET /api/shopping-list.
type ShoppingListResponse struct {
	ID         string                `json:"id"`
	BusinessID string                `json:"business_id"`
	Lines      []ShoppingListLineDTO `json:"lines"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// AddShoppingItemRequest body para POST /api/shopping-list/items/:ingredientId.
type AddShoppingItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Note     string          `json:"note,omitempty"`
}

// RemoveShoppingItemRequest body para DELETE /api/shopping-list/items/:ingredientId.
type RemoveShoppingItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}
