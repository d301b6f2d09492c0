package dto

import "github.com/shopspring/decimal"

// PurchaseLineRequest una línea de la compra recibida. Ordered y Received van en Unit
// (vacío = unidad base del ingrediente).
type PurchaseLineRequest struct {
	IngredientID string          `json:"ingredient_id"`
	Ordered      decimal.Decimal `json:"ordered"`
	Received     decimal.Decimal `json:"received"`
	Unit         string          `json:"unit,omitempty"`
}

// ReceivePurchaseRequest body para POST /api/purchases/receive.
type ReceivePurchaseRequest struct {
	ReceiptID string                `json:"receipt_id,omitempty"`
	Lines     []PurchaseLineRequest `json:"lines"`
}

// ReceivedLineDTO mercancía sumada al inventario, en unidad base.
type ReceivedLineDTO struct {
	IngredientID   string          `json:"ingredient_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ResultingStock decimal.Decimal `json:"resulting_stock"`
}

// ShortfallLineDTO faltante de la compra que pasó a la lista de compras, en unidad base.
type ShortfallLineDTO struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// ReceivePurchaseResponse resultado de recibir una compra.
type ReceivePurchaseResponse struct {
	ReceiptID string             `json:"receipt_id"`
	Received  []ReceivedLineDTO  `json:"received"`
	Shortfall []ShortfallLineDTO `json:"shortfall"`
}

// CatalogSyncResponse resultado de sincronizar el catálogo del POS.
type CatalogSyncResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}
