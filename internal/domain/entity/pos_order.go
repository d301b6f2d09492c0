package entity

import "github.com/shopspring/decimal"

// Estados de orden del POS relevantes para la conciliación.
const (
	OrderStateCompleted = "COMPLETED"
)

// Tipos de evento del POS que disparan la conciliación.
const (
	EventTypeOrderUpdated   = "order.updated"
	EventTypeOrderCompleted = "order.completed"
)

// Order detalle completo de una orden, tal como lo devuelve el POS.
type Order struct {
	ID         string
	LocationID string
	State      string
	LineItems  []LineItem
}

// LineItem un producto ordenado (con sus modificadores) dentro de la orden.
type LineItem struct {
	Name          string
	Quantity      decimal.Decimal
	VariationName string
	Modifiers     []LineItemModifier
}

// LineItemModifier selección de modificador; Quantity es por unidad de la línea.
type LineItemModifier struct {
	Name     string
	Quantity decimal.Decimal
}

// CatalogItem ítem del catálogo del POS con la existencia sumada de sus variaciones.
type CatalogItem struct {
	ID              string
	Name            string
	QuantityInStock decimal.Decimal
}
