package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe representa un ítem del menú con los ingredientes que consume por unidad vendida.
// Las variaciones del POS (tamaños, presentaciones) son a su vez recetas, referenciadas por ID.
type Recipe struct {
	ID           string
	BusinessID   string
	Name         string
	UnitCost     decimal.Decimal
	Ingredients  []RecipeIngredient
	VariationIDs []string
	Modifiers    []Modifier
	Categories   []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecipeIngredient una entrada de ingrediente: cantidad consumida por unidad vendida y su unidad.
type RecipeIngredient struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// Modifier adicional seleccionable en el POS. IngredientID vacío = no mapeado en la sincronización del catálogo.
type Modifier struct {
	Name         string          `json:"name"`
	IngredientID string          `json:"ingredient_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// IsMapped informa si el modificador consume algún ingrediente.
func (m Modifier) IsMapped() bool { return m.IngredientID != "" }
