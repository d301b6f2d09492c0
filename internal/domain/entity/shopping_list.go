package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingList lista de compras única por negocio. Se crea al primer disparo de reposición.
type ShoppingList struct {
	ID         string
	BusinessID string
	Lines      []ShoppingListLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ShoppingListLine una línea pendiente de compra.
type ShoppingListLine struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Note         string          `json:"note,omitempty"`
}

// IndexOf devuelve la posición de la línea del ingrediente o -1.
func (l *ShoppingList) IndexOf(ingredientID string) int {
	for i := range l.Lines {
		if l.Lines[i].IngredientID == ingredientID {
			return i
		}
	}
	return -1
}

// RemoveAt elimina la línea i conservando el orden de las demás.
func (l *ShoppingList) RemoveAt(i int) {
	l.Lines = append(l.Lines[:i], l.Lines[i+1:]...)
}

// Clone copia profunda (las líneas no se comparten con el original).
func (l *ShoppingList) Clone() *ShoppingList {
	if l == nil {
		return nil
	}
	c := *l
	c.Lines = append([]ShoppingListLine(nil), l.Lines...)
	return &c
}
