package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient representa un ítem del inventario de un negocio.
// QuantityInStock siempre está expresado en BaseUnit y puede quedar negativo
// (descuadre de inventario visible para el operador, nunca se recorta a cero).
type Ingredient struct {
	ID              string
	BusinessID      string
	Name            string
	QuantityInStock decimal.Decimal
	BaseUnit        string
	Max             *decimal.Decimal // techo de reposición; nil = sin reposición automática
	ConversionRate  *decimal.Decimal // unidades sueltas por paquete (ej. rebanadas por paquete)
	POSItemID       string           // ítem del catálogo POS del que se sincronizó; vacío si se creó a mano
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
