package restock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/domain/entity"
)

// DefaultThresholdRatio umbral de reposición: mitad del máximo.
var DefaultThresholdRatio = decimal.RequireFromString("0.5")

// Observation resultado de un descuento de inventario, en la unidad base del ingrediente.
type Observation struct {
	IngredientID string
	NewQuantity  decimal.Decimal
	Max          *decimal.Decimal
	Consumed     decimal.Decimal
}

// Policy decide si un descuento agrega o actualiza una línea en la lista de compras (servicio de dominio).
type Policy struct {
	ThresholdRatio decimal.Decimal
}

// NewPolicy construye la política; un ratio no positivo usa DefaultThresholdRatio.
func NewPolicy(ratio decimal.Decimal) Policy {
	if !ratio.IsPositive() {
		ratio = DefaultThresholdRatio
	}
	return Policy{ThresholdRatio: ratio}
}

// Threshold nivel de stock en o bajo el cual se dispara la reposición.
func (p Policy) Threshold(max decimal.Decimal) decimal.Decimal {
	ratio := p.ThresholdRatio
	if !ratio.IsPositive() {
		ratio = DefaultThresholdRatio
	}
	return max.Mul(ratio)
}

// Apply aplica la observación sobre la lista y devuelve true si la lista cambió.
//
//	Necesario = ⌈Max − NuevoStock⌉ (no se compran fracciones)
//	- Línea existente con cantidad ≥ Max: se apila el consumo (⌈Consumido⌉).
//	- Línea existente bajo Max: se sobrescribe con Necesario.
//	- Sin línea y Necesario > 0: se agrega.
func (p Policy) Apply(list *entity.ShoppingList, obs Observation) bool {
	if !p.Triggers(obs) {
		return false
	}
	max := *obs.Max
	needed := max.Sub(obs.NewQuantity).Ceil()

	if i := list.IndexOf(obs.IngredientID); i >= 0 {
		line := &list.Lines[i]
		if line.Quantity.GreaterThanOrEqual(max) {
			if !obs.Consumed.IsPositive() {
				return false
			}
			line.Quantity = line.Quantity.Add(obs.Consumed.Ceil())
			return true
		}
		if !needed.IsPositive() || line.Quantity.Equal(needed) {
			return false
		}
		line.Quantity = needed
		return true
	}

	if !needed.IsPositive() {
		return false
	}
	list.Lines = append(list.Lines, entity.ShoppingListLine{
		IngredientID: obs.IngredientID,
		Quantity:     needed,
	})
	return true
}

// ApplyAll aplica las observaciones en orden; devuelve true si alguna cambió la lista.
func (p Policy) ApplyAll(list *entity.ShoppingList, observations []Observation) bool {
	changed := false
	for _, obs := range observations {
		if p.Apply(list, obs) {
			changed = true
		}
	}
	return changed
}

// Rebase desplaza las observaciones de cada ingrediente presente en current para que la
// última coincida con el stock actual. Otras órdenes pueden descontar entre el consumo y la
// escritura de la lista; sin este ajuste la lista pediría de menos.
func Rebase(observations []Observation, current map[string]decimal.Decimal) []Observation {
	last := make(map[string]decimal.Decimal, len(current))
	for _, obs := range observations {
		last[obs.IngredientID] = obs.NewQuantity
	}
	out := make([]Observation, len(observations))
	for i, obs := range observations {
		if cur, ok := current[obs.IngredientID]; ok {
			obs.NewQuantity = obs.NewQuantity.Add(cur.Sub(last[obs.IngredientID]))
		}
		out[i] = obs
	}
	return out
}

// Triggers informa si la observación queda en o bajo el umbral de reposición.
func (p Policy) Triggers(obs Observation) bool {
	return obs.Max != nil && !obs.NewQuantity.GreaterThan(p.Threshold(*obs.Max))
}
