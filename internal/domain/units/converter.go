// Package units convierte cantidades entre unidades de medida de cocina.
//
// Hay dos familias: conteo (each, slice, package) y masa/volumen, normalizada a onzas.
// Dentro de conteo, pasar de unidades sueltas a paquete exige la tasa del ingrediente
// (unidades por paquete); nunca se asume una tasa por defecto.
package units

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/domain"
)

// Unit unidad canónica (ya normalizada desde sus alias).
type Unit string

// Familia de conteo.
const (
	Each    Unit = "each"
	Slice   Unit = "slice"
	Package Unit = "package"
)

// Familia masa/volumen.
const (
	Teaspoon   Unit = "tsp"
	Tablespoon Unit = "tbsp"
	FluidOunce Unit = "fl_oz"
	Cup        Unit = "cup"
	Pint       Unit = "pint"
	Quart      Unit = "quart"
	Gallon     Unit = "gallon"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Ounce      Unit = "oz"
	Pound      Unit = "lb"
	Milligram  Unit = "mg"
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
)

// Family agrupa unidades convertibles entre sí.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyCount
	FamilyMassVolume
)

// ounces: factor multiplicativo de cada unidad a onzas.
var ounces = map[Unit]decimal.Decimal{
	Teaspoon:   decimal.RequireFromString("0.1666666666666667"),
	Tablespoon: decimal.RequireFromString("0.5"),
	FluidOunce: decimal.NewFromInt(1),
	Cup:        decimal.NewFromInt(8),
	Pint:       decimal.NewFromInt(16),
	Quart:      decimal.NewFromInt(32),
	Gallon:     decimal.NewFromInt(128),
	Milliliter: decimal.RequireFromString("0.033814"),
	Liter:      decimal.RequireFromString("33.814"),
	Ounce:      decimal.NewFromInt(1),
	Pound:      decimal.NewFromInt(16),
	Milligram:  decimal.RequireFromString("0.000035274"),
	Gram:       decimal.RequireFromString("0.035274"),
	Kilogram:   decimal.RequireFromString("35.274"),
}

var aliases = map[string]Unit{
	"each": Each, "ea": Each, "piece": Each, "pieces": Each, "pc": Each, "pcs": Each,
	"unit": Each, "units": Each, "item": Each, "items": Each, "whole": Each,
	"slice": Slice, "slices": Slice,
	"package": Package, "packages": Package, "pkg": Package, "pack": Package, "packs": Package,

	"tsp": Teaspoon, "teaspoon": Teaspoon, "teaspoons": Teaspoon,
	"tbsp": Tablespoon, "tablespoon": Tablespoon, "tablespoons": Tablespoon,
	"fl_oz": FluidOunce, "fl oz": FluidOunce, "floz": FluidOunce, "fluid ounce": FluidOunce, "fluid ounces": FluidOunce,
	"cup": Cup, "cups": Cup,
	"pint": Pint, "pints": Pint, "pt": Pint,
	"quart": Quart, "quarts": Quart, "qt": Quart,
	"gallon": Gallon, "gallons": Gallon, "gal": Gallon,
	"ml": Milliliter, "milliliter": Milliliter, "milliliters": Milliliter, "millilitre": Milliliter,
	"l": Liter, "liter": Liter, "liters": Liter, "litre": Liter, "litres": Liter,
	"oz": Ounce, "ounce": Ounce, "ounces": Ounce,
	"lb": Pound, "lbs": Pound, "pound": Pound, "pounds": Pound,
	"mg": Milligram, "milligram": Milligram, "milligrams": Milligram,
	"g": Gram, "gram": Gram, "grams": Gram,
	"kg": Kilogram, "kilogram": Kilogram, "kilograms": Kilogram,
}

// ParseUnit normaliza un nombre de unidad libre ("Tablespoons", " cups ") a su Unit canónica.
func ParseUnit(s string) (Unit, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if u, ok := aliases[key]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: unidad desconocida %q", domain.ErrUnsupportedConversion, s)
}

// FamilyOf devuelve la familia de la unidad.
func FamilyOf(u Unit) Family {
	switch u {
	case Each, Slice, Package:
		return FamilyCount
	}
	if _, ok := ounces[u]; ok {
		return FamilyMassVolume
	}
	return FamilyUnknown
}

// Convert convierte amount de la unidad from a la unidad to.
// rate es la tasa de conversión del ingrediente (unidades sueltas por paquete); puede ser nil.
func Convert(amount decimal.Decimal, from, to string, rate *decimal.Decimal) (decimal.Decimal, error) {
	f, err := ParseUnit(from)
	if err != nil {
		return decimal.Zero, err
	}
	t, err := ParseUnit(to)
	if err != nil {
		return decimal.Zero, err
	}
	return ConvertUnits(amount, f, t, rate)
}

// ConvertUnits es Convert sobre unidades ya normalizadas.
func ConvertUnits(amount decimal.Decimal, from, to Unit, rate *decimal.Decimal) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	ff, tf := FamilyOf(from), FamilyOf(to)
	switch {
	case ff == FamilyMassVolume && tf == FamilyMassVolume:
		return amount.Mul(ounces[from]).Div(ounces[to]), nil
	case ff == FamilyCount && tf == FamilyCount:
		return convertCount(amount, from, to, rate)
	}
	return decimal.Zero, fmt.Errorf("%w: %s → %s", domain.ErrUnsupportedConversion, from, to)
}

// convertCount cruza la frontera unidad suelta ↔ paquete usando la tasa del ingrediente.
func convertCount(amount decimal.Decimal, from, to Unit, rate *decimal.Decimal) (decimal.Decimal, error) {
	if from != Package && to != Package {
		// each ↔ slice: no existe una relación fija
		return decimal.Zero, fmt.Errorf("%w: %s → %s", domain.ErrUnsupportedConversion, from, to)
	}
	if rate == nil || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s → %s requiere tasa de conversión", domain.ErrUnsupportedConversion, from, to)
	}
	if to == Package {
		return amount.Div(*rate), nil
	}
	return amount.Mul(*rate), nil
}
