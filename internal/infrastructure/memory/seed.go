package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/domain/entity"
)

// seedFile formato del archivo JSON con datos iniciales para el driver en memoria.
type seedFile struct {
	Businesses []struct {
		ID                string `json:"id"`
		Name              string `json:"name"`
		SquareAccessToken string `json:"square_access_token"`
		SquareMerchantID  string `json:"square_merchant_id"`
	} `json:"businesses"`
	Ingredients []struct {
		ID              string           `json:"id"`
		BusinessID      string           `json:"business_id"`
		Name            string           `json:"name"`
		QuantityInStock decimal.Decimal  `json:"quantity_in_stock"`
		BaseUnit        string           `json:"base_unit"`
		Max             *decimal.Decimal `json:"max,omitempty"`
		ConversionRate  *decimal.Decimal `json:"conversion_rate,omitempty"`
		POSItemID       string           `json:"pos_item_id,omitempty"`
	} `json:"ingredients"`
	Recipes []struct {
		ID           string                    `json:"id"`
		BusinessID   string                    `json:"business_id"`
		Name         string                    `json:"name"`
		UnitCost     decimal.Decimal           `json:"unit_cost"`
		Ingredients  []entity.RecipeIngredient `json:"ingredients"`
		VariationIDs []string                  `json:"variation_ids"`
		Modifiers    []entity.Modifier         `json:"modifiers"`
		Categories   []string                  `json:"categories"`
	} `json:"recipes"`
}

// LoadSeed carga negocios, ingredientes y recetas desde un archivo JSON.
// Un archivo inexistente no es error: el almacén queda vacío.
func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("leer semilla: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("decodificar semilla: %w", err)
	}

	now := time.Now().UTC()
	for _, b := range seed.Businesses {
		s.PutBusiness(&entity.Business{
			ID: b.ID, Name: b.Name,
			SquareAccessToken: b.SquareAccessToken, SquareMerchantID: b.SquareMerchantID,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	for _, i := range seed.Ingredients {
		s.PutIngredient(&entity.Ingredient{
			ID: i.ID, BusinessID: i.BusinessID, Name: i.Name,
			QuantityInStock: i.QuantityInStock, BaseUnit: i.BaseUnit,
			Max: i.Max, ConversionRate: i.ConversionRate, POSItemID: i.POSItemID,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	for _, r := range seed.Recipes {
		s.PutRecipe(&entity.Recipe{
			ID: r.ID, BusinessID: r.BusinessID, Name: r.Name, UnitCost: r.UnitCost,
			Ingredients: r.Ingredients, VariationIDs: r.VariationIDs,
			Modifiers: r.Modifiers, Categories: r.Categories,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	return nil
}
