// Package memory implementa los repositorios en memoria para desarrollo local y pruebas.
// Todo el estado vive en un Store protegido por un único mutex; los repositorios devuelven
// copias para que ningún llamador comparta punteros con el almacén.
package memory

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu sync.Mutex
	// listMu serializa ShoppingListRepo.Modify; se toma siempre antes que mu.
	listMu sync.Mutex

	businesses  map[string]*entity.Business
	ingredients map[string]*entity.Ingredient
	recipes     map[string]*entity.Recipe
	recipeOrder []string
	movements   []*entity.IngredientMovement
	lists       map[string]*entity.ShoppingList
	processed   map[string]*entity.ProcessedEvent
	inbox       map[string]*entity.InboxEvent
	inboxOrder  []string

	now func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		businesses:  make(map[string]*entity.Business),
		ingredients: make(map[string]*entity.Ingredient),
		recipes:     make(map[string]*entity.Recipe),
		lists:       make(map[string]*entity.ShoppingList),
		processed:   make(map[string]*entity.ProcessedEvent),
		inbox:       make(map[string]*entity.InboxEvent),
		now:         time.Now,
	}
}

// PutBusiness inserta o reemplaza un negocio.
func (s *Store) PutBusiness(b *entity.Business) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *b
	s.businesses[b.ID] = &c
}

// PutIngredient inserta o reemplaza un ingrediente.
func (s *Store) PutIngredient(i *entity.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients[i.ID] = cloneIngredient(i)
}

// PutRecipe inserta o reemplaza una receta conservando el orden de alta.
func (s *Store) PutRecipe(r *entity.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[r.ID]; !ok {
		s.recipeOrder = append(s.recipeOrder, r.ID)
	}
	s.recipes[r.ID] = cloneRecipe(r)
}

// adjustStock suma delta al stock. Requiere mu tomado.
func (s *Store) adjustStock(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	ing, ok := s.ingredients[id]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	ing.QuantityInStock = ing.QuantityInStock.Add(delta)
	ing.UpdatedAt = s.now()
	return ing.QuantityInStock, nil
}

// ingredientByPOSItem busca el ingrediente vinculado al ítem POS. Requiere mu tomado.
func (s *Store) ingredientByPOSItem(businessID, posItemID string) *entity.Ingredient {
	if posItemID == "" {
		return nil
	}
	for _, ing := range s.ingredients {
		if ing.BusinessID == businessID && ing.POSItemID == posItemID {
			return ing
		}
	}
	return nil
}

// removeMovement elimina un movimiento por ID. Requiere mu tomado.
func (s *Store) removeMovement(id string) {
	for i, m := range s.movements {
		if m.ID == id {
			s.movements = append(s.movements[:i], s.movements[i+1:]...)
			return
		}
	}
}

func cloneIngredient(i *entity.Ingredient) *entity.Ingredient {
	c := *i
	if i.Max != nil {
		m := *i.Max
		c.Max = &m
	}
	if i.ConversionRate != nil {
		r := *i.ConversionRate
		c.ConversionRate = &r
	}
	return &c
}

func cloneRecipe(r *entity.Recipe) *entity.Recipe {
	c := *r
	c.Ingredients = append([]entity.RecipeIngredient(nil), r.Ingredients...)
	c.VariationIDs = append([]string(nil), r.VariationIDs...)
	c.Modifiers = append([]entity.Modifier(nil), r.Modifiers...)
	c.Categories = append([]string(nil), r.Categories...)
	return &c
}

func cloneInbox(e *entity.InboxEvent) *entity.InboxEvent {
	c := *e
	c.Payload = append([]byte(nil), e.Payload...)
	return &c
}
