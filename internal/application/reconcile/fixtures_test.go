package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posync/internal/application/inventory"
	"github.com/jhoicas/posync/internal/application/reconcile"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
	"github.com/jhoicas/posync/internal/domain/restock"
	"github.com/jhoicas/posync/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Datos de prueba
// ──────────────────────────────────────────────────────────────────────────────

const (
	testBusinessID = "b-1"
	testMerchantID = "M-1"
	testToken      = "tok-sandbox"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// seedStore carga un negocio con pan, queso, tocino y leche, y un catálogo de recetas.
func seedStore(s *memory.Store) {
	s.PutBusiness(&entity.Business{
		ID: testBusinessID, Name: "Café Central",
		SquareAccessToken: testToken, SquareMerchantID: testMerchantID,
	})
	s.PutBusiness(&entity.Business{ID: "b-2", Name: "Sin token", SquareMerchantID: "M-2"})

	s.PutIngredient(&entity.Ingredient{
		ID: "pan", BusinessID: testBusinessID, Name: "Pan tajado",
		QuantityInStock: dec("40"), BaseUnit: "slice", Max: ptr(dec("40")), ConversionRate: ptr(dec("20")),
	})
	s.PutIngredient(&entity.Ingredient{
		ID: "queso", BusinessID: testBusinessID, Name: "Queso",
		QuantityInStock: dec("32"), BaseUnit: "oz", Max: ptr(dec("32")),
	})
	s.PutIngredient(&entity.Ingredient{
		ID: "tocino", BusinessID: testBusinessID, Name: "Tocino",
		QuantityInStock: dec("20"), BaseUnit: "slice",
	})
	s.PutIngredient(&entity.Ingredient{
		ID: "leche", BusinessID: testBusinessID, Name: "Leche",
		QuantityInStock: dec("128"), BaseUnit: "fl_oz", Max: ptr(dec("128")),
	})

	s.PutRecipe(&entity.Recipe{
		ID: "r-sandwich", BusinessID: testBusinessID, Name: "Grilled Cheese",
		Ingredients: []entity.RecipeIngredient{
			{IngredientID: "pan", Quantity: dec("2"), Unit: "slices"},
			{IngredientID: "queso", Quantity: dec("2"), Unit: "oz"},
		},
		Modifiers: []entity.Modifier{
			{Name: "Extra Cheese", IngredientID: "queso", Quantity: dec("1"), Unit: "oz"},
			{Name: "Add Bacon", IngredientID: "tocino", Quantity: dec("2"), Unit: "slice"},
			{Name: "Sin cebolla"},
		},
	})
	s.PutRecipe(&entity.Recipe{
		ID: "r-latte", BusinessID: testBusinessID, Name: "Latte",
		VariationIDs: []string{"r-latte-large"},
	})
	s.PutRecipe(&entity.Recipe{
		ID: "r-latte-large", BusinessID: testBusinessID, Name: "Large",
		Ingredients: []entity.RecipeIngredient{{IngredientID: "leche", Quantity: dec("2"), Unit: "cups"}},
	})
	s.PutRecipe(&entity.Recipe{
		ID: "r-ghost", BusinessID: testBusinessID, Name: "Ghost Toast",
		Ingredients: []entity.RecipeIngredient{
			{IngredientID: "no-existe", Quantity: dec("1"), Unit: "each"},
			{IngredientID: "pan", Quantity: dec("1"), Unit: "slice"},
		},
	})
	s.PutRecipe(&entity.Recipe{
		ID: "r-weird", BusinessID: testBusinessID, Name: "Weird Toast",
		Ingredients: []entity.RecipeIngredient{{IngredientID: "pan", Quantity: dec("1"), Unit: "oz"}},
	})
	s.PutRecipe(&entity.Recipe{
		ID: "r-platter", BusinessID: testBusinessID, Name: "Sandwich Platter",
		Ingredients: []entity.RecipeIngredient{{IngredientID: "pan", Quantity: dec("1"), Unit: "package"}},
	})
	s.PutRecipe(&entity.Recipe{
		ID: "r-toast", BusinessID: testBusinessID, Name: "Toast",
		Ingredients: []entity.RecipeIngredient{{IngredientID: "pan", Quantity: dec("1")}},
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

// fakeFetcher devuelve órdenes predefinidas y cuenta las consultas.
type fakeFetcher struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
	err    error
	calls  int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{orders: make(map[string]*entity.Order)}
}

func (f *fakeFetcher) put(orderID string, items ...entity.LineItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[orderID] = &entity.Order{ID: orderID, State: entity.OrderStateCompleted, LineItems: items}
}

func (f *fakeFetcher) GetOrder(_ context.Context, accessToken, orderID string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if accessToken != testToken {
		return nil, errors.New("token inválido")
	}
	o, ok := f.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("orden %s no existe", orderID)
	}
	return o, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// failOnceLists lista de compras cuya primera modificación falla.
type failOnceLists struct {
	repository.ShoppingListRepository
	failed atomic.Bool
}

func (f *failOnceLists) Modify(ctx context.Context, businessID string, fn func(*entity.ShoppingList) error) (*entity.ShoppingList, error) {
	if f.failed.CompareAndSwap(false, true) {
		return nil, errors.New("lista de compras no disponible")
	}
	return f.ShoppingListRepository.Modify(ctx, businessID, fn)
}

// gatedLists detiene la primera modificación hasta que la prueba cierre release.
type gatedLists struct {
	repository.ShoppingListRepository
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func newGatedLists(inner repository.ShoppingListRepository) *gatedLists {
	return &gatedLists{ShoppingListRepository: inner, reached: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedLists) Modify(ctx context.Context, businessID string, fn func(*entity.ShoppingList) error) (*entity.ShoppingList, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.reached)
		<-g.release
	}
	return g.ShoppingListRepository.Modify(ctx, businessID, fn)
}

func item(name string, qty string, mods ...entity.LineItemModifier) entity.LineItem {
	return entity.LineItem{Name: name, Quantity: dec(qty), Modifiers: mods}
}

func modifier(name, qty string) entity.LineItemModifier {
	return entity.LineItemModifier{Name: name, Quantity: dec(qty)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	store      *memory.Store
	fetcher    *fakeFetcher
	dedup      *reconcile.Deduplicator
	reconciler *reconcile.Reconciler
	ings       *memory.IngredientRepo
	movements  *memory.IngredientMovementRepo
	lists      *memory.ShoppingListRepo
	processed  *memory.ProcessedEventRepo
	policy     restock.Policy
}

func newEnv(t *testing.T, ratio string, dedupTTL time.Duration) *env {
	t.Helper()
	s := memory.NewStore()
	seedStore(s)

	e := &env{
		store:     s,
		fetcher:   newFakeFetcher(),
		ings:      memory.NewIngredientRepository(s),
		movements: memory.NewIngredientMovementRepository(s),
		lists:     memory.NewShoppingListRepository(s),
		processed: memory.NewProcessedEventRepository(s),
	}
	e.dedup = reconcile.NewDeduplicator(e.processed, dedupTTL)
	e.policy = restock.NewPolicy(dec(ratio))
	e.reconciler = e.reconcilerWith(e.lists)
	return e
}

// reconcilerWith arma un conciliador sobre el mismo almacén con otra lista de compras.
func (e *env) reconcilerWith(lists repository.ShoppingListRepository) *reconcile.Reconciler {
	return reconcile.NewReconciler(reconcile.Deps{
		Businesses:   memory.NewBusinessRepository(e.store),
		Ingredients:  e.ings,
		Recipes:      memory.NewRecipeRepository(e.store),
		Movements:    e.movements,
		ShoppingList: lists,
		Dedup:        e.dedup,
		Ledger:       inventory.NewLedger(memory.NewTxRunner(e.store), zerolog.Nop()),
		Fetcher:      e.fetcher,
		Policy:       e.policy,
		Logger:       zerolog.Nop(),
	})
}

func (e *env) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	ing, err := e.ings.GetByID(context.Background(), id)
	require.NoError(t, err)
	return ing.QuantityInStock
}

// orderPayload webhook order.updated con el estado indicado.
func orderPayload(merchantID, orderID, state string) []byte {
	return []byte(fmt.Sprintf(`{
		"merchant_id": %q,
		"type": "order.updated",
		"event_id": "evt-%s",
		"data": {
			"type": "order_updated",
			"id": %q,
			"object": {"order_updated": {"order_id": %q, "state": %q, "version": 4}}
		}
	}`, merchantID, orderID, orderID, orderID, state))
}

func completedPayload(orderID string) []byte {
	return orderPayload(testMerchantID, orderID, entity.OrderStateCompleted)
}
