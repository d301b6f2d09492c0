package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/application/inventory"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
	"github.com/jhoicas/posync/internal/domain/restock"
	"github.com/jhoicas/posync/internal/domain/units"
)

// OrderFetcher consulta el detalle de una orden al POS.
type OrderFetcher interface {
	GetOrder(ctx context.Context, accessToken, orderID string) (*entity.Order, error)
}

// StockConsumer descuenta stock en la unidad base del ingrediente.
type StockConsumer interface {
	Consume(ctx context.Context, input inventory.ConsumeInput) (decimal.Decimal, error)
}

// Outcome resultado de conciliar un evento.
type Outcome string

const (
	OutcomeReconciled       Outcome = "RECONCILED"
	OutcomeAlreadyProcessed Outcome = "ALREADY_PROCESSED"
	OutcomeIgnored          Outcome = "IGNORED"
)

// Deduction descuento aplicado, en la unidad base del ingrediente.
type Deduction struct {
	LineItem     string
	Modifier     string
	IngredientID string
	Quantity     decimal.Decimal
	Unit         string
	NewQuantity  decimal.Decimal
}

// Skip parte de la orden que no se concilió. Err envuelve el error de dominio.
type Skip struct {
	LineItem     string
	Modifier     string
	IngredientID string
	Err          error
}

// Report resumen de la conciliación de una orden.
type Report struct {
	EventType           string
	OrderID             string
	BusinessID          string
	Outcome             Outcome
	Deductions          []Deduction
	Skipped             []Skip
	ShoppingListChanged bool
}

// Deps colaboradores del conciliador.
type Deps struct {
	Businesses   repository.BusinessRepository
	Ingredients  repository.IngredientRepository
	Recipes      repository.RecipeRepository
	Movements    repository.IngredientMovementRepository
	ShoppingList repository.ShoppingListRepository
	Dedup        *Deduplicator
	Ledger       StockConsumer
	Fetcher      OrderFetcher
	Policy       restock.Policy
	Logger       zerolog.Logger
}

// Reconciler orquesta la conciliación de órdenes POS contra el inventario.
// No lanza goroutines; la concurrencia la ponen los workers de la bandeja.
type Reconciler struct {
	businesses   repository.BusinessRepository
	ingredients  repository.IngredientRepository
	recipes      repository.RecipeRepository
	movements    repository.IngredientMovementRepository
	shoppingList repository.ShoppingListRepository
	dedup        *Deduplicator
	ledger       StockConsumer
	fetcher      OrderFetcher
	policy       restock.Policy
	log          zerolog.Logger
}

// NewReconciler construye el orquestador.
func NewReconciler(d Deps) *Reconciler {
	return &Reconciler{
		businesses:   d.Businesses,
		ingredients:  d.Ingredients,
		recipes:      d.Recipes,
		movements:    d.Movements,
		shoppingList: d.ShoppingList,
		dedup:        d.Dedup,
		ledger:       d.Ledger,
		fetcher:      d.Fetcher,
		policy:       d.Policy,
		log:          d.Logger.With().Str("component", "reconciler").Logger(),
	}
}

// orderRun estado de la conciliación de una orden.
type orderRun struct {
	business     *entity.Business
	orderID      string
	catalog      *Catalog
	ingredients  map[string]*entity.Ingredient
	observations []restock.Observation
	report       *Report
	log          zerolog.Logger
}

// Reconcile concilia un evento crudo del webhook. Es idempotente por ID de orden.
// Tras reservar la orden el proceso continúa aunque ctx se cancele.
func (r *Reconciler) Reconcile(ctx context.Context, payload []byte) (*Report, error) {
	ev, err := ParseEvent(payload)
	if err != nil {
		r.log.Warn().Err(err).Msg("Evento descartado")
		return nil, err
	}
	report := &Report{EventType: ev.Type, OrderID: ev.OrderID}
	log := r.log.With().Str("order_id", ev.OrderID).Logger()

	if !ev.Completed() {
		log.Debug().Str("state", ev.State).Msg("Orden no completada, se ignora")
		report.Outcome = OutcomeIgnored
		return report, nil
	}

	business, err := r.businesses.GetByMerchantID(ctx, ev.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("buscar negocio: %w", err)
	}
	if !business.HasPOSCredentials() {
		log.Warn().Str("merchant_id", ev.MerchantID).Msg("Negocio desconocido o sin token POS")
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownBusiness, ev.MerchantID)
	}
	report.BusinessID = business.ID
	log = log.With().Str("business_id", business.ID).Logger()

	should, err := r.dedup.ShouldProcess(ctx, ev.OrderID)
	if err != nil {
		return nil, err
	}
	if !should {
		log.Info().Msg("Orden duplicada ignorada")
		report.Outcome = OutcomeAlreadyProcessed
		return report, nil
	}
	marked, err := r.dedup.MarkProcessed(ctx, ev.OrderID)
	if err != nil {
		return nil, err
	}
	if !marked {
		log.Info().Msg("Orden reservada por otra entrega")
		report.Outcome = OutcomeAlreadyProcessed
		return report, nil
	}

	// La orden ya está reservada: abandonarla a mitad dejaría el inventario a medio descontar.
	ctx = context.WithoutCancel(ctx)

	applied, err := r.movements.ExistsForOrder(ctx, ev.OrderID)
	if err != nil {
		return nil, partial(log, fmt.Errorf("consultar movimientos de la orden: %w", err))
	}
	if applied {
		log.Info().Msg("Orden ya descontada (registro de deduplicación vencido)")
		report.Outcome = OutcomeAlreadyProcessed
		return report, nil
	}

	order, err := r.fetcher.GetOrder(ctx, business.SquareAccessToken, ev.OrderID)
	if err != nil {
		log.Error().Err(err).Msg("No se pudo obtener la orden del POS")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFetchFailed, err)
	}

	run, err := r.newRun(ctx, business, ev.OrderID, report, log)
	if err != nil {
		return nil, partial(log, err)
	}
	for _, li := range order.LineItems {
		r.reconcileLineItem(ctx, run, li)
	}

	if err := r.commitShoppingList(ctx, run); err != nil {
		return nil, partial(log, err)
	}
	report.Outcome = OutcomeReconciled
	log.Info().
		Int("deductions", len(report.Deductions)).
		Int("skipped", len(report.Skipped)).
		Bool("shopping_list_changed", report.ShoppingListChanged).
		Msg("Orden conciliada")
	return report, nil
}

// partial marca un error ocurrido con la orden ya reservada.
func partial(log zerolog.Logger, err error) error {
	log.Error().Err(err).Msg("Orden reservada con trabajo pendiente, requiere revisión manual")
	return fmt.Errorf("%w: %w", domain.ErrPartiallyApplied, err)
}

func (r *Reconciler) newRun(ctx context.Context, business *entity.Business, orderID string, report *Report, log zerolog.Logger) (*orderRun, error) {
	catalog, err := LoadCatalog(ctx, r.recipes, business.ID)
	if err != nil {
		return nil, err
	}
	list, err := r.ingredients.ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, fmt.Errorf("cargar ingredientes: %w", err)
	}
	byID := make(map[string]*entity.Ingredient, len(list))
	for _, ing := range list {
		byID[ing.ID] = ing
	}
	return &orderRun{
		business:    business,
		orderID:     orderID,
		catalog:     catalog,
		ingredients: byID,
		report:      report,
		log:         log,
	}, nil
}

// reconcileLineItem descuenta primero los ingredientes de los modificadores y luego los
// ingredientes base que ningún modificador haya cubierto ya.
func (r *Reconciler) reconcileLineItem(ctx context.Context, run *orderRun, li entity.LineItem) {
	recipe, err := run.catalog.ResolveLineItem(li)
	if err != nil {
		run.log.Warn().Err(err).Str("line_item", li.Name).Msg("Línea sin receta, se omite")
		run.report.Skipped = append(run.report.Skipped, Skip{LineItem: li.Name, Err: err})
		return
	}
	qty := li.Quantity
	if !qty.IsPositive() {
		err := fmt.Errorf("%w: cantidad %s", domain.ErrInvalidInput, qty)
		run.log.Warn().Err(err).Str("line_item", li.Name).Msg("Línea sin cantidad, se omite")
		run.report.Skipped = append(run.report.Skipped, Skip{LineItem: li.Name, Err: err})
		return
	}

	processed := make(map[string]bool)
	for _, sel := range li.Modifiers {
		def, ok := run.catalog.ResolveModifier(recipe, sel.Name)
		if !ok || !def.IsMapped() {
			run.log.Warn().Str("line_item", li.Name).Str("modifier", sel.Name).Msg("Modificador sin ingrediente asociado, se omite")
			continue
		}
		per := sel.Quantity
		if !per.IsPositive() {
			per = decimal.NewFromInt(1)
		}
		processed[def.IngredientID] = true
		r.consume(ctx, run, li.Name, sel.Name, def.IngredientID, def.Quantity.Mul(per).Mul(qty), def.Unit)
	}

	for _, ri := range recipe.Ingredients {
		if processed[ri.IngredientID] {
			continue
		}
		r.consume(ctx, run, li.Name, "", ri.IngredientID, ri.Quantity.Mul(qty), ri.Unit)
	}
}

// consume convierte a la unidad base, descuenta y acumula la observación de reposición.
// Cualquier error omite solo este ingrediente.
func (r *Reconciler) consume(ctx context.Context, run *orderRun, lineItem, modifier, ingredientID string, amount decimal.Decimal, unit string) {
	skip := func(err error) {
		run.report.Skipped = append(run.report.Skipped, Skip{
			LineItem: lineItem, Modifier: modifier, IngredientID: ingredientID, Err: err,
		})
	}

	ing, ok := run.ingredients[ingredientID]
	if !ok {
		err := fmt.Errorf("%w: %s", domain.ErrUnresolvedIngredient, ingredientID)
		run.log.Warn().Err(err).Str("line_item", lineItem).Msg("Ingrediente inexistente, se omite")
		skip(err)
		return
	}
	if unit == "" {
		unit = ing.BaseUnit
	}
	base, err := units.Convert(amount, unit, ing.BaseUnit, ing.ConversionRate)
	if err != nil {
		run.log.Error().Err(err).
			Str("ingredient_id", ingredientID).
			Str("from", unit).
			Str("to", ing.BaseUnit).
			Msg("Conversión de unidades no soportada, se omite el descuento")
		skip(err)
		return
	}

	newQty, err := r.ledger.Consume(ctx, inventory.ConsumeInput{
		BusinessID:   run.business.ID,
		IngredientID: ingredientID,
		OrderID:      run.orderID,
		Quantity:     base,
		Unit:         ing.BaseUnit,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: %s", domain.ErrUnresolvedIngredient, ingredientID)
		}
		run.log.Warn().Err(err).Str("ingredient_id", ingredientID).Msg("Descuento fallido, se omite")
		skip(err)
		return
	}

	run.report.Deductions = append(run.report.Deductions, Deduction{
		LineItem:     lineItem,
		Modifier:     modifier,
		IngredientID: ingredientID,
		Quantity:     base,
		Unit:         ing.BaseUnit,
		NewQuantity:  newQty,
	})
	run.observations = append(run.observations, restock.Observation{
		IngredientID: ingredientID,
		NewQuantity:  newQty,
		Max:          ing.Max,
		Consumed:     base,
	})
}

// commitShoppingList aplica todas las observaciones de la orden en una sola escritura bloqueada.
// El stock se relee dentro del lock de la lista: el último en escribir usa el valor más reciente.
func (r *Reconciler) commitShoppingList(ctx context.Context, run *orderRun) error {
	triggered := false
	for _, obs := range run.observations {
		if r.policy.Triggers(obs) {
			triggered = true
			break
		}
	}
	if !triggered {
		return nil
	}
	_, err := r.shoppingList.Modify(ctx, run.business.ID, func(list *entity.ShoppingList) error {
		current, err := r.currentStock(ctx, run.observations)
		if err != nil {
			return err
		}
		run.report.ShoppingListChanged = r.policy.ApplyAll(list, restock.Rebase(run.observations, current))
		return nil
	})
	if err != nil {
		return fmt.Errorf("actualizar lista de compras: %w", err)
	}
	return nil
}

// currentStock lee el stock actual de los ingredientes con máximo. Un ingrediente borrado
// conserva el valor observado.
func (r *Reconciler) currentStock(ctx context.Context, observations []restock.Observation) (map[string]decimal.Decimal, error) {
	current := make(map[string]decimal.Decimal)
	for _, obs := range observations {
		if obs.Max == nil {
			continue
		}
		if _, ok := current[obs.IngredientID]; ok {
			continue
		}
		ing, err := r.ingredients.GetByID(ctx, obs.IngredientID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("releer stock de %s: %w", obs.IngredientID, err)
		}
		current[obs.IngredientID] = ing.QuantityInStock
	}
	return current, nil
}
