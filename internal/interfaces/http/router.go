package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/posync/internal/application/catalog"
	"github.com/jhoicas/posync/internal/application/intake"
	"github.com/jhoicas/posync/internal/application/inventory"
	"github.com/jhoicas/posync/internal/application/purchasing"
	"github.com/jhoicas/posync/internal/application/shopping"
)

// Rol con acceso a la auditoría y a la sincronización del catálogo.
const RoleAdmin = "admin"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Receiver   *intake.Receiver
	ShoppingUC *shopping.UseCase
	Movements  *inventory.MovementsUseCase
	Purchasing *purchasing.UseCase
	CatalogUC  *catalog.SyncUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Webhook del POS (público; la autenticidad la da el merchant registrado)
	webhookHandler := NewWebhookHandler(deps.Receiver)
	app.Post("/webhooks/square/orders", webhookHandler.OrderEvent)

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	shoppingList := api.Group("/shopping-list")
	shoppingHandler := NewShoppingListHandler(deps.ShoppingUC)
	shoppingList.Get("/", shoppingHandler.Get)
	shoppingList.Get("/pdf", shoppingHandler.ExportPDF)
	shoppingList.Put("/clear", shoppingHandler.Clear)
	shoppingList.Post("/items/:ingredientId", shoppingHandler.AddItem)
	shoppingList.Delete("/items/:ingredientId", shoppingHandler.RemoveQuantity)

	orders := api.Group("/orders", RequireRole(RoleAdmin))
	movementHandler := NewMovementHandler(deps.Movements)
	orders.Get("/:orderId/movements", movementHandler.ListByOrder)

	purchaseHandler := NewPurchaseHandler(deps.Purchasing)
	api.Post("/purchases/receive", purchaseHandler.Receive)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	api.Post("/catalog/sync", RequireRole(RoleAdmin), catalogHandler.Sync)
}
