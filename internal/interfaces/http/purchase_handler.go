package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/posync/internal/application/catalog"
	"github.com/jhoicas/posync/internal/application/dto"
	"github.com/jhoicas/posync/internal/application/purchasing"
)

// PurchaseHandler recepción de compras (protegido).
type PurchaseHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Receive suma lo recibido al inventario y pasa el faltante a la lista de compras.
// POST /api/purchases/receive
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Receive(c.UserContext(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, err, "ingrediente no encontrado")
	}
	return c.JSON(out)
}

// CatalogHandler sincronización del catálogo del POS (protegido, solo admin).
type CatalogHandler struct {
	uc *catalog.SyncUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.SyncUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Sync POST /api/catalog/sync
func (h *CatalogHandler) Sync(c *fiber.Ctx) error {
	out, err := h.uc.Sync(c.UserContext(), GetBusinessID(c))
	if err != nil {
		return writeError(c, err, "negocio no encontrado")
	}
	return c.JSON(out)
}
