package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/posync/internal/application/inventory"
)

// MovementHandler consulta de auditoría de descuentos por orden (protegido, solo admin).
type MovementHandler struct {
	uc *inventory.MovementsUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementsUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// ListByOrder GET /api/orders/:orderId/movements
func (h *MovementHandler) ListByOrder(c *fiber.Ctx) error {
	out, err := h.uc.ListByOrder(c.UserContext(), GetBusinessID(c), c.Params("orderId"))
	if err != nil {
		return writeError(c, err, "la orden no tiene movimientos")
	}
	return c.JSON(out)
}
