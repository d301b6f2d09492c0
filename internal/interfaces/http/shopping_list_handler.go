package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/posync/internal/application/dto"
	"github.com/jhoicas/posync/internal/application/shopping"
)

// ShoppingListHandler operaciones manuales sobre la lista de compras (protegido).
type ShoppingListHandler struct {
	uc *shopping.UseCase
}

// NewShoppingListHandler construye el handler.
func NewShoppingListHandler(uc *shopping.UseCase) *ShoppingListHandler {
	return &ShoppingListHandler{uc: uc}
}

// Get devuelve la lista del negocio del token.
// GET /api/shopping-list
func (h *ShoppingListHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBusinessID(c))
	if err != nil {
		return writeError(c, err, "lista de compras no encontrada")
	}
	return c.JSON(out)
}

// Clear vacía la lista.
// PUT /api/shopping-list/clear
func (h *ShoppingListHandler) Clear(c *fiber.Ctx) error {
	out, err := h.uc.Clear(c.UserContext(), GetBusinessID(c))
	if err != nil {
		return writeError(c, err, "lista de compras no encontrada")
	}
	return c.JSON(out)
}

// AddItem agrega cantidad (y nota opcional) de un ingrediente.
// POST /api/shopping-list/items/:ingredientId
func (h *ShoppingListHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddShoppingItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddItem(c.UserContext(), GetBusinessID(c), c.Params("ingredientId"), in)
	if err != nil {
		return writeError(c, err, "ingrediente no encontrado")
	}
	return c.JSON(out)
}

// RemoveQuantity resta cantidad; la línea desaparece al llegar a cero.
// DELETE /api/shopping-list/items/:ingredientId
func (h *ShoppingListHandler) RemoveQuantity(c *fiber.Ctx) error {
	var in dto.RemoveShoppingItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RemoveQuantity(c.UserContext(), GetBusinessID(c), c.Params("ingredientId"), in)
	if err != nil {
		return writeError(c, err, "ítem no encontrado en la lista de compras")
	}
	return c.JSON(out)
}

// ExportPDF descarga la lista en PDF.
// GET /api/shopping-list/pdf
func (h *ShoppingListHandler) ExportPDF(c *fiber.Ctx) error {
	doc, filename, err := h.uc.ExportPDF(c.UserContext(), GetBusinessID(c))
	if err != nil {
		return writeError(c, err, "lista de compras no encontrada")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
