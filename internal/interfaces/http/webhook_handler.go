package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/posync/internal/application/dto"
	"github.com/jhoicas/posync/internal/application/intake"
)

// WebhookHandler recibe los eventos de órdenes del POS (público, sin JWT).
type WebhookHandler struct {
	receiver *intake.Receiver
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(receiver *intake.Receiver) *WebhookHandler {
	return &WebhookHandler{receiver: receiver}
}

// OrderEvent encola el evento y responde de inmediato; la conciliación es asíncrona.
// POST /webhooks/square/orders
func (h *WebhookHandler) OrderEvent(c *fiber.Ctx) error {
	receipt, err := h.receiver.Receive(c.UserContext(), c.Body())
	if err != nil {
		return writeError(c, err, "")
	}
	ack := dto.WebhookAckResponse{
		Received: true,
		EventID:  receipt.EventID,
		OrderID:  receipt.OrderID,
		Queued:   receipt.Queued,
	}
	if !receipt.Queued {
		return c.Status(fiber.StatusOK).JSON(ack)
	}
	return c.Status(fiber.StatusAccepted).JSON(ack)
}
