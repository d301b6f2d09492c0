package reconcile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
)

// Event datos mínimos del webhook de orden del POS.
type Event struct {
	ID         string
	Type       string
	MerchantID string
	OrderID    string
	State      string
}

type orderSnapshot struct {
	OrderID string `json:"order_id"`
	State   string `json:"state"`
}

type eventEnvelope struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	MerchantID string `json:"merchant_id"`
	Data       struct {
		ID     string `json:"id"`
		Object struct {
			OrderUpdated   *orderSnapshot `json:"order_updated"`
			OrderCompleted *orderSnapshot `json:"order_completed"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent valida el sobre del webhook. Devuelve domain.ErrInvalidPayload si el JSON es
// inválido, el tipo no es de orden completada/actualizada o falta el ID de la orden.
func ParseEvent(payload []byte) (*Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	ev := &Event{
		ID:         env.EventID,
		Type:       strings.TrimSpace(env.Type),
		MerchantID: strings.TrimSpace(env.MerchantID),
	}

	var snap *orderSnapshot
	switch ev.Type {
	case entity.EventTypeOrderUpdated:
		snap = env.Data.Object.OrderUpdated
	case entity.EventTypeOrderCompleted:
		snap = env.Data.Object.OrderCompleted
		if snap == nil {
			snap = env.Data.Object.OrderUpdated
		}
	default:
		return nil, fmt.Errorf("%w: tipo de evento %q", domain.ErrInvalidPayload, env.Type)
	}
	if snap != nil {
		ev.OrderID = strings.TrimSpace(snap.OrderID)
		ev.State = strings.ToUpper(strings.TrimSpace(snap.State))
	}
	if ev.OrderID == "" {
		ev.OrderID = strings.TrimSpace(env.Data.ID)
	}
	if ev.OrderID == "" {
		return nil, fmt.Errorf("%w: falta el ID de la orden", domain.ErrInvalidPayload)
	}
	return ev, nil
}

// Completed informa si el evento corresponde a una orden completada.
// order.completed no necesita estado; order.updated solo cuenta en estado COMPLETED.
func (e *Event) Completed() bool {
	if e.Type == entity.EventTypeOrderCompleted {
		return e.State == "" || e.State == entity.OrderStateCompleted
	}
	return e.State == entity.OrderStateCompleted
}
