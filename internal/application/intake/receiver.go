package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/posync/internal/application/reconcile"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

// Notifier despierta a los workers cuando llega un evento nuevo.
type Notifier interface {
	Notify()
}

// Receipt respuesta inmediata al webhook.
type Receipt struct {
	EventID string
	OrderID string
	Queued  bool // false: evento válido pero sin nada que conciliar (orden no completada)
}

// Receiver persiste los eventos del webhook en la bandeja antes de confirmarlos al POS.
type Receiver struct {
	inbox    repository.InboxRepository
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewReceiver construye el receptor; notifier puede ser nil.
func NewReceiver(inbox repository.InboxRepository, notifier Notifier, log zerolog.Logger) *Receiver {
	return &Receiver{
		inbox:    inbox,
		notifier: notifier,
		log:      log.With().Str("component", "intake").Logger(),
		now:      time.Now,
	}
}

// Receive valida el sobre y lo encola. Un payload inválido devuelve domain.ErrInvalidPayload sin persistir nada.
func (r *Receiver) Receive(ctx context.Context, payload []byte) (*Receipt, error) {
	ev, err := reconcile.ParseEvent(payload)
	if err != nil {
		return nil, err
	}
	if !ev.Completed() {
		r.log.Debug().Str("order_id", ev.OrderID).Str("state", ev.State).Msg("Evento de orden no completada, no se encola")
		return &Receipt{OrderID: ev.OrderID}, nil
	}

	event := &entity.InboxEvent{
		ID:         uuid.New().String(),
		MerchantID: ev.MerchantID,
		OrderID:    ev.OrderID,
		EventType:  ev.Type,
		Payload:    append([]byte(nil), payload...),
		Status:     entity.InboxStatusPending,
		ReceivedAt: r.now().UTC(),
	}
	if err := r.inbox.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("encolar evento: %w", err)
	}
	r.log.Info().Str("event_id", event.ID).Str("order_id", event.OrderID).Msg("Evento encolado")

	if r.notifier != nil {
		r.notifier.Notify()
	}
	return &Receipt{EventID: event.ID, OrderID: event.OrderID, Queued: true}, nil
}
