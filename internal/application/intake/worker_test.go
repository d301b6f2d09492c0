package intake_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posync/internal/application/intake"
	"github.com/jhoicas/posync/internal/application/reconcile"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/infrastructure/memory"
)

func enqueue(t *testing.T, inbox *memory.InboxRepo, orderID string) string {
	t.Helper()
	id := "evt-" + orderID
	require.NoError(t, inbox.Save(context.Background(), &entity.InboxEvent{
		ID:         id,
		OrderID:    orderID,
		EventType:  entity.EventTypeOrderUpdated,
		Payload:    payload(orderID, "COMPLETED"),
		Status:     entity.InboxStatusPending,
		ReceivedAt: time.Now(),
	}))
	return id
}

func statusOf(t *testing.T, inbox *memory.InboxRepo, id string) *entity.InboxEvent {
	t.Helper()
	ev, err := inbox.GetByID(context.Background(), id)
	require.NoError(t, err)
	return ev
}

// ──────────────────────────────────────────────────────────────────────────────
// ProcessBatch: estados finales
// ──────────────────────────────────────────────────────────────────────────────

func TestWorker_EstadosSegunResultado(t *testing.T) {
	ctx := context.Background()
	inbox := memory.NewInboxRepository(memory.NewStore())
	proc := newFakeProcessor()
	proc.on("o-dup", reconcile.OutcomeAlreadyProcessed, nil)
	proc.on("o-ign", reconcile.OutcomeIgnored, nil)
	proc.on("o-bad", "", fmt.Errorf("%w: negocio", domain.ErrUnknownBusiness))
	proc.on("o-pos", "", fmt.Errorf("%w: 503", domain.ErrUpstreamFetchFailed))
	proc.on("o-par", "", fmt.Errorf("%w: lista de compras", domain.ErrPartiallyApplied))

	ok := enqueue(t, inbox, "o-ok")
	dup := enqueue(t, inbox, "o-dup")
	ign := enqueue(t, inbox, "o-ign")
	bad := enqueue(t, inbox, "o-bad")
	pos := enqueue(t, inbox, "o-pos")
	par := enqueue(t, inbox, "o-par")

	w := intake.NewWorker(inbox, proc, intake.WorkerConfig{BatchSize: 10}, zerolog.Nop())
	n, err := w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	assert.Equal(t, entity.InboxStatusDone, statusOf(t, inbox, ok).Status)
	assert.Equal(t, entity.InboxStatusSkipped, statusOf(t, inbox, dup).Status)
	assert.Equal(t, entity.InboxStatusSkipped, statusOf(t, inbox, ign).Status)

	failed := statusOf(t, inbox, bad)
	assert.Equal(t, entity.InboxStatusFailed, failed.Status, "negocio desconocido no se reintenta")
	assert.Contains(t, failed.LastError, "negocio")
	require.NotNil(t, failed.ProcessedAt)

	assert.Equal(t, entity.InboxStatusFailed, statusOf(t, inbox, pos).Status, "falla del POS no se reintenta")

	partial := statusOf(t, inbox, par)
	assert.Equal(t, entity.InboxStatusFailed, partial.Status, "orden reservada con falla posterior no se reintenta")
	assert.Contains(t, partial.LastError, "lista de compras")

	n, err = w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "los estados finales no se vuelven a reservar")
}

func TestWorker_PayloadInvalidoFalla(t *testing.T) {
	ctx := context.Background()
	inbox := memory.NewInboxRepository(memory.NewStore())
	require.NoError(t, inbox.Save(ctx, &entity.InboxEvent{ID: "evt-roto", Payload: []byte(`{`), Status: entity.InboxStatusPending}))

	w := intake.NewWorker(inbox, newFakeProcessor(), intake.WorkerConfig{}, zerolog.Nop())
	_, err := w.ProcessBatch(ctx)
	require.NoError(t, err)

	assert.Equal(t, entity.InboxStatusFailed, statusOf(t, inbox, "evt-roto").Status)
}

// Un error transitorio libera el evento hasta agotar MaxAttempts.
func TestWorker_ReintentaHastaMaxAttempts(t *testing.T) {
	ctx := context.Background()
	inbox := memory.NewInboxRepository(memory.NewStore())
	proc := newFakeProcessor()
	proc.on("o-1", "", errors.New("conexión reiniciada"))
	id := enqueue(t, inbox, "o-1")

	w := intake.NewWorker(inbox, proc, intake.WorkerConfig{MaxAttempts: 3}, zerolog.Nop())

	for attempt := 1; attempt <= 2; attempt++ {
		_, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		ev := statusOf(t, inbox, id)
		assert.Equal(t, entity.InboxStatusPending, ev.Status, "intento %d", attempt)
		assert.Equal(t, attempt, ev.Attempts)
		assert.Equal(t, "conexión reiniciada", ev.LastError)
	}

	_, err := w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.InboxStatusFailed, statusOf(t, inbox, id).Status)
	assert.Equal(t, 3, proc.callCount("o-1"))
}

// Un evento reservado por un worker caído se recupera al vencer la reserva.
func TestWorker_RecuperaReservaVencida(t *testing.T) {
	ctx := context.Background()
	inbox := memory.NewInboxRepository(memory.NewStore())
	id := enqueue(t, inbox, "o-1")

	claimed, err := inbox.Claim(ctx, 1, time.Now())
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	w := intake.NewWorker(inbox, newFakeProcessor(), intake.WorkerConfig{ClaimLease: time.Hour}, zerolog.Nop())
	n, err := w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "la reserva aún está vigente")

	time.Sleep(5 * time.Millisecond)
	w = intake.NewWorker(inbox, newFakeProcessor(), intake.WorkerConfig{ClaimLease: time.Millisecond}, zerolog.Nop())
	n, err = w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ev := statusOf(t, inbox, id)
	assert.Equal(t, entity.InboxStatusDone, ev.Status)
	assert.Equal(t, 2, ev.Attempts)
}

func TestWorker_RespetaBatchSize(t *testing.T) {
	ctx := context.Background()
	inbox := memory.NewInboxRepository(memory.NewStore())
	for i := 0; i < 5; i++ {
		enqueue(t, inbox, fmt.Sprintf("o-%d", i))
	}

	w := intake.NewWorker(inbox, newFakeProcessor(), intake.WorkerConfig{BatchSize: 2}, zerolog.Nop())
	for _, want := range []int{2, 2, 1, 0} {
		n, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Run
// ──────────────────────────────────────────────────────────────────────────────

// Notify despierta a los workers sin esperar al sondeo; Run termina al cancelar ctx.
func TestWorker_RunProcesaAlNotificar(t *testing.T) {
	inbox := memory.NewInboxRepository(memory.NewStore())
	proc := newFakeProcessor()
	w := intake.NewWorker(inbox, proc, intake.WorkerConfig{Workers: 3, PollInterval: time.Hour}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	ids := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		ids = append(ids, enqueue(t, inbox, fmt.Sprintf("o-%d", i)))
		w.Notify()
	}

	require.Eventually(t, func() bool {
		for _, id := range ids {
			if statusOf(t, inbox, id).Status != entity.InboxStatusDone {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)

	for i := range ids {
		assert.Equal(t, 1, proc.callCount(fmt.Sprintf("o-%d", i)), "cada evento se procesa una vez")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
}

func TestWorker_RunSondeaSinNotificacion(t *testing.T) {
	inbox := memory.NewInboxRepository(memory.NewStore())
	id := enqueue(t, inbox, "o-1")
	w := intake.NewWorker(inbox, newFakeProcessor(), intake.WorkerConfig{PollInterval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		return statusOf(t, inbox, id).Status == entity.InboxStatusDone
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
