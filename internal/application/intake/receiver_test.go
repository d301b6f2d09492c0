package intake_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posync/internal/application/intake"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/infrastructure/memory"
)

func TestReceiver_EncolaOrdenCompletada(t *testing.T) {
	ctx := context.Background()
	inbox := memory.NewInboxRepository(memory.NewStore())
	notifier := &countingNotifier{}
	r := intake.NewReceiver(inbox, notifier, zerolog.Nop())

	raw := payload("o-1", "COMPLETED")
	receipt, err := r.Receive(ctx, raw)
	require.NoError(t, err)

	assert.True(t, receipt.Queued)
	assert.Equal(t, "o-1", receipt.OrderID)
	require.NotEmpty(t, receipt.EventID)
	assert.Equal(t, 1, notifier.count())

	// El buffer del cuerpo HTTP se reutiliza: el evento guardado no debe compartirlo.
	original := string(raw)
	for i := range raw {
		raw[i] = 'x'
	}

	saved, err := inbox.GetByID(ctx, receipt.EventID)
	require.NoError(t, err)
	assert.Equal(t, entity.InboxStatusPending, saved.Status)
	assert.Equal(t, "M-1", saved.MerchantID)
	assert.Equal(t, entity.EventTypeOrderUpdated, saved.EventType)
	assert.Equal(t, original, string(saved.Payload))
	assert.False(t, saved.ReceivedAt.IsZero())
}

func TestReceiver_OrdenNoCompletadaNoSeEncola(t *testing.T) {
	ctx := context.Background()
	inbox := memory.NewInboxRepository(memory.NewStore())
	notifier := &countingNotifier{}
	r := intake.NewReceiver(inbox, notifier, zerolog.Nop())

	receipt, err := r.Receive(ctx, payload("o-1", "OPEN"))
	require.NoError(t, err)
	assert.False(t, receipt.Queued)
	assert.Empty(t, receipt.EventID)
	assert.Equal(t, 0, notifier.count())

	claimed, err := inbox.Claim(ctx, 10, time.Now())
	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestReceiver_PayloadInvalido(t *testing.T) {
	ctx := context.Background()
	inbox := memory.NewInboxRepository(memory.NewStore())
	r := intake.NewReceiver(inbox, nil, zerolog.Nop())

	_, err := r.Receive(ctx, []byte(`no es json`))
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	claimed, err := inbox.Claim(ctx, 10, time.Now())
	require.NoError(t, err)
	assert.Empty(t, claimed, "un payload inválido no se persiste")
}
