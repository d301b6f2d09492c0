package intake

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/posync/internal/application/reconcile"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

// Processor concilia un evento crudo.
type Processor interface {
	Reconcile(ctx context.Context, payload []byte) (*reconcile.Report, error)
}

// WorkerConfig parámetros del pool de workers.
type WorkerConfig struct {
	Workers      int
	BatchSize    int
	MaxAttempts  int
	PollInterval time.Duration
	ClaimLease   time.Duration
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.ClaimLease <= 0 {
		c.ClaimLease = 5 * time.Minute
	}
	return c
}

// Worker consume la bandeja de entrada: reserva eventos, los concilia y registra el resultado.
type Worker struct {
	inbox  repository.InboxRepository
	proc   Processor
	cfg    WorkerConfig
	log    zerolog.Logger
	notify chan struct{}
	now    func() time.Time
}

// NewWorker construye el pool.
func NewWorker(inbox repository.InboxRepository, proc Processor, cfg WorkerConfig, log zerolog.Logger) *Worker {
	return &Worker{
		inbox:  inbox,
		proc:   proc,
		cfg:    cfg.withDefaults(),
		log:    log.With().Str("component", "inbox_worker").Logger(),
		notify: make(chan struct{}, 1),
		now:    time.Now,
	}
}

// Notify despierta a un worker sin bloquear; avisos repetidos se colapsan.
func (w *Worker) Notify() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Run arranca los workers y bloquea hasta que ctx se cancela y todos terminan.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.cfg.Workers; i++ {
		id := i
		g.Go(func() error {
			w.loop(ctx, id)
			return nil
		})
	}
	return g.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) {
	log := w.log.With().Int("worker", id).Logger()
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.notify:
		case <-ticker.C:
		}
		for ctx.Err() == nil {
			n, err := w.ProcessBatch(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Error reservando eventos")
				break
			}
			if n == 0 {
				break
			}
		}
	}
}

// ProcessBatch reserva y procesa un lote; devuelve cuántos eventos tomó.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.inbox.Claim(ctx, w.cfg.BatchSize, w.now().Add(-w.cfg.ClaimLease))
	if err != nil {
		return 0, err
	}
	for _, ev := range events {
		w.handle(ctx, ev)
	}
	return len(events), nil
}

func (w *Worker) handle(ctx context.Context, ev *entity.InboxEvent) {
	log := w.log.With().Str("event_id", ev.ID).Str("order_id", ev.OrderID).Int("attempt", ev.Attempts).Logger()
	// El resultado se registra aunque el worker se esté apagando.
	finishCtx := context.WithoutCancel(ctx)

	report, err := w.proc.Reconcile(ctx, ev.Payload)
	switch {
	case err == nil:
		status := entity.InboxStatusDone
		if report != nil && report.Outcome != reconcile.OutcomeReconciled {
			status = entity.InboxStatusSkipped
		}
		w.finish(finishCtx, log, ev.ID, status, "")
	case isTerminal(err):
		log.Warn().Err(err).Msg("Evento descartado")
		w.finish(finishCtx, log, ev.ID, entity.InboxStatusFailed, err.Error())
	case ev.Attempts >= w.cfg.MaxAttempts:
		log.Error().Err(err).Msg("Evento agotó los reintentos")
		w.finish(finishCtx, log, ev.ID, entity.InboxStatusFailed, err.Error())
	default:
		log.Warn().Err(err).Msg("Error transitorio, se reintentará")
		if rerr := w.inbox.Release(finishCtx, ev.ID, err.Error()); rerr != nil {
			log.Error().Err(rerr).Msg("No se pudo liberar el evento")
		}
	}
}

func (w *Worker) finish(ctx context.Context, log zerolog.Logger, id, status, msg string) {
	if err := w.inbox.Finish(ctx, id, status, msg); err != nil {
		log.Error().Err(err).Str("status", status).Msg("No se pudo cerrar el evento")
	}
}

// isTerminal errores que un reintento no corrige. Todo lo que falla después de reservar la
// orden es terminal: el reintento la vería como duplicada y la cerraría como omitida.
func isTerminal(err error) bool {
	return errors.Is(err, domain.ErrInvalidPayload) ||
		errors.Is(err, domain.ErrUnknownBusiness) ||
		errors.Is(err, domain.ErrUpstreamFetchFailed) ||
		errors.Is(err, domain.ErrPartiallyApplied)
}
