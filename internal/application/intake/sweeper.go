package intake

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweepable elimina registros vencidos y devuelve cuántos borró.
type Sweepable interface {
	Sweep(ctx context.Context) (int64, error)
}

// Sweeper barre periódicamente los registros de deduplicación vencidos.
type Sweeper struct {
	target   Sweepable
	interval time.Duration
	log      zerolog.Logger
}

// NewSweeper construye el barrendero; intervalo no positivo usa una hora.
func NewSweeper(target Sweepable, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{target: target, interval: interval, log: log.With().Str("component", "sweeper").Logger()}
}

// Run barre al arrancar y luego en cada intervalo hasta que ctx se cancela.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		s.sweepOnce(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	n, err := s.target.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error().Err(err).Msg("Error barriendo órdenes procesadas")
		}
		return
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Msg("Órdenes procesadas vencidas eliminadas")
	}
}
