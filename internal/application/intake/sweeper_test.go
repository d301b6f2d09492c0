package intake_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posync/internal/application/intake"
)

type fakeSweepable struct {
	calls atomic.Int32
	fail  bool
}

func (f *fakeSweepable) Sweep(context.Context) (int64, error) {
	f.calls.Add(1)
	if f.fail {
		return 0, errors.New("tabla bloqueada")
	}
	return 3, nil
}

func TestSweeper_BarreAlArrancarYPeriodicamente(t *testing.T) {
	target := &fakeSweepable{}
	s := intake.NewSweeper(target, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return target.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestSweeper_ErrorNoDetieneElCiclo(t *testing.T) {
	target := &fakeSweepable{fail: true}
	s := intake.NewSweeper(target, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return target.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
