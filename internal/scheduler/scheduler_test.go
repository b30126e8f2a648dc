package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"escrow-custody-gateway/config"
	"escrow-custody-gateway/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestCleanup_SweepsOnStartAndStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	trades := mocks.NewMockTradeRepository(ctrl)
	cfg := config.CleanupConfig{
		Interval:       time.Hour, // only the immediate sweep fires in this test
		AbandonedAfter: 48 * time.Hour,
		ExpiredAfter:   7 * 24 * time.Hour,
	}

	swept := make(chan struct{})
	trades.EXPECT().CancelAbandoned(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cutoff time.Time) (int64, error) {
			age := time.Since(cutoff)
			assert.InDelta(t, cfg.AbandonedAfter.Seconds(), age.Seconds(), 5)
			return 2, nil
		})
	trades.EXPECT().ExpireStuck(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cutoff time.Time) (int64, error) {
			age := time.Since(cutoff)
			assert.InDelta(t, cfg.ExpiredAfter.Seconds(), age.Seconds(), 5)
			close(swept)
			return 0, nil
		})

	c := NewCleanup(trades, cfg, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("initial sweep did not run")
	}

	cancel()
	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after cancel")
	}
}

func TestCleanup_SweepErrorsDoNotStopLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	trades := mocks.NewMockTradeRepository(ctrl)
	cfg := config.CleanupConfig{
		Interval:       10 * time.Millisecond,
		AbandonedAfter: time.Hour,
		ExpiredAfter:   time.Hour,
	}

	sweeps := make(chan struct{}, 8)
	trades.EXPECT().CancelAbandoned(gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("db down")).MinTimes(2)
	trades.EXPECT().ExpireStuck(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ time.Time) (int64, error) {
			select {
			case sweeps <- struct{}{}:
			default:
			}
			return 0, errors.New("db down")
		}).MinTimes(2)

	c := NewCleanup(trades, cfg, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	// The loop must survive repeated sweep failures.
	for i := 0; i < 2; i++ {
		select {
		case <-sweeps:
		case <-time.After(2 * time.Second):
			t.Fatal("sweep stopped after a failure")
		}
	}

	cancel()
	c.Wait()
}
