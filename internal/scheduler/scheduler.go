// Package scheduler runs the periodic trade cleanup: abandoned trades
// (no buyer) are system-cancelled and stalled trades are expired. Both
// sweeps are idempotent conditional updates, so overlapping runs or a
// second instance cannot double-apply them.
package scheduler

import (
	"context"
	"time"

	"escrow-custody-gateway/config"
	"escrow-custody-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// Cleanup owns the sweep loop.
type Cleanup struct {
	trades ports.TradeRepository
	cfg    config.CleanupConfig
	log    zerolog.Logger
	done   chan struct{}
}

// NewCleanup creates the cleanup scheduler.
func NewCleanup(trades ports.TradeRepository, cfg config.CleanupConfig, log zerolog.Logger) *Cleanup {
	return &Cleanup{
		trades: trades,
		cfg:    cfg,
		log:    log,
		done:   make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is cancelled. One sweep runs
// immediately so a restart doesn't wait a full interval.
func (c *Cleanup) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.cfg.Interval)
		defer ticker.Stop()

		c.sweep(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep(ctx)
			}
		}
	}()
}

// Wait blocks until the loop has exited after cancellation.
func (c *Cleanup) Wait() {
	<-c.done
}

// sweep applies both cutoffs once.
func (c *Cleanup) sweep(ctx context.Context) {
	now := time.Now().UTC()

	cancelled, err := c.trades.CancelAbandoned(ctx, now.Add(-c.cfg.AbandonedAfter))
	if err != nil {
		c.log.Error().Err(err).Msg("cancelling abandoned trades")
	} else if cancelled > 0 {
		c.log.Info().Int64("count", cancelled).Msg("abandoned trades cancelled")
	}

	expired, err := c.trades.ExpireStuck(ctx, now.Add(-c.cfg.ExpiredAfter))
	if err != nil {
		c.log.Error().Err(err).Msg("expiring stuck trades")
	} else if expired > 0 {
		c.log.Info().Int64("count", expired).Msg("stuck trades expired")
	}
}
