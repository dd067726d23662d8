package dispatch

import (
	"context"
	"time"

	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// RunLoop drives the fixed-rate control loop: every period it runs fn (which
// should call ProcessInputs for each subsystem), records the cycle duration,
// and advances the dispatcher. It returns when ctx is cancelled, when fn
// errors, or when a replaying dispatcher runs out of recorded cycles.
//
// Cycles are strictly sequential; a slow fn delays the next tick rather than
// overlapping with it.
func RunLoop(ctx context.Context, d *Dispatcher, obs ports.Observability, period time.Duration, fn func() error) error {
	if period <= 0 {
		period = 20 * time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		start := time.Now()
		if err := fn(); err != nil {
			return err
		}
		obs.ObserveLatency("akit_cycle_duration_seconds", time.Since(start).Seconds())
		d.AdvanceCycle()

		if d.Done() {
			return nil
		}
	}
}
