package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

// StartSweeper expires unpaid holds and overdue queue entries in the
// background. Stations freed by lapsed holds go to the queue.
func StartSweeper(lc fx.Lifecycle, cfg config.Config, reservations commands.ReservationCommands, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Booking.SweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						n, err := reservations.ExpireStale(ctx)
						if err != nil {
							logger.Error("expiry sweep failed", "error", err)
							continue
						}
						if n > 0 {
							logger.Info("expired stale holds and queue entries", "count", n)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
