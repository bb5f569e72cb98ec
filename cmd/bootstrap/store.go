package bootstrap

import (
	"context"
	"log/slog"

	"gamezone-booking/internal/infra/db"
	"gamezone-booking/internal/infra/lock"
	"gamezone-booking/internal/infra/memstore"
	"gamezone-booking/internal/infra/uow"
	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewStore,
	),
)

type Store struct {
	fx.Out

	UoW    shared.UnitOfWork
	Locker shared.Locker
}

// NewStore picks the persistence backend. Postgres backs both the unit of work
// and the booking locks; the memory driver keeps everything in-process.
func NewStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (Store, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, state is lost on restart")
		return Store{UoW: memstore.New(), Locker: lock.NewMemoryLocker(clk)}, nil
	}

	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return Store{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return Store{
		UoW:    uow.NewPostgresUoW(pool, logger),
		Locker: lock.NewPostgresLocker(pool, logger),
	}, nil
}
