package commands

import (
	"log/slog"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/usecase/shared"
)

// Dependencies are the process-scoped collaborators every command service is
// built from. They are resolved once at startup.
type Dependencies struct {
	UoW        shared.UnitOfWork
	Locker     shared.Locker
	Publisher  shared.EventPublisher
	Clock      clock.Clock
	Calculator pricing.Calculator
	PeakPolicy pricing.PeakPolicy
	Factory    *reservation.Factory
	Booking    config.BookingConfig
	Queue      config.QueueConfig
	Logger     *slog.Logger
}

func NewDependencies(
	uow shared.UnitOfWork,
	locker shared.Locker,
	publisher shared.EventPublisher,
	clk clock.Clock,
	calc pricing.Calculator,
	peak pricing.PeakPolicy,
	cfg config.Config,
	logger *slog.Logger,
) *Dependencies {
	return &Dependencies{
		UoW:        uow,
		Locker:     locker,
		Publisher:  publisher,
		Clock:      clk,
		Calculator: calc,
		PeakPolicy: peak,
		Factory:    reservation.NewFactory(clk, calc, peak, cfg.Booking.HoldDuration),
		Booking:    cfg.Booking,
		Queue:      cfg.Queue,
		Logger:     logger,
	}
}
