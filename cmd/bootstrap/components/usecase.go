package components

import (
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/pkg/signature"
	"gamezone-booking/internal/usecase"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		pricing.NewDefaultCalculator,
		fx.As(new(pricing.Calculator)),
	),
	NewPeakPolicy,
	NewPaymentVerifier,
	commands.NewDependencies,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		fx.Annotate(
			commands.NewWaitlistCommands,
			fx.As(fx.Self()),
			fx.As(new(commands.Promoter)),
		),
		commands.NewSessionCommands,
		commands.NewStationCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewPeakPolicy(cfg config.Config) (pricing.PeakPolicy, error) {
	loc, err := time.LoadLocation(cfg.Pricing.TimeZone)
	if err != nil {
		return nil, errs.Wrapf(err, "load PRICING_TIMEZONE %q", cfg.Pricing.TimeZone)
	}
	days, err := pricing.ParseWeekdays(cfg.Pricing.PeakDays)
	if err != nil {
		return nil, err
	}
	return pricing.NewWindowPeakPolicy(loc, days, cfg.Pricing.PeakStartHour, cfg.Pricing.PeakEndHour), nil
}

func NewPaymentVerifier(cfg config.Config) *signature.Verifier {
	return signature.NewVerifier(cfg.Payment.Secret)
}
