package components

import (
	"gamezone-booking/internal/handler"
	"gamezone-booking/internal/handler/api"
	"gamezone-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewSessionHandler,
		api.NewStationHandler,
		api.NewWaitlistHandler,
		api.NewPaymentHandler,
		api.NewEventsHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
